package collector

import "os"

// SourcesConfig holds the base URLs of the configurable providers.
// Wikipedia is live by default; the other three point at the local mock
// server until real accounts are provisioned.
type SourcesConfig struct {
	TrefleBaseURL        string
	PlantNetBaseURL      string
	OpenPlantBookBaseURL string
	WikipediaBaseURL     string
}

const defaultMockBase = "http://localhost:9000"

func LoadSourcesConfig() SourcesConfig {
	return SourcesConfig{
		TrefleBaseURL:        envOr("PLANTHUB_TREFLE_BASE_URL", defaultMockBase),
		PlantNetBaseURL:      envOr("PLANTHUB_PLANTNET_BASE_URL", defaultMockBase),
		OpenPlantBookBaseURL: envOr("PLANTHUB_OPENPLANTBOOK_BASE_URL", defaultMockBase),
		WikipediaBaseURL:     envOr("PLANTHUB_WIKIPEDIA_BASE_URL", wikipediaBase),
	}
}

// BuildSources returns the providers in their fixed priority order:
// trefle, wikipedia, plantnet, openplantbook. The collector's
// first-non-empty fields follow this order.
func BuildSources(cfg SourcesConfig) []Source {
	wiki := NewSourceWikipedia()
	wiki.BaseURL = cfg.WikipediaBaseURL
	return []Source{
		NewSourceTrefle(cfg.TrefleBaseURL),
		wiki,
		NewSourcePlantNet(cfg.PlantNetBaseURL),
		NewSourceOpenPlantBook(cfg.OpenPlantBookBaseURL),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

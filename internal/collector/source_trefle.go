package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"planthub/pkg/models"
)

// SourceTrefle fetches taxonomy data (family, genus, common name) in the
// Trefle/USDA response shape. The real service needs an API token, so
// BaseURL defaults to the local mock server; point it at the real API
// plus token once one is provisioned.
type SourceTrefle struct {
	BaseURL string
	Client  *http.Client
}

func NewSourceTrefle(baseURL string) *SourceTrefle {
	return &SourceTrefle{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SourceTrefle) Name() string       { return "trefle" }
func (s *SourceTrefle) TTL() time.Duration { return 24 * time.Hour }

type trefleSpecies struct {
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name"`
	Family         string `json:"family"`
	Genus          string `json:"genus"`
	Year           int    `json:"year"`
	Bibliography   string `json:"bibliography"`
	Author         string `json:"author"`
	Status         string `json:"status"`
	Rank           string `json:"rank"`
}

func (s *SourceTrefle) Fetch(ctx context.Context, scientificName string) (*models.SourceRecord, error) {
	u := s.BaseURL + "/trefle/species/" + url.PathEscape(scientificName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("trefle: build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trefle: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &models.SourceRecord{Source: s.Name()}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("trefle: status %d: %s", resp.StatusCode, string(body))
	}

	var sp trefleSpecies
	if err := json.NewDecoder(resp.Body).Decode(&sp); err != nil {
		return nil, fmt.Errorf("trefle: decode: %w", err)
	}

	rec := &models.SourceRecord{
		Source: s.Name(),
		Family: sp.Family,
		Genus:  sp.Genus,
		Details: map[string]string{
			"bibliography": sp.Bibliography,
			"author":       sp.Author,
		},
	}
	if sp.CommonName != "" {
		rec.CommonNames = []string{sp.CommonName}
	}
	return rec, nil
}

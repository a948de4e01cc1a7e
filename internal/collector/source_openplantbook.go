package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"planthub/pkg/models"
)

// SourceOpenPlantBook fetches care parameters and climate ranges. It is
// the designated owner of the weather and care blocks: the collector
// takes those wholesale from this source and from no other.
type SourceOpenPlantBook struct {
	BaseURL string
	Client  *http.Client
}

func NewSourceOpenPlantBook(baseURL string) *SourceOpenPlantBook {
	return &SourceOpenPlantBook{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SourceOpenPlantBook) Name() string       { return "openplantbook" }
func (s *SourceOpenPlantBook) TTL() time.Duration { return 24 * time.Hour }

type opbPlant struct {
	PID               string  `json:"pid"`
	DisplayPID        string  `json:"display_pid"`
	Alias             string  `json:"alias"`
	TemperatureMin    float64 `json:"temperature_min"`
	TemperatureMax    float64 `json:"temperature_max"`
	HumidityMin       float64 `json:"humidity_min"`
	HumidityMax       float64 `json:"humidity_max"`
	LightMin          int     `json:"light_min"`
	LightMax          int     `json:"light_max"`
	PHMin             float64 `json:"ph_min"`
	PHMax             float64 `json:"ph_max"`
	Difficulty        string  `json:"difficulty"`
	WateringFrequency string  `json:"watering_frequency"`
}

// pid is OpenPlantBook's identifier form: lowercase, underscores.
func opbPID(scientificName string) string {
	return strings.ReplaceAll(strings.ToLower(scientificName), " ", "_")
}

func (s *SourceOpenPlantBook) Fetch(ctx context.Context, scientificName string) (*models.SourceRecord, error) {
	u := s.BaseURL + "/openplantbook/plant/" + url.PathEscape(opbPID(scientificName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("openplantbook: build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openplantbook: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &models.SourceRecord{Source: s.Name()}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openplantbook: status %d: %s", resp.StatusCode, string(body))
	}

	var p opbPlant
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("openplantbook: decode: %w", err)
	}

	rec := &models.SourceRecord{
		Source: s.Name(),
		Care: map[string]string{
			"watering_frequency": p.WateringFrequency,
			"difficulty":         p.Difficulty,
			"ph_range":           fmt.Sprintf("%.1f-%.1f", p.PHMin, p.PHMax),
		},
		Weather: &models.WeatherRanges{
			TemperatureMin:   p.TemperatureMin,
			TemperatureMax:   p.TemperatureMax,
			HumidityMin:      p.HumidityMin,
			HumidityMax:      p.HumidityMax,
			SunlightHoursMin: p.LightMin,
			SunlightHoursMax: p.LightMax,
		},
		Details: map[string]string{"pid": p.PID},
	}
	if p.Alias != "" {
		rec.CommonNames = []string{p.Alias}
	}
	return rec, nil
}

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

// SourcePlantNet fetches identification data: common names, family and a
// short description, in the PlantNet response shape.
type SourcePlantNet struct {
	BaseURL string
	Client  *http.Client
}

func NewSourcePlantNet(baseURL string) *SourcePlantNet {
	return &SourcePlantNet{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SourcePlantNet) Name() string       { return "plantnet" }
func (s *SourcePlantNet) TTL() time.Duration { return 24 * time.Hour }

type plantnetSpecies struct {
	Species      string   `json:"species"`
	Family       string   `json:"family"`
	CommonNames  []string `json:"common_names"`
	Images       []string `json:"images"`
	Description  string   `json:"description"`
	Distribution string   `json:"distribution"`
	Habitat      string   `json:"habitat"`
}

func (s *SourcePlantNet) Fetch(ctx context.Context, scientificName string) (*models.SourceRecord, error) {
	u := s.BaseURL + "/plantnet/species/" + url.PathEscape(scientificName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("plantnet: build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plantnet: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &models.SourceRecord{Source: s.Name()}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("plantnet: status %d: %s", resp.StatusCode, string(body))
	}

	var sp plantnetSpecies
	if err := json.NewDecoder(resp.Body).Decode(&sp); err != nil {
		return nil, fmt.Errorf("plantnet: decode: %w", err)
	}

	return &models.SourceRecord{
		Source:      s.Name(),
		CommonNames: sp.CommonNames,
		Family:      sp.Family,
		Description: sp.Description,
		ImageURLs:   sp.Images,
		Details: map[string]string{
			"distribution": sp.Distribution,
			"habitat":      sp.Habitat,
		},
	}, nil
}

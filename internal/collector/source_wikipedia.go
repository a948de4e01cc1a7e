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

// Wikipedia REST API base (public)
const wikipediaBase = "https://en.wikipedia.org/api/rest_v1"

// SourceWikipedia fetches the page summary for a scientific name:
// free-text description plus a thumbnail when the article has one.
type SourceWikipedia struct {
	BaseURL string
	Client  *http.Client
}

func NewSourceWikipedia() *SourceWikipedia {
	return &SourceWikipedia{
		BaseURL: wikipediaBase,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SourceWikipedia) Name() string       { return "wikipedia" }
func (s *SourceWikipedia) TTL() time.Duration { return 24 * time.Hour }

type wikiSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

func (s *SourceWikipedia) Fetch(ctx context.Context, scientificName string) (*models.SourceRecord, error) {
	page := url.PathEscape(strings.ReplaceAll(scientificName, " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/page/summary/"+page, nil)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: request: %w", err)
	}
	defer resp.Body.Close()

	// Missing article is a normal empty result, not a failure.
	if resp.StatusCode == http.StatusNotFound {
		return &models.SourceRecord{Source: s.Name()}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("wikipedia: status %d: %s", resp.StatusCode, string(body))
	}

	var sum wikiSummary
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		return nil, fmt.Errorf("wikipedia: decode: %w", err)
	}

	// Very short extracts are disambiguation stubs; treat as no data.
	if len(sum.Extract) <= 50 {
		return &models.SourceRecord{Source: s.Name()}, nil
	}

	rec := &models.SourceRecord{
		Source:      s.Name(),
		Description: sum.Extract,
		Details: map[string]string{
			"title": sum.Title,
			"url":   sum.ContentURLs.Desktop.Page,
		},
	}
	if sum.Thumbnail.Source != "" {
		rec.ImageURLs = []string{sum.Thumbnail.Source}
	}
	return rec, nil
}

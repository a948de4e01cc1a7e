// Package webexport builds the documents consumed by the static web
// front end: the full catalog with its metadata envelope, per-category
// listings and the lookup indices.
package webexport

import (
	"context"
	"sort"
	"strings"
	"time"

	"planthub/internal/plants"
	"planthub/pkg/models"
)

const schemaVersion = "1.0"

// mainCategories is the fixed navigation set of the front end.
var mainCategories = []string{"fleurs", "arbres", "legumes", "fruits", "aromates"}

type Exporter struct {
	Repo *plants.Repo
	Now  func() time.Time
}

func NewExporter(repo *plants.Repo) *Exporter {
	return &Exporter{Repo: repo, Now: time.Now}
}

// Catalog is the full listing with its metadata envelope.
type Catalog struct {
	Metadata   Metadata        `json:"metadata"`
	Categories map[string]int  `json:"categories"`
	Plants     []*models.Plant `json:"plants"`
}

type Metadata struct {
	TotalPlants int       `json:"total_plants"`
	GeneratedAt time.Time `json:"generated_at"`
	Version     string    `json:"version"`
}

// SearchIndex maps lower-cased keys to sorted scientific names. Values
// are sets, never single names: families and categories are shared, and
// a common-name collision across records must be preserved.
type SearchIndex struct {
	ByName       map[string][]string `json:"scientific_names"`
	ByCommonName map[string][]string `json:"common_names"`
	ByFamily     map[string][]string `json:"families"`
	ByCategory   map[string][]string `json:"categories"`
}

// CategoryPlant is the trimmed per-category listing entry.
type CategoryPlant struct {
	ID             int64             `json:"id"`
	ScientificName string            `json:"scientific_name"`
	CommonName     string            `json:"common_name"`
	Family         string            `json:"family,omitempty"`
	Description    string            `json:"description,omitempty"`
	Care           map[string]string `json:"care_instructions,omitempty"`
	ImageURLs      []string          `json:"image_urls,omitempty"`
}

// BuildCatalog scans the whole store and wraps it in the envelope.
func (e *Exporter) BuildCatalog(ctx context.Context) (*Catalog, error) {
	all, err := e.Repo.All(ctx)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]int)
	for _, p := range all {
		seen := make(map[string]bool)
		for _, tag := range p.Categories {
			if !seen[tag.Category] {
				seen[tag.Category] = true
				categories[tag.Category]++
			}
		}
	}

	return &Catalog{
		Metadata: Metadata{
			TotalPlants: len(all),
			GeneratedAt: e.Now(),
			Version:     schemaVersion,
		},
		Categories: categories,
		Plants:     all,
	}, nil
}

// BuildByCategory returns the per-category listings for the fixed
// navigation categories. Descriptions are previews capped at 200 runes.
func (e *Exporter) BuildByCategory(ctx context.Context) (map[string][]CategoryPlant, error) {
	out := make(map[string][]CategoryPlant, len(mainCategories))
	for _, category := range mainCategories {
		items, err := e.Repo.ByCategory(ctx, category, 50)
		if err != nil {
			return nil, err
		}
		entries := make([]CategoryPlant, 0, len(items))
		for _, p := range items {
			entries = append(entries, CategoryPlant{
				ID:             p.ID,
				ScientificName: p.ScientificName,
				CommonName:     firstCommonName(p),
				Family:         p.Family,
				Description:    preview(p.Description, 200),
				Care:           p.Care,
				ImageURLs:      p.ImageURLs,
			})
		}
		out[category] = entries
	}
	return out, nil
}

// BuildIndex scans the whole store and derives the four lookup indices.
// Deterministic: unchanged store contents produce a deep-equal index, so
// a rebuild is always safe.
func (e *Exporter) BuildIndex(ctx context.Context) (*SearchIndex, error) {
	all, err := e.Repo.All(ctx)
	if err != nil {
		return nil, err
	}

	idx := &SearchIndex{
		ByName:       make(map[string][]string),
		ByCommonName: make(map[string][]string),
		ByFamily:     make(map[string][]string),
		ByCategory:   make(map[string][]string),
	}

	for _, p := range all {
		addIndexEntry(idx.ByName, p.ScientificName, p.ScientificName)
		for _, name := range p.CommonNames {
			addIndexEntry(idx.ByCommonName, name, p.ScientificName)
		}
		addIndexEntry(idx.ByFamily, p.Family, p.ScientificName)
		for _, tag := range p.Categories {
			addIndexEntry(idx.ByCategory, tag.Category, p.ScientificName)
		}
	}

	for _, m := range []map[string][]string{idx.ByName, idx.ByCommonName, idx.ByFamily, idx.ByCategory} {
		for k := range m {
			sort.Strings(m[k])
		}
	}
	return idx, nil
}

func addIndexEntry(m map[string][]string, key, scientificName string) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return
	}
	for _, existing := range m[key] {
		if existing == scientificName {
			return
		}
	}
	m[key] = append(m[key], scientificName)
}

func firstCommonName(p *models.Plant) string {
	if len(p.CommonNames) > 0 {
		return p.CommonNames[0]
	}
	// fall back to the genus part of the binomial
	if parts := strings.Fields(p.ScientificName); len(parts) > 0 {
		return parts[0]
	}
	return p.ScientificName
}

func preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

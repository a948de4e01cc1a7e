package models

import "time"

// Plant is the canonical, merged form of one plant taxon.
//
// Every source is mapped into a SourceRecord first, the collector folds
// those into this structure, then the store persists it wholesale.
type Plant struct {
	ID             int64                 `json:"id,omitempty"`
	ScientificName string                `json:"scientific_name"`          // canonical identifier (binomial name)
	CommonNames    []string              `json:"common_names"`             // first-seen order across sources
	Family         string                `json:"family,omitempty"`         // botanical family
	Genus          string                `json:"genus,omitempty"`
	Species        string                `json:"species,omitempty"`        // epithet part of the binomial
	Description    string                `json:"description,omitempty"`    // sanitized, capped at 1000 runes
	ImageURLs      []string              `json:"image_urls,omitempty"`     // unique, first-seen order
	Care           map[string]string     `json:"care_instructions,omitempty"`
	Weather        *WeatherRanges        `json:"weather_data,omitempty"`   // owned wholesale by one source
	Sources        map[string]Provenance `json:"sources,omitempty"`        // source name -> provenance
	Categories     []CategoryTag         `json:"categories"`               // never empty once categorized
	UpdatedAt      time.Time             `json:"last_updated,omitempty"`
}

// CategoryTag is one (category, subcategory) pair attached to a plant.
// A plant never carries the same pair twice.
type CategoryTag struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// WeatherRanges holds the climate envelope a plant tolerates.
// Min/max pairs; string zones for hardiness (e.g. "5a").
type WeatherRanges struct {
	TemperatureMin   float64 `json:"temperature_min"`
	TemperatureMax   float64 `json:"temperature_max"`
	HumidityMin      float64 `json:"humidity_min"`
	HumidityMax      float64 `json:"humidity_max"`
	SunlightHoursMin int     `json:"sunlight_hours_min"`
	SunlightHoursMax int     `json:"sunlight_hours_max"`
	RainfallMin      float64 `json:"rainfall_min,omitempty"`
	RainfallMax      float64 `json:"rainfall_max,omitempty"`
	HardinessZoneMin string  `json:"hardiness_zone_min,omitempty"`
	HardinessZoneMax string  `json:"hardiness_zone_max,omitempty"`
}

// Provenance records what one source contributed and when.
type Provenance struct {
	Details     map[string]string `json:"details,omitempty"` // source-specific metadata (bibliography, url, pid, ...)
	CollectedAt time.Time         `json:"collected_at"`
}

// HasCategory reports whether the plant carries the given pair.
func (p *Plant) HasCategory(tag CategoryTag) bool {
	for _, c := range p.Categories {
		if c == tag {
			return true
		}
	}
	return false
}

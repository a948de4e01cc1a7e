package models

import "time"

// SourceRecord is one provider's partial view of a plant. Each source
// adapter maps its own response shape into this structure; the collector
// reads it exactly once while folding.
type SourceRecord struct {
	CommonNames []string          `json:"common_names,omitempty"`
	Family      string            `json:"family,omitempty"`
	Genus       string            `json:"genus,omitempty"`
	Description string            `json:"description,omitempty"`
	ImageURLs   []string          `json:"image_urls,omitempty"`
	Care        map[string]string `json:"care_instructions,omitempty"`
	Weather     *WeatherRanges    `json:"weather_data,omitempty"`
	Details     map[string]string `json:"details,omitempty"` // provenance metadata (bibliography, url, pid, ...)

	Source      string    `json:"source"`
	CollectedAt time.Time `json:"collected_at"`
}

// Empty reports whether the record carries no usable payload at all.
func (r *SourceRecord) Empty() bool {
	return r == nil ||
		(len(r.CommonNames) == 0 && r.Family == "" && r.Genus == "" &&
			r.Description == "" && len(r.ImageURLs) == 0 &&
			len(r.Care) == 0 && r.Weather == nil)
}

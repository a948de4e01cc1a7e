package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planthub/pkg/models"
)

func TestCategorizeKnownGenera(t *testing.T) {
	tests := []struct {
		name string
		want []models.CategoryTag
	}{
		{"Rosa rugosa", []models.CategoryTag{{Category: "fleurs", Subcategory: "fleurs à bulbe"}}},
		{"Tulipa gesneriana", []models.CategoryTag{{Category: "fleurs", Subcategory: "fleurs à bulbe"}}},
		{"Quercus robur", []models.CategoryTag{{Category: "arbres", Subcategory: "feuillus"}}},
		{"Pinus sylvestris", []models.CategoryTag{{Category: "arbres", Subcategory: "conifères"}}},
		{"Daucus carota", []models.CategoryTag{{Category: "legumes", Subcategory: "racines"}}},
		{"Mentha piperita", []models.CategoryTag{{Category: "aromates", Subcategory: "fines herbes"}}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.name), "tags for %s", tt.name)
	}
}

func TestCategorizeMultipleRulesFire(t *testing.T) {
	// "Solanum lycopersicum" matches two keywords of the same rule once,
	// but an artificial name can hit several rules.
	tags := Categorize("Rosa quercus hybrid")
	require.Equal(t, []models.CategoryTag{
		{Category: "fleurs", Subcategory: "fleurs à bulbe"},
		{Category: "arbres", Subcategory: "feuillus"},
	}, tags)
}

func TestCategorizeRuleMatchesOnce(t *testing.T) {
	// both "solanum" and "lycopersicum" belong to one rule; the tag must
	// not be duplicated
	tags := Categorize("Solanum lycopersicum")
	require.Equal(t, []models.CategoryTag{
		{Category: "fruits", Subcategory: "légumes-fruits"},
	}, tags)
}

func TestCategorizeFallback(t *testing.T) {
	tags := Categorize("Xyz abcdef")
	require.Equal(t, []models.CategoryTag{FallbackTag}, tags)
	assert.Equal(t, "uncategorized", tags[0].Category)
	assert.Equal(t, "other", tags[0].Subcategory)
}

func TestCategorizeDeterministic(t *testing.T) {
	first := Categorize("Rosa rugosa")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Categorize("Rosa rugosa"))
	}
}

package collector

import (
	"strings"

	"planthub/pkg/models"
)

// categoryRule maps name keywords to one (category, subcategory) pair.
// Rules are independent: every matching rule fires, so one plant can
// carry several tags. Output order is table order, which keeps the
// result deterministic.
type categoryRule struct {
	keywords []string
	tag      models.CategoryTag
}

var categoryRules = []categoryRule{
	{[]string{"rosa", "tulipa", "lilium", "iris", "daisy"}, models.CategoryTag{Category: "fleurs", Subcategory: "fleurs à bulbe"}},
	{[]string{"quercus", "fagus", "acer", "betula"}, models.CategoryTag{Category: "arbres", Subcategory: "feuillus"}},
	{[]string{"pinus", "abies", "picea"}, models.CategoryTag{Category: "arbres", Subcategory: "conifères"}},
	{[]string{"solanum", "lycopersicum"}, models.CategoryTag{Category: "fruits", Subcategory: "légumes-fruits"}},
	{[]string{"daucus", "carota"}, models.CategoryTag{Category: "legumes", Subcategory: "racines"}},
	{[]string{"mentha", "rosmarinus", "thymus"}, models.CategoryTag{Category: "aromates", Subcategory: "fines herbes"}},
}

// FallbackTag is assigned when no rule matches, so a categorized plant
// never carries zero tags.
var FallbackTag = models.CategoryTag{Category: "uncategorized", Subcategory: "other"}

// Categorize derives category tags from the scientific name alone.
// Pure function: same name, same tags, same order.
func Categorize(scientificName string) []models.CategoryTag {
	nameLower := strings.ToLower(scientificName)

	var tags []models.CategoryTag
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(nameLower, kw) {
				tags = append(tags, rule.tag)
				break
			}
		}
	}

	if len(tags) == 0 {
		tags = append(tags, FallbackTag)
	}
	return tags
}

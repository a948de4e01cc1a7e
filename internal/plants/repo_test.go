package plants

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planthub/pkg/database"
	"planthub/pkg/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewRepo(db)
}

func samplePlant(name string) *models.Plant {
	return &models.Plant{
		ScientificName: name,
		CommonNames:    []string{"Rose", "Rose rugueuse"},
		Family:         "Rosaceae",
		Genus:          "Rosa",
		Species:        "rugosa",
		Description:    "A species of rose native to eastern Asia.",
		ImageURLs:      []string{"https://img/rose.jpg"},
		Care: map[string]string{
			"watering_frequency": "weekly",
			"difficulty":         "medium",
		},
		Weather: &models.WeatherRanges{
			TemperatureMin:   10,
			TemperatureMax:   30,
			HumidityMin:      40,
			HumidityMax:      70,
			SunlightHoursMin: 300,
			SunlightHoursMax: 1000,
		},
		Sources: map[string]models.Provenance{
			"trefle": {
				Details:     map[string]string{"author": "USDA"},
				CollectedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
			},
		},
		Categories: []models.CategoryTag{
			{Category: "fleurs", Subcategory: "fleurs à bulbe"},
		},
		UpdatedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}
}

func TestUpsertThenGetRoundtrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := samplePlant("Rosa rugosa")
	id, err := repo.Upsert(ctx, in)
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := repo.GetByName(ctx, "Rosa rugosa")
	require.NoError(t, err)

	assert.Equal(t, in.ScientificName, got.ScientificName)
	assert.Equal(t, in.CommonNames, got.CommonNames)
	assert.Equal(t, in.Family, got.Family)
	assert.Equal(t, in.Genus, got.Genus)
	assert.Equal(t, in.Species, got.Species)
	assert.Equal(t, in.Description, got.Description)
	assert.Equal(t, in.ImageURLs, got.ImageURLs)
	assert.Equal(t, in.Care, got.Care)
	assert.Equal(t, in.Categories, got.Categories)
	require.NotNil(t, got.Weather)
	assert.Equal(t, *in.Weather, *got.Weather)
	require.Contains(t, got.Sources, "trefle")
	assert.Equal(t, "USDA", got.Sources["trefle"].Details["author"])
}

func TestGetByNameCaseInsensitive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, samplePlant("Rosa rugosa"))
	require.NoError(t, err)

	got, err := repo.GetByName(ctx, "rosa RUGOSA")
	require.NoError(t, err)
	// identity stays case-preserving even when lookup is not
	assert.Equal(t, "Rosa rugosa", got.ScientificName)
}

func TestGetByNameNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByName(context.Background(), "Nonexistus plantus")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertReplacesWholesale(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := samplePlant("Rosa rugosa")
	id1, err := repo.Upsert(ctx, first)
	require.NoError(t, err)

	second := samplePlant("Rosa rugosa")
	second.CommonNames = []string{"Beach rose"}
	second.Categories = []models.CategoryTag{{Category: "arbres", Subcategory: "feuillus"}}
	second.Weather = &models.WeatherRanges{TemperatureMin: -5, TemperatureMax: 20}
	id2, err := repo.Upsert(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "upsert keyed by name must reuse the row")

	got, err := repo.GetByName(ctx, "Rosa rugosa")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beach rose"}, got.CommonNames)
	assert.Equal(t, second.Categories, got.Categories)
	require.NotNil(t, got.Weather)
	assert.EqualValues(t, -5, got.Weather.TemperatureMin)
}

func TestUpsertCascadesCategoryReplacement(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := samplePlant("Rosa rugosa")
	_, err := repo.Upsert(ctx, first)
	require.NoError(t, err)

	inFleurs, err := repo.ByCategory(ctx, "fleurs", 0)
	require.NoError(t, err)
	require.Len(t, inFleurs, 1)

	// replacement drops the fleurs tag; the old tag must not survive
	second := samplePlant("Rosa rugosa")
	second.Categories = []models.CategoryTag{{Category: "arbres", Subcategory: "feuillus"}}
	_, err = repo.Upsert(ctx, second)
	require.NoError(t, err)

	inFleurs, err = repo.ByCategory(ctx, "fleurs", 0)
	require.NoError(t, err)
	assert.Empty(t, inFleurs)

	inArbres, err := repo.ByCategory(ctx, "arbres", 0)
	require.NoError(t, err)
	require.Len(t, inArbres, 1)
	assert.Equal(t, "Rosa rugosa", inArbres[0].ScientificName)
}

func TestUpsertRejectsZeroCategories(t *testing.T) {
	repo := newTestRepo(t)

	p := samplePlant("Rosa rugosa")
	p.Categories = nil
	_, err := repo.Upsert(context.Background(), p)
	require.Error(t, err)
}

func TestUpsertRejectsEmptyName(t *testing.T) {
	repo := newTestRepo(t)

	p := samplePlant("  ")
	p.ScientificName = "  "
	_, err := repo.Upsert(context.Background(), p)
	require.Error(t, err)
}

func TestSearchMatchesSubstrings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rose := samplePlant("Rosa rugosa")
	_, err := repo.Upsert(ctx, rose)
	require.NoError(t, err)

	tulip := samplePlant("Tulipa gesneriana")
	tulip.CommonNames = []string{"Tulipe"}
	tulip.Family = "Liliaceae"
	tulip.Genus = "Tulipa"
	tulip.Species = "gesneriana"
	tulip.Description = "A species of tulip."
	_, err = repo.Upsert(ctx, tulip)
	require.NoError(t, err)

	results, err := repo.Search(ctx, SearchQuery{Q: "ros"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Rosa rugosa", results[0].ScientificName)

	// common names are searched too
	results, err = repo.Search(ctx, SearchQuery{Q: "tulipe"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Tulipa gesneriana", results[0].ScientificName)
}

func TestSearchCategoryFilterAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Tulipa tarda", "Rosa rugosa", "Rosa gallica"} {
		p := samplePlant(name)
		p.Description = "a flowering plant"
		_, err := repo.Upsert(ctx, p)
		require.NoError(t, err)
	}
	oak := samplePlant("Quercus robur")
	oak.Description = "a flowering tree"
	oak.Categories = []models.CategoryTag{{Category: "arbres", Subcategory: "feuillus"}}
	_, err := repo.Upsert(ctx, oak)
	require.NoError(t, err)

	results, err := repo.Search(ctx, SearchQuery{Q: "flowering", Category: "fleurs"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	// scientific name ascending
	assert.Equal(t, "Rosa gallica", results[0].ScientificName)
	assert.Equal(t, "Rosa rugosa", results[1].ScientificName)
	assert.Equal(t, "Tulipa tarda", results[2].ScientificName)
}

func TestSearchRespectsLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Rosa rugosa", "Rosa gallica", "Rosa damascena"} {
		_, err := repo.Upsert(ctx, samplePlant(name))
		require.NoError(t, err)
	}

	results, err := repo.Search(ctx, SearchQuery{Q: "rosa", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, samplePlant("Rosa rugosa"))
	require.NoError(t, err)

	oak := samplePlant("Quercus robur")
	oak.Categories = []models.CategoryTag{{Category: "arbres", Subcategory: "feuillus"}}
	oak.Weather = nil
	_, err = repo.Upsert(ctx, oak)
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPlants)
	assert.Equal(t, 1, stats.Categories["fleurs"])
	assert.Equal(t, 1, stats.Categories["arbres"])
	assert.Equal(t, 1, stats.PlantsWithWeather)
}

func TestUpsertConcurrentSameIdentifier(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			p := samplePlant("Rosa rugosa")
			p.Description = "writer"
			_, err := repo.Upsert(ctx, p)
			done <- err
		}()
	}
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	// whichever writer committed last, the record is whole: the plant
	// row, its tags and its weather row belong to one version
	got, err := repo.GetByName(ctx, "Rosa rugosa")
	require.NoError(t, err)
	assert.Len(t, got.Categories, 1)
	require.NotNil(t, got.Weather)
}

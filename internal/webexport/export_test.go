package webexport

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planthub/internal/plants"
	"planthub/pkg/database"
	"planthub/pkg/models"
)

func newTestExporter(t *testing.T) (*Exporter, *plants.Repo) {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	repo := plants.NewRepo(db)
	e := NewExporter(repo)
	e.Now = func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }
	return e, repo
}

func seedPlant(t *testing.T, repo *plants.Repo, name string, mutate func(*models.Plant)) {
	t.Helper()
	p := &models.Plant{
		ScientificName: name,
		CommonNames:    []string{"Rose"},
		Family:         "Rosaceae",
		Genus:          "Rosa",
		Description:    "A rose.",
		Categories:     []models.CategoryTag{{Category: "fleurs", Subcategory: "fleurs à bulbe"}},
	}
	if mutate != nil {
		mutate(p)
	}
	_, err := repo.Upsert(context.Background(), p)
	require.NoError(t, err)
}

func TestBuildCatalogEnvelope(t *testing.T) {
	e, repo := newTestExporter(t)
	ctx := context.Background()

	seedPlant(t, repo, "Rosa rugosa", nil)
	seedPlant(t, repo, "Rosa gallica", nil)
	seedPlant(t, repo, "Quercus robur", func(p *models.Plant) {
		p.CommonNames = []string{"Oak"}
		p.Family = "Fagaceae"
		p.Categories = []models.CategoryTag{{Category: "arbres", Subcategory: "feuillus"}}
	})

	catalog, err := e.BuildCatalog(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, catalog.Metadata.TotalPlants)
	assert.Equal(t, "1.0", catalog.Metadata.Version)
	assert.Equal(t, time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC), catalog.Metadata.GeneratedAt)
	assert.Len(t, catalog.Plants, 3)
	assert.Equal(t, 2, catalog.Categories["fleurs"])
	assert.Equal(t, 1, catalog.Categories["arbres"])
}

func TestBuildCatalogCountsPlantsOncePerCategory(t *testing.T) {
	e, repo := newTestExporter(t)

	// two tags under the same category must count the plant once
	seedPlant(t, repo, "Rosa rugosa", func(p *models.Plant) {
		p.Categories = []models.CategoryTag{
			{Category: "fleurs", Subcategory: "fleurs à bulbe"},
			{Category: "fleurs", Subcategory: "grimpantes"},
		}
	})

	catalog, err := e.BuildCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Categories["fleurs"])
}

func TestBuildByCategoryListings(t *testing.T) {
	e, repo := newTestExporter(t)

	long := strings.Repeat("d", 300)
	seedPlant(t, repo, "Rosa rugosa", func(p *models.Plant) {
		p.Description = long
	})
	seedPlant(t, repo, "Quercus robur", func(p *models.Plant) {
		p.CommonNames = nil
		p.Family = "Fagaceae"
		p.Categories = []models.CategoryTag{{Category: "arbres", Subcategory: "feuillus"}}
	})

	byCat, err := e.BuildByCategory(context.Background())
	require.NoError(t, err)

	// every navigation category is present, populated or not
	for _, category := range []string{"fleurs", "arbres", "legumes", "fruits", "aromates"} {
		_, ok := byCat[category]
		assert.True(t, ok, "missing category %s", category)
	}

	require.Len(t, byCat["fleurs"], 1)
	rose := byCat["fleurs"][0]
	assert.Equal(t, "Rosa rugosa", rose.ScientificName)
	assert.Equal(t, "Rose", rose.CommonName)
	// 200-rune preview plus ellipsis
	assert.Equal(t, strings.Repeat("d", 200)+"...", rose.Description)

	require.Len(t, byCat["arbres"], 1)
	oak := byCat["arbres"][0]
	// no common name recorded, the genus stands in
	assert.Equal(t, "Quercus", oak.CommonName)
	assert.Empty(t, byCat["legumes"])
}

func TestBuildIndexKeysAndFanout(t *testing.T) {
	e, repo := newTestExporter(t)

	seedPlant(t, repo, "Rosa rugosa", func(p *models.Plant) {
		p.CommonNames = []string{"Rose", "Rose rugueuse", "Beach rose"}
	})
	seedPlant(t, repo, "Rosa gallica", func(p *models.Plant) {
		p.CommonNames = []string{"Rose"}
	})

	idx, err := e.BuildIndex(context.Background())
	require.NoError(t, err)

	// keys are lower-cased
	assert.Contains(t, idx.ByName, "rosa rugosa")
	assert.NotContains(t, idx.ByName, "Rosa rugosa")

	// one key per distinct common name
	assert.Len(t, idx.ByCommonName, 3)
	// shared common name fans out to both records, sorted
	assert.Equal(t, []string{"Rosa gallica", "Rosa rugosa"}, idx.ByCommonName["rose"])

	assert.Equal(t, []string{"Rosa gallica", "Rosa rugosa"}, idx.ByFamily["rosaceae"])
	assert.Equal(t, []string{"Rosa gallica", "Rosa rugosa"}, idx.ByCategory["fleurs"])
}

func TestBuildIndexIdempotent(t *testing.T) {
	e, repo := newTestExporter(t)

	seedPlant(t, repo, "Rosa rugosa", nil)
	seedPlant(t, repo, "Tulipa gesneriana", func(p *models.Plant) {
		p.CommonNames = []string{"Tulipe"}
		p.Family = "Liliaceae"
	})

	first, err := e.BuildIndex(context.Background())
	require.NoError(t, err)
	second, err := e.BuildIndex(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBuildIndexSkipsBlankKeys(t *testing.T) {
	e, repo := newTestExporter(t)

	seedPlant(t, repo, "Rosa rugosa", func(p *models.Plant) {
		p.Family = ""
		p.CommonNames = nil
	})

	idx, err := e.BuildIndex(context.Background())
	require.NoError(t, err)
	assert.Empty(t, idx.ByFamily)
	assert.Empty(t, idx.ByCommonName)
	assert.Contains(t, idx.ByName, "rosa rugosa")
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"planthub/internal/plants"
	"planthub/internal/webexport"
	"planthub/pkg/database"
)

func main() {
	var (
		catalogOut  = flag.String("catalog", "data/plants_data.json", "output path for the full catalog")
		categoryOut = flag.String("by-category", "data/plants_by_category.json", "output path for per-category listings")
		indexOut    = flag.String("index", "data/plants_search_index.json", "output path for the search index")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	exporter := webexport.NewExporter(plants.NewRepo(db))

	catalog, err := exporter.BuildCatalog(ctx)
	if err != nil {
		log.Fatalf("build catalog failed: %v", err)
	}
	if err := writeJSON(*catalogOut, catalog); err != nil {
		log.Fatalf("write catalog failed: %v", err)
	}

	byCategory, err := exporter.BuildByCategory(ctx)
	if err != nil {
		log.Fatalf("build by-category failed: %v", err)
	}
	if err := writeJSON(*categoryOut, byCategory); err != nil {
		log.Fatalf("write by-category failed: %v", err)
	}

	index, err := exporter.BuildIndex(ctx)
	if err != nil {
		log.Fatalf("build index failed: %v", err)
	}
	if err := writeJSON(*indexOut, index); err != nil {
		log.Fatalf("write index failed: %v", err)
	}

	log.Printf("[export] wrote %s (%d plants), %s, %s",
		*catalogOut, catalog.Metadata.TotalPlants, *categoryOut, *indexOut)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

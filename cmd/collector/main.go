package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"planthub/internal/cache"
	"planthub/internal/collector"
	"planthub/internal/plants"
	"planthub/pkg/database"
)

func main() {
	var (
		listPath  = flag.String("file", "", "file with one scientific name per line (default: built-in list)")
		batchSize = flag.Int("batch", 5, "plants per batch")
		errorsOut = flag.String("errors", "collection_errors.json", "where to write failed identifiers")
	)
	flag.Parse()

	// interruptible between identifiers; already-persisted plants stay
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	// Store unreachable for the whole run is the one fatal case
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	names := defaultPlantList()
	if *listPath != "" {
		loaded, err := readPlantList(*listPath)
		if err != nil {
			log.Fatalf("read plant list: %v", err)
		}
		names = loaded
	}

	agg := collector.NewAggregator(collector.BuildSources(collector.LoadSourcesConfig())...)
	agg.Cache = cache.NewRepo(db)
	agg.Pacer = collector.NewPacer(time.Second)

	runner := collector.NewRunner(agg, plants.NewRepo(db))
	runner.BatchSize = *batchSize

	summary := runner.ProcessList(ctx, names)

	log.Printf("[collector] processed=%d succeeded=%d persisted=%d failed=%d",
		summary.Processed, summary.Succeeded, summary.Persisted, summary.Failed)

	if len(summary.Errors) > 0 {
		b, err := json.MarshalIndent(summary.Errors, "", "  ")
		if err == nil {
			err = os.WriteFile(*errorsOut, b, 0o644)
		}
		if err != nil {
			log.Printf("[collector] could not write %s: %v", *errorsOut, err)
		} else {
			log.Printf("[collector] wrote %d failures to %s", len(summary.Errors), *errorsOut)
		}
	}
}

func readPlantList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, sc.Err()
}

// defaultPlantList is a representative spread over the category table:
// flowers, trees, vegetables, fruits, herbs.
func defaultPlantList() []string {
	return []string{
		// fleurs
		"Rosa rugosa", "Rosa damascena", "Rosa gallica", "Rosa centifolia",
		"Tulipa gesneriana", "Tulipa clusiana", "Tulipa tarda",
		"Lilium candidum", "Lilium longiflorum", "Lilium japonicum",
		"Iris germanica", "Iris sibirica", "Iris pseudacorus",
		"Dianthus caryophyllus", "Dianthus barbatus",
		"Viola tricolor", "Viola odorata",
		// arbres
		"Quercus robur", "Quercus petraea", "Quercus ilex",
		"Acer saccharum", "Acer palmatum", "Acer pseudoplatanus",
		"Betula pendula", "Betula pubescens",
		"Fagus sylvatica", "Fagus grandifolia",
		"Pinus sylvestris", "Pinus nigra", "Pinus halepensis",
		"Abies alba", "Abies nordmanniana",
		"Picea abies", "Picea pungens",
		// légumes
		"Solanum lycopersicum", "Solanum melongena", "Solanum tuberosum",
		"Daucus carota", "Daucus carota subsp. sativus",
		"Allium cepa", "Allium sativum", "Allium porrum",
		"Lactuca sativa", "Lactuca serriola",
		"Spinacia oleracea", "Beta vulgaris",
		"Brassica oleracea", "Brassica napus", "Brassica rapa",
		"Cucumis sativus", "Cucumis melo",
		"Cucurbita pepo", "Cucurbita maxima",
		// fruits
		"Malus domestica", "Malus sylvestris",
		"Pyrus communis", "Pyrus pyrifolia",
		"Prunus domestica", "Prunus persica", "Prunus avium",
		"Vitis vinifera", "Vitis labrusca",
		"Citrus limon", "Citrus sinensis", "Citrus reticulata",
		"Fragaria × ananassa",
		"Rubus idaeus", "Rubus fruticosus",
		// aromates
		"Mentha piperita", "Mentha spicata", "Mentha × piperita",
		"Rosmarinus officinalis",
		"Thymus vulgaris", "Thymus serpyllum",
		"Ocimum basilicum", "Ocimum tenuiflorum",
		"Petroselinum crispum",
		"Coriandrum sativum",
		"Salvia officinalis", "Salvia sclarea",
		"Origanum vulgare", "Origanum majorana",
	}
}

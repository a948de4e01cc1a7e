package collector

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"planthub/internal/cache"
	"planthub/pkg/models"
)

var (
	// ErrInvalidIdentifier is returned for an empty or blank scientific name.
	ErrInvalidIdentifier = errors.New("invalid scientific name")
	// ErrNoDataCollected is returned when every source failed or came back empty.
	ErrNoDataCollected = errors.New("no data collected from any source")
)

// Source is implemented by each external data provider (API / local mock).
// Each source fetches its own response format and maps it into a
// SourceRecord; the collector never sees provider-specific shapes.
type Source interface {
	Name() string
	TTL() time.Duration
	Fetch(ctx context.Context, scientificName string) (*models.SourceRecord, error)
}

// Aggregator coordinates calls to multiple sources and folds their
// records into a single canonical Plant per scientific name.
//
// Sources is a fixed priority list: earlier sources win first-non-empty
// fields. WeatherOwner names the single source whose weather and care
// blocks are taken wholesale; those blocks from any other source are
// ignored even when present.
type Aggregator struct {
	Sources      []Source
	Cache        *cache.Repo // optional; nil disables caching
	Pacer        *Pacer      // optional; nil disables pacing
	FetchTimeout time.Duration
	WeatherOwner string

	now func() time.Time
}

const (
	defaultFetchTimeout = 12 * time.Second
	maxDescriptionRunes = 1000
	defaultWeatherOwner = "openplantbook"
)

func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{
		Sources:      sources,
		FetchTimeout: defaultFetchTimeout,
		WeatherOwner: defaultWeatherOwner,
		now:          time.Now,
	}
}

type fetchResult struct {
	rec *models.SourceRecord
	err error
}

// Collect aggregates one plant: consults every source (cache first, in
// parallel on miss), folds the results in priority order, categorizes
// and returns the canonical record. A single source failure is logged
// and skipped; only a fully empty harvest is an error.
func (a *Aggregator) Collect(ctx context.Context, scientificName string) (*models.Plant, error) {
	scientificName = strings.TrimSpace(scientificName)
	if scientificName == "" {
		return nil, ErrInvalidIdentifier
	}

	// Fetch concurrently; folding below stays in declared source order
	// regardless of completion order.
	results := make([]fetchResult, len(a.Sources))
	var wg sync.WaitGroup
	for i, src := range a.Sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			rec, err := a.fetchOne(ctx, src, scientificName)
			results[i] = fetchResult{rec: rec, err: err}
		}(i, src)
	}
	wg.Wait()

	plant := &models.Plant{
		ScientificName: scientificName,
		CommonNames:    []string{},
		Sources:        make(map[string]models.Provenance),
	}

	collected := 0
	for i, src := range a.Sources {
		res := results[i]
		if res.err != nil {
			log.Printf("[collector] source %s error for %q: %v", src.Name(), scientificName, res.err)
			continue
		}
		if res.rec.Empty() {
			continue
		}
		a.fold(plant, res.rec)
		collected++
	}

	if collected == 0 {
		return nil, ErrNoDataCollected
	}

	plant.Genus, plant.Species = splitBinomial(scientificName, plant.Genus)
	plant.Description = sanitizeDescription(plant.Description)
	plant.Categories = Categorize(scientificName)
	plant.UpdatedAt = a.now()

	return plant, nil
}

// fetchOne serves from cache when fresh, otherwise paces, fetches with a
// timeout and writes the result back with the source's freshness window.
func (a *Aggregator) fetchOne(ctx context.Context, src Source, scientificName string) (*models.SourceRecord, error) {
	key := cache.Key(src.Name(), strings.ToLower(scientificName))

	if a.Cache != nil {
		payload, ok, err := a.Cache.Get(ctx, key)
		if err != nil {
			log.Printf("[collector] cache get %s: %v", key, err)
		} else if ok {
			var rec models.SourceRecord
			if err := json.Unmarshal([]byte(payload), &rec); err == nil {
				return &rec, nil
			}
			// corrupt entry: fall through to a refetch that overwrites it
		}
	}

	if a.Pacer != nil {
		if err := a.Pacer.Wait(ctx, src.Name()); err != nil {
			return nil, err
		}
	}

	timeout := a.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rec, err := src.Fetch(fctx, scientificName)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &models.SourceRecord{}
	}
	if rec.Source == "" {
		rec.Source = src.Name()
	}
	if rec.CollectedAt.IsZero() {
		rec.CollectedAt = a.now()
	}

	if a.Cache != nil && !rec.Empty() {
		if payload, err := json.Marshal(rec); err == nil {
			if err := a.Cache.Put(ctx, key, src.Name(), string(payload), src.TTL()); err != nil {
				log.Printf("[collector] cache put %s: %v", key, err)
			}
		}
	}

	return rec, nil
}

// fold applies the per-field merge policy for one source record:
// first-non-empty for family/genus/description, accumulate-unique for
// common names and image URLs, owned-block for weather and care,
// provenance always.
func (a *Aggregator) fold(p *models.Plant, rec *models.SourceRecord) {
	if p.Family == "" && rec.Family != "" {
		p.Family = rec.Family
	}
	if p.Genus == "" && rec.Genus != "" {
		p.Genus = rec.Genus
	}
	if p.Description == "" && rec.Description != "" {
		p.Description = rec.Description
	}

	for _, name := range rec.CommonNames {
		p.CommonNames = appendIfMissingFold(p.CommonNames, name)
	}
	for _, u := range rec.ImageURLs {
		p.ImageURLs = appendIfMissing(p.ImageURLs, u)
	}

	if rec.Source == a.WeatherOwner {
		if rec.Weather != nil {
			w := *rec.Weather
			p.Weather = &w
		}
		if len(rec.Care) > 0 {
			p.Care = make(map[string]string, len(rec.Care))
			for k, v := range rec.Care {
				p.Care[k] = v
			}
		}
	}

	p.Sources[rec.Source] = models.Provenance{
		Details:     rec.Details,
		CollectedAt: rec.CollectedAt,
	}
}

// splitBinomial derives genus and species epithet from the identifier.
// A genus already won from a source is kept.
func splitBinomial(scientificName, genus string) (string, string) {
	parts := strings.Fields(scientificName)
	if genus == "" && len(parts) > 0 {
		genus = parts[0]
	}
	species := ""
	if len(parts) > 1 {
		species = strings.Join(parts[1:], " ")
	}
	return genus, species
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// sanitizeDescription strips HTML tags and caps the text at 1000 runes.
func sanitizeDescription(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if runes := []rune(s); len(runes) > maxDescriptionRunes {
		s = string(runes[:maxDescriptionRunes])
	}
	return s
}

func appendIfMissing(slice []string, v string) []string {
	if strings.TrimSpace(v) == "" {
		return slice
	}
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}

// appendIfMissingFold dedupes case-insensitively, keeping the first-seen
// spelling.
func appendIfMissingFold(slice []string, v string) []string {
	if strings.TrimSpace(v) == "" {
		return slice
	}
	for _, x := range slice {
		if strings.EqualFold(x, v) {
			return slice
		}
	}
	return append(slice, v)
}

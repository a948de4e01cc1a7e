package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"planthub/internal/feed"
	"planthub/pkg/models"
)

// Store is the persistence surface the runner needs. Satisfied by
// plants.Repo; tests substitute their own.
type Store interface {
	Upsert(ctx context.Context, p *models.Plant) (int64, error)
}

// Runner processes a list of scientific names in fixed-size batches:
// collect, persist, record outcome, keep going. One identifier's failure
// never aborts the run.
type Runner struct {
	Aggregator *Aggregator
	Store      Store
	Feed       *feed.Hub // optional live event feed

	BatchSize  int           // names per batch (default 5)
	BatchPause time.Duration // pause between batches (default 5s)

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

const (
	defaultBatchSize  = 5
	defaultBatchPause = 5 * time.Second
)

func NewRunner(agg *Aggregator, store Store) *Runner {
	return &Runner{
		Aggregator: agg,
		Store:      store,
		BatchSize:  defaultBatchSize,
		BatchPause: defaultBatchPause,
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

// ProcessList runs the whole list and returns the summary. Cancelling
// ctx stops between identifiers; everything already persisted stays, and
// the summary reflects exactly what completed.
func (r *Runner) ProcessList(ctx context.Context, names []string) *models.RunSummary {
	batchSize := r.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	summary := &models.RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: r.now(),
	}
	log.Printf("[runner] run %s: processing %d plants", summary.RunID, len(names))

	for i := 0; i < len(names); i += batchSize {
		end := i + batchSize
		if end > len(names) {
			end = len(names)
		}
		batch := names[i:end]
		log.Printf("[runner] batch %d: %d plants", i/batchSize+1, len(batch))

		for _, name := range batch {
			if ctx.Err() != nil {
				log.Printf("[runner] run %s interrupted: %v", summary.RunID, ctx.Err())
				summary.EndedAt = r.now()
				return summary
			}
			r.processOne(ctx, name, summary)
		}

		// pause between batches to respect external quotas
		if end < len(names) && r.BatchPause > 0 {
			if err := r.sleep(ctx, r.BatchPause); err != nil {
				summary.EndedAt = r.now()
				return summary
			}
		}
	}

	summary.EndedAt = r.now()
	log.Printf("[runner] run %s done: processed=%d succeeded=%d persisted=%d failed=%d",
		summary.RunID, summary.Processed, summary.Succeeded, summary.Persisted, summary.Failed)
	return summary
}

func (r *Runner) processOne(ctx context.Context, name string, summary *models.RunSummary) {
	summary.Processed++

	plant, err := r.Aggregator.Collect(ctx, name)
	if err != nil {
		r.recordFailure(summary, name, fmt.Errorf("collect: %w", err))
		return
	}
	summary.Succeeded++

	if _, err := r.Store.Upsert(ctx, plant); err != nil {
		r.recordFailure(summary, name, fmt.Errorf("persist: %w", err))
		return
	}
	summary.Persisted++

	if r.Feed != nil {
		r.Feed.BroadcastJSON(feed.CollectEvent{
			Type:           feed.EventPlantSaved,
			RunID:          summary.RunID,
			ScientificName: plant.ScientificName,
			At:             r.now(),
		})
	}
}

func (r *Runner) recordFailure(summary *models.RunSummary, name string, err error) {
	summary.Failed++
	summary.Errors = append(summary.Errors, models.RunError{
		ScientificName: name,
		Err:            err.Error(),
		At:             r.now(),
	})
	log.Printf("[runner] failed %q: %v", name, err)

	if r.Feed != nil {
		r.Feed.BroadcastJSON(feed.CollectEvent{
			Type:           feed.EventPlantFailed,
			RunID:          summary.RunID,
			ScientificName: name,
			Error:          err.Error(),
			At:             r.now(),
		})
	}
}

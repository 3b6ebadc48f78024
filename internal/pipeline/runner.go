package pipeline

import (
	"context"
	"time"

	"github.com/janavarta/news-platform/internal/config"
	"github.com/janavarta/news-platform/internal/store"
	"github.com/janavarta/news-platform/internal/store/model"
	"github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"
)

// Runner polls for eligible work items and feeds them to the orchestrator
// one at a time. Batches are sequential: provider rate limits make
// per-item parallelism counterproductive here.
type Runner struct {
	store        store.Store
	orchestrator *Orchestrator
	batchSize    int
	interval     time.Duration
	log          *zap.SugaredLogger
}

func NewRunner(s store.Store, orchestrator *Orchestrator, cfg *config.Config) *Runner {
	return &Runner{
		store:        s,
		orchestrator: orchestrator,
		batchSize:    cfg.Pipeline.BatchSize,
		interval:     cfg.Pipeline.PollInterval,
		log:          zap.S().Named("runner"),
	}
}

// RunBatch processes one batch of eligible items and reports how many it
// picked up.
func (r *Runner) RunBatch(ctx context.Context) int {
	items, err := r.store.WorkItem().ListEligible(ctx, r.batchSize)
	if err != nil {
		r.log.Errorf("listing eligible work items: %v", err)
		return 0
	}
	if len(items) == 0 {
		return 0
	}

	r.log.Infof("picked up %d work items", len(items))
	processed := 0
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		r.processOne(ctx, &items[i])
		processed++
	}
	return processed
}

// processOne isolates a single item: a panic in one item's processing must
// not take down the batch.
func (r *Runner) processOne(ctx context.Context, item *model.WorkItem) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Errorf("work item %s panicked: %v", item.ID, rec)
		}
	}()

	if err := r.orchestrator.ProcessItem(ctx, item); err != nil {
		r.log.Errorf("work item %s: %v", item.ID, err)
	}
}

// Run polls on a jittered interval until the context is canceled. The first
// batch runs immediately.
func (r *Runner) Run(ctx context.Context) {
	ticker := jitterbug.New(r.interval, &jitterbug.Norm{Stdev: 100 * time.Millisecond, Mean: 0})
	defer ticker.Stop()

	r.RunBatch(ctx)
	for {
		select {
		case <-ctx.Done():
			r.log.Info("runner stopped")
			return
		case <-ticker.C:
			r.RunBatch(ctx)
		}
	}
}

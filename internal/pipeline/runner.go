package pipeline

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Runner enriches a list of names in order, one at a time.
type Runner struct {
	enricher *Enricher
	contacts ContactFetcher
}

// NewRunner creates a Runner. A nil contacts fetcher skips the crawl.
func NewRunner(e *Enricher, contacts ContactFetcher) *Runner {
	return &Runner{enricher: e, contacts: contacts}
}

// Run enriches names sequentially and returns one row per processed name.
// Cancellation stops the loop after the name in flight, which is recorded
// with status error.
func (r *Runner) Run(ctx context.Context, names []string) []model.Row {
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("pipeline: run started", zap.Int("names", len(names)))

	rows := make([]model.Row, 0, len(names))
	for i, name := range names {
		log.Info("pipeline: enriching", zap.Int("index", i+1), zap.String("business", name))

		res := r.enricher.Enrich(ctx, name)

		var contacts model.ContactSet
		if r.contacts != nil && res.HasWebsite() && ctx.Err() == nil {
			log.Info("pipeline: crawling website for contacts", zap.String("website", res.Website))
			contacts = r.contacts.Fetch(ctx, res.Website)
		}
		rows = append(rows, model.NewRow(res, contacts))

		if ctx.Err() != nil {
			log.Warn("pipeline: run cancelled", zap.Int("processed", len(rows)), zap.Int("remaining", len(names)-len(rows)))
			break
		}
	}

	log.Info("pipeline: run complete", zap.Int("rows", len(rows)))
	return rows
}

package enrichment

import (
	"context"
	"time"

	"log/slog"

	"powerfulchat/internal/logging"
)

// BatchRunner processes a list of person IDs sequentially with a pause
// between items, keeping the pipeline inside external API rate limits.
type BatchRunner struct {
	enricher *Enricher
	delay    time.Duration
	logger   *slog.Logger
}

// NewBatchRunner builds a runner. A negative delay behaves as zero.
func NewBatchRunner(enricher *Enricher, delay time.Duration, logger *slog.Logger) *BatchRunner {
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BatchRunner{
		enricher: enricher,
		delay:    delay,
		logger:   logging.WithComponent(logger, "batch"),
	}
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Processed int
	Skipped   int
	Failed    int
}

// Run processes each ID in order. A failed or skipped item never stops the
// batch; the result counts what happened to each. Only context cancellation
// aborts the run early.
func (b *BatchRunner) Run(ctx context.Context, personIDs []int64, opts ProcessOptions) (BatchResult, error) {
	var result BatchResult
	for i, personID := range personIDs {
		person, err := b.enricher.ProcessPerson(ctx, personID, opts)
		switch {
		case err != nil && ctx.Err() != nil:
			return result, ctx.Err()
		case err != nil:
			result.Failed++
			b.logger.Error("person failed",
				logging.Int64("tmdb_id", personID),
				logging.Error(err))
		case person == nil:
			result.Skipped++
			b.logger.Info("person skipped", logging.Int64("tmdb_id", personID))
		default:
			result.Processed++
			b.logger.Info("person processed",
				logging.Int64("tmdb_id", personID),
				logging.String("person_id", person.ID))
		}

		if i == len(personIDs)-1 || b.delay == 0 {
			continue
		}
		timer := time.NewTimer(b.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}
	}
	return result, nil
}

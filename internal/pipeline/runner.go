// Package pipeline drives the row-by-row translation loop: load or resume
// the dataset, translate pending rows with rate limiting, checkpoint
// periodically, and write the final output with run statistics.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oukeidos/batrans/internal/checkpoint"
	"github.com/oukeidos/batrans/internal/dataset"
	"github.com/oukeidos/batrans/internal/files"
	"github.com/oukeidos/batrans/internal/logger"
	"github.com/oukeidos/batrans/internal/textnorm"
	"github.com/oukeidos/batrans/internal/translator"
)

// Translator resolves one row of text to a tagged result. It returns an
// error only for context cancellation.
type Translator interface {
	Translate(ctx context.Context, text string, index int) (translator.Result, error)
}

// Runner owns the dataset for the duration of a run. It is not safe for
// concurrent use; rows are processed strictly in order.
type Runner struct {
	cfg   Config
	tr    Translator
	store *checkpoint.Store

	// sleep is swapped out in tests to observe rate limiting.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRunner(cfg Config, tr Translator) (*Runner, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		cfg:   cfg,
		tr:    tr,
		store: checkpoint.NewStore(cfg.InputPath, cfg.CheckpointPath),
		sleep: sleepContext,
	}, nil
}

// Run processes every pending row and writes the completed dataset to the
// output path. On cancellation it saves a checkpoint and returns the
// context error together with the statistics gathered so far. The
// checkpoint file is left in place either way; a completed run's checkpoint
// is simply superseded by the output file.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	ds, err := r.store.Load()
	if err != nil {
		return Stats{}, err
	}

	runID := uuid.NewString()
	logger.Info("Translation run started",
		"run_id", runID, "rows", ds.Len(), "input", r.cfg.InputPath)

	for i := 0; i < ds.Len(); i++ {
		if ds.Pending(i) {
			if err := r.processRow(ctx, ds, i); err != nil {
				r.saveCheckpoint(ds, i)
				return Collect(ds), err
			}
			if i%r.cfg.CheckpointInterval == 0 {
				r.saveCheckpoint(ds, i)
			}
		}
		if err := r.sleep(ctx, r.cfg.RateLimitDelay); err != nil {
			r.saveCheckpoint(ds, i)
			return Collect(ds), err
		}
	}

	data, err := ds.Bytes()
	if err != nil {
		return Collect(ds), err
	}
	if err := files.AtomicWrite(r.cfg.OutputPath, data, 0o644); err != nil {
		return Collect(ds), fmt.Errorf("writing output %s: %w", r.cfg.OutputPath, err)
	}

	stats := Collect(ds)
	logger.Info("Translation job completed",
		"run_id", runID, "output", r.cfg.OutputPath,
		"total", stats.Total, "successful", stats.Successful, "failed", stats.Failed)
	return stats, nil
}

func (r *Runner) processRow(ctx context.Context, ds *dataset.Dataset, i int) error {
	original := textnorm.Truncate(ds.Summary(i), r.cfg.TruncateLength)

	res, err := r.tr.Translate(ctx, original, i)
	if err != nil {
		return err
	}

	cell := textnorm.Truncate(res.Marker(), r.cfg.TruncateLength)
	ds.SetTranslated(i, cell)

	if !res.Ok() {
		logger.Warn("Row recorded as failed",
			"index", i, "kind", string(res.Failure.Kind))
	}
	if r.cfg.OnRowProcessed != nil {
		r.cfg.OnRowProcessed(i, original, cell)
	}
	return nil
}

// saveCheckpoint never aborts the run: a failed save costs at most the
// rows since the previous successful one.
func (r *Runner) saveCheckpoint(ds *dataset.Dataset, row int) {
	if err := r.store.Save(ds); err != nil {
		logger.Error("Checkpoint save failed", "row", row, "error", err)
		return
	}
	logger.Info("Checkpoint saved", "row", row, "path", r.cfg.CheckpointPath)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

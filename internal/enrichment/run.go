package enrichment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"profmatch/internal/logging"
	"profmatch/internal/notifications"
	"profmatch/internal/store"
)

// Run executes one batch. Merging finishes before resolution starts. The
// returned error is non-nil only when the database becomes unavailable, a
// phase cannot start, or ctx is cancelled; updates committed before that
// point are kept.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (summary Summary, err error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, o.logger)
	start := time.Now()

	summary = Summary{
		RunID:    runID,
		Phases:   opts.Phases(),
		Outcomes: make(map[Outcome]int),
	}
	defer o.setPhase(ctx, PhaseIdle)
	defer func() { o.publish(ctx, summary, err) }()

	logger.Info("enrichment run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Bool("fix_duplicates", opts.FixDuplicates),
		logging.Bool("skip_resolution", opts.SkipResolution),
		logging.Bool("verify_integrity", opts.VerifyIntegrity),
		logging.Int("workers", o.workers))

	if opts.FixDuplicates {
		o.setPhase(ctx, PhaseMerging)
		merged, err := o.merger.MergeDuplicates(ctx)
		summary.Merged = merged
		if err != nil {
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("merge duplicates: %w", err)
		}
	}

	if !opts.SkipResolution {
		o.setPhase(ctx, PhaseResolving)
		if err = o.resolveBatch(ctx, &summary); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}
	}

	if opts.VerifyIntegrity {
		o.setPhase(ctx, PhaseVerifying)
		report, err := o.Audit(ctx)
		if err != nil {
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("verify integrity: %w", err)
		}
		summary.Integrity = &report
	}

	summary.Duration = time.Since(start)
	logger.Info("enrichment run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("groups_merged", summary.Merged),
		logging.Int("professors", summary.Total),
		logging.Int("updated", summary.Count(OutcomeUpdated)),
		logging.Duration("run_duration", summary.Duration))
	return summary, nil
}

func (o *Orchestrator) resolveBatch(ctx context.Context, summary *Summary) error {
	logger := logging.WithContext(ctx, o.logger)
	professors, err := o.store.ListProfessors(ctx)
	if err != nil {
		return fmt.Errorf("list professors: %w", err)
	}
	tasks := make([]Task, 0, len(professors))
	for _, p := range professors {
		tasks = append(tasks, Task{ProfessorID: p.ID})
	}
	summary.Total = len(tasks)
	logger.Info("resolving professors",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.Int("professors", len(tasks)))

	var mu sync.Mutex
	record := func(outcome Outcome) {
		mu.Lock()
		summary.Outcomes[outcome]++
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for _, task := range tasks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			outcome, err := o.resolveOne(gctx, task)
			if err != nil {
				return err
			}
			record(outcome)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logging.ErrorWithContext(logger, "enrichment batch aborted", "batch_aborted",
			logging.Error(err),
			logging.Int("processed", summary.Processed()),
			logging.Int("professors", summary.Total),
			logging.String(logging.FieldErrorHint, "check that the database file is reachable and not locked"))
		return fmt.Errorf("resolve batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("professors", summary.Total),
	}
	for _, outcome := range summary.OutcomeKeys() {
		attrs = append(attrs, logging.Int(string(outcome), summary.Outcomes[outcome]))
	}
	logger.Info("resolution batch completed", logging.Args(attrs...)...)
	return nil
}

// publish announces the run result. Failures are logged and never change
// the run outcome.
func (o *Orchestrator) publish(ctx context.Context, summary Summary, runErr error) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if runErr != nil {
		err = o.notifier.Publish(ctx, notifications.EventRunFailed, notifications.Payload{
			"runID": summary.RunID,
			"error": runErr.Error(),
		})
	} else {
		err = o.notifier.Publish(ctx, notifications.EventRunCompleted, notifications.Payload{
			"updated":    summary.Count(OutcomeUpdated),
			"professors": summary.Total,
			"merged":     summary.Merged,
			"duration":   summary.Duration.Round(time.Millisecond).String(),
		})
		if review := summary.Count(OutcomeReview) + summary.Count(OutcomeAmbiguous); err == nil && review > 0 {
			err = o.notifier.Publish(ctx, notifications.EventReviewNeeded, notifications.Payload{"count": review})
		}
	}
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, o.logger), "run notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run result was not announced"),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"))
	}
}

// fatal reports whether err must stop the whole batch.
func fatal(err error) bool {
	return errors.Is(err, store.ErrUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

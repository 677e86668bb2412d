package enrichment

import (
	"context"
	"fmt"

	"profmatch/internal/logging"
	"profmatch/internal/store"
)

// IntegrityReport lists enrichment rows that violate the rating invariants.
// It is a report only; nothing is repaired.
type IntegrityReport struct {
	LinkedWithoutScore    []store.Professor
	ScoresOutOfRange      []store.Professor
	InvalidWouldTakeAgain []store.Professor
	Coverage              store.Coverage
}

// Issues returns the number of offending rows.
func (r IntegrityReport) Issues() int {
	return len(r.LinkedWithoutScore) + len(r.ScoresOutOfRange) + len(r.InvalidWouldTakeAgain)
}

// Clean reports whether no offending rows were found.
func (r IntegrityReport) Clean() bool { return r.Issues() == 0 }

// Audit scans the professor table for integrity problems.
func (o *Orchestrator) Audit(ctx context.Context) (IntegrityReport, error) {
	logger := logging.WithContext(ctx, o.logger)
	var report IntegrityReport
	var err error

	if report.LinkedWithoutScore, err = o.store.LinkedWithoutScore(ctx); err != nil {
		return IntegrityReport{}, fmt.Errorf("linked without score: %w", err)
	}
	if report.ScoresOutOfRange, err = o.store.ScoresOutOfRange(ctx); err != nil {
		return IntegrityReport{}, fmt.Errorf("scores out of range: %w", err)
	}
	if report.InvalidWouldTakeAgain, err = o.store.InvalidWouldTakeAgain(ctx); err != nil {
		return IntegrityReport{}, fmt.Errorf("invalid would take again: %w", err)
	}
	if report.Coverage, err = o.store.Coverage(ctx); err != nil {
		return IntegrityReport{}, fmt.Errorf("coverage: %w", err)
	}

	if report.Clean() {
		logger.Info("integrity check passed",
			logging.Int("professors", report.Coverage.Total),
			logging.Float64("coverage_percent", report.Coverage.Percent()))
		return report, nil
	}
	logging.WarnWithContext(logger, "integrity check found problems", "integrity_issues",
		logging.Int("linked_without_score", len(report.LinkedWithoutScore)),
		logging.Int("scores_out_of_range", len(report.ScoresOutOfRange)),
		logging.Int("invalid_would_take_again", len(report.InvalidWouldTakeAgain)),
		logging.String(logging.FieldErrorHint, "run profmatch audit for the affected professors"),
		logging.String(logging.FieldImpact, "affected professors show incomplete ratings"))
	return report, nil
}

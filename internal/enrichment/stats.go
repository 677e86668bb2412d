package enrichment

import (
	"context"
	"errors"
	"fmt"

	"profmatch/internal/logging"
	"profmatch/internal/store"
)

// StatsReport summarizes enrichment coverage.
type StatsReport struct {
	Coverage store.Coverage
	TopRated []store.Professor
}

// Stats returns coverage totals and the top rated professors.
func (o *Orchestrator) Stats(ctx context.Context, top int) (StatsReport, error) {
	coverage, err := o.store.Coverage(ctx)
	if err != nil {
		return StatsReport{}, fmt.Errorf("coverage: %w", err)
	}
	best, err := o.store.TopRated(ctx, top)
	if err != nil {
		return StatsReport{}, fmt.Errorf("top rated: %w", err)
	}
	return StatsReport{Coverage: coverage, TopRated: best}, nil
}

// RenameProfessor renames the professor named oldName. It refuses when
// newName already belongs to a different professor.
func (o *Orchestrator) RenameProfessor(ctx context.Context, oldName, newName string) (store.Professor, error) {
	prof, err := o.store.FindByName(ctx, oldName)
	if err != nil {
		return store.Professor{}, err
	}
	if err := o.store.Rename(ctx, prof.ID, newName); err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			return store.Professor{}, fmt.Errorf("rename %q: %w; merge the records instead", oldName, err)
		}
		return store.Professor{}, fmt.Errorf("rename %q: %w", oldName, err)
	}
	o.logger.Info("professor renamed",
		logging.Int64(logging.FieldProfessorID, prof.ID),
		logging.String("old_name", prof.Name),
		logging.String("new_name", newName))
	return o.store.GetProfessor(ctx, prof.ID)
}

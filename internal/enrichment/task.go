package enrichment

import (
	"context"
	"errors"
	"fmt"

	"profmatch/internal/identification"
	"profmatch/internal/logging"
	"profmatch/internal/store"
)

// resolveOne runs search, resolve, validate and persist for one professor.
// Only fatal errors are returned; everything else becomes an Outcome.
func (o *Orchestrator) resolveOne(ctx context.Context, task Task) (Outcome, error) {
	ctx = logging.WithProfessorID(ctx, task.ProfessorID)
	logger := logging.WithContext(ctx, o.logger)

	prof, err := o.store.GetProfessor(ctx, task.ProfessorID)
	if err != nil {
		if fatal(err) {
			return "", err
		}
		if errors.Is(err, store.ErrNotFound) {
			logger.Debug("professor removed before resolution")
			return OutcomeSkipped, nil
		}
		logging.WarnWithContext(logger, "failed to load professor", "professor_load_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "professor skipped this run"))
		return OutcomeStoreError, nil
	}
	logger = logger.With(logging.String(logging.FieldProfessorName, prof.Name))

	candidates, err := o.search.Search(ctx, prof.Name)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		logging.WarnWithContext(logger, "provider search failed", "provider_search_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access and provider credentials"),
			logging.String(logging.FieldImpact, "professor skipped this run"))
		return OutcomeProviderError, nil
	}
	if len(candidates) == 0 {
		logger.Debug("no provider candidates")
		return OutcomeNoCandidates, nil
	}

	decision := o.resolver.Resolve(prof.Name, candidates)
	matchAttrs := []logging.Attr{
		logging.String("match_tier", string(decision.Tier)),
		logging.Float64("match_score", decision.Score),
		logging.Float64("match_confidence", decision.Confidence),
		logging.Int("candidate_count", len(candidates)),
		logging.Int("pool_size", decision.PoolSize),
	}
	if len(decision.Issues) > 0 {
		matchAttrs = append(matchAttrs, logging.Any("match_issues", identification.IssueStrings(decision.Issues)))
	}

	switch {
	case decision.Ambiguous:
		attrs := append(matchAttrs, logging.DecisionAttrs("match", "ambiguous",
			fmt.Sprintf("%d candidates qualified at the %s tier", decision.PoolSize, decision.Tier))...)
		logger.Info("ambiguous match skipped", logging.Args(attrs...)...)
		return OutcomeAmbiguous, nil
	case decision.Candidate == nil:
		attrs := append(matchAttrs, logging.DecisionAttrs("match", "no_match", "no candidate qualified")...)
		logger.Debug("no matching candidate", logging.Args(attrs...)...)
		return OutcomeNoMatch, nil
	}
	matchAttrs = append(matchAttrs,
		logging.String("candidate_name", decision.Candidate.FullName()),
		logging.String("legacy_id", decision.Candidate.LegacyID.String()))

	switch decision.Recommendation {
	case identification.Review:
		attrs := append(matchAttrs, logging.DecisionAttrs("match", "review", "confidence below accept threshold")...)
		logger.Info("match needs manual review", logging.Args(attrs...)...)
		return OutcomeReview, nil
	case identification.Reject:
		attrs := append(matchAttrs, logging.DecisionAttrs("match", "rejected", "confidence below review threshold")...)
		logger.Debug("match rejected", logging.Args(attrs...)...)
		return OutcomeRejected, nil
	}

	extracted, err := identification.ExtractRatings(*decision.Candidate, o.baseURL)
	if err != nil {
		attrs := append(matchAttrs, logging.Error(err))
		attrs = append(attrs, logging.DecisionAttrs("match", "invalid", "candidate data failed validation")...)
		logger.Info("candidate data rejected", logging.Args(attrs...)...)
		return OutcomeInvalid, nil
	}
	if dropped := extracted.DroppedWouldTakeAgain; dropped != nil {
		logging.WarnWithContext(logger, "would-take-again out of range; storing null", "would_take_again_invalid",
			logging.Float64("would_take_again", *dropped),
			logging.String(logging.FieldImpact, "professor saved without a would-take-again value"))
	}

	if err := o.store.UpdateRatings(ctx, prof.ID, extracted.Ratings); err != nil {
		if fatal(err) {
			return "", err
		}
		if errors.Is(err, store.ErrNotFound) {
			return OutcomeSkipped, nil
		}
		logging.WarnWithContext(logger, "failed to save ratings", "ratings_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "professor left unchanged this run"))
		return OutcomeStoreError, nil
	}

	attrs := append(matchAttrs,
		logging.Float64("score", extracted.Ratings.Score),
		logging.String("link", extracted.Ratings.Link))
	attrs = append(attrs, logging.DecisionAttrs("match", "accepted", string(decision.Tier)+" match")...)
	logger.Info("professor enriched", logging.Args(attrs...)...)
	return OutcomeUpdated, nil
}

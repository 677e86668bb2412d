package store

import "context"

// LinkedWithoutScore returns professors that have a profile link but no score.
func (s *Store) LinkedWithoutScore(ctx context.Context) ([]Professor, error) {
	return s.queryProfessors(ctx, "query linked without score",
		`SELECT `+professorColumns+` FROM professors
         WHERE rmp_link IS NOT NULL AND rmp_score IS NULL ORDER BY name, id`)
}

// ScoresOutOfRange returns professors whose score is outside [0,5].
func (s *Store) ScoresOutOfRange(ctx context.Context) ([]Professor, error) {
	return s.queryProfessors(ctx, "query scores out of range",
		`SELECT `+professorColumns+` FROM professors
         WHERE rmp_score IS NOT NULL AND (rmp_score < 0 OR rmp_score > 5) ORDER BY name, id`)
}

// InvalidWouldTakeAgain returns professors whose would-take-again value is below -1.
func (s *Store) InvalidWouldTakeAgain(ctx context.Context) ([]Professor, error) {
	return s.queryProfessors(ctx, "query invalid would take again",
		`SELECT `+professorColumns+` FROM professors
         WHERE rmp_would_take_again IS NOT NULL AND rmp_would_take_again < -1 ORDER BY name, id`)
}

// Coverage counts professors by enrichment state.
func (s *Store) Coverage(ctx context.Context) (Coverage, error) {
	var c Coverage
	err := s.db.QueryRowContext(ensureContext(ctx), `SELECT
            COUNT(1),
            COUNT(rmp_link),
            COALESCE(SUM(CASE WHEN rmp_score BETWEEN 0 AND 5 THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN rmp_score = 0 THEN 1 ELSE 0 END), 0)
        FROM professors`).Scan(&c.Total, &c.WithLink, &c.WithScore, &c.ZeroScores)
	if err != nil {
		return Coverage{}, wrap("coverage", err)
	}
	return c, nil
}

// TopRated returns up to limit professors with the highest scores.
func (s *Store) TopRated(ctx context.Context, limit int) ([]Professor, error) {
	if limit <= 0 {
		limit = 3
	}
	return s.queryProfessors(ctx, "query top rated",
		`SELECT `+professorColumns+` FROM professors
         WHERE rmp_score IS NOT NULL ORDER BY rmp_score DESC, name, id LIMIT ?`, limit)
}

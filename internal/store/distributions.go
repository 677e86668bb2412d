package store

import (
	"context"
	"database/sql"
	"errors"
)

// CreateClass inserts a class row. Ingestion owns the real class data; this
// is the minimal write needed to attach distributions.
func (s *Store) CreateClass(ctx context.Context, c Class) (int64, error) {
	if c.Description == "" {
		return 0, errors.New("class description must not be empty")
	}
	var id int64
	err := s.inTx(ctx, "insert class", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO classes (campus, dept_abbr, course_num, class_desc) VALUES (?, ?, ?, ?)`,
			nullableString(c.Campus), nullableString(c.DeptAbbr), nullableString(c.CourseNum), c.Description)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// CreateDistribution attaches a distribution for classID to professorID.
// A zero professorID records an unlisted instructor.
func (s *Store) CreateDistribution(ctx context.Context, classID, professorID int64) (int64, error) {
	var instructor any
	if professorID != 0 {
		instructor = professorID
	}
	var id int64
	err := s.inTx(ctx, "insert distribution", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO distributions (class_id, professor_id) VALUES (?, ?)`, classID, instructor)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// CountDistributions returns the number of distributions owned by professorID.
func (s *Store) CountDistributions(ctx context.Context, professorID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1) FROM distributions WHERE professor_id = ?`, professorID).Scan(&n)
	if err != nil {
		return 0, wrap("count distributions", err)
	}
	return n, nil
}

// DistributionCounts returns distribution counts for every professor that
// owns at least one distribution.
func (s *Store) DistributionCounts(ctx context.Context) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT professor_id, COUNT(1) FROM distributions WHERE professor_id IS NOT NULL GROUP BY professor_id`)
	if err != nil {
		return nil, wrap("count distributions", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, wrap("scan distribution count", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("count distributions", err)
	}
	return counts, nil
}

// DistributionOwners returns the professor id of each distribution id given.
func (s *Store) DistributionOwners(ctx context.Context, ids ...int64) (map[int64]int64, error) {
	owners := make(map[int64]int64, len(ids))
	for _, id := range ids {
		var owner sql.NullInt64
		err := s.db.QueryRowContext(ensureContext(ctx),
			`SELECT professor_id FROM distributions WHERE id = ?`, id).Scan(&owner)
		if err != nil {
			return nil, wrap("distribution owner", err)
		}
		owners[id] = owner.Int64
	}
	return owners, nil
}

// ApplyMerge collapses a duplicate group in one transaction: every loser's
// distributions move to the survivor, the optional enrichment transfer is
// written, and the losers are deleted.
func (s *Store) ApplyMerge(ctx context.Context, plan MergePlan) error {
	if plan.SurvivorID == 0 {
		return errors.New("merge plan has no survivor")
	}
	return s.inTx(ctx, "apply merge", func(tx *sql.Tx) error {
		for _, loser := range plan.LoserIDs {
			if loser == plan.SurvivorID {
				return errors.New("merge plan lists survivor as loser")
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE distributions SET professor_id = ? WHERE professor_id = ?`, plan.SurvivorID, loser); err != nil {
				return err
			}
		}
		if plan.Transfer != nil {
			if err := writeRatings(ctx, tx, plan.SurvivorID, *plan.Transfer); err != nil {
				return err
			}
		}
		for _, loser := range plan.LoserIDs {
			res, err := tx.ExecContext(ctx, `DELETE FROM professors WHERE id = ?`, loser)
			if err != nil {
				return err
			}
			if err := requireRow(res, loser); err != nil {
				return err
			}
		}
		return nil
	})
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateProfessor inserts a professor with no rating data.
func (s *Store) CreateProfessor(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("professor name must not be empty")
	}
	var id int64
	err := s.inTx(ctx, "insert professor", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO professors (name) VALUES (?)`, name)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// ListProfessors returns every professor ordered by name, then id.
func (s *Store) ListProfessors(ctx context.Context) ([]Professor, error) {
	return s.queryProfessors(ctx, "list professors",
		`SELECT `+professorColumns+` FROM professors ORDER BY name, id`)
}

// GetProfessor fetches a professor by identifier.
func (s *Store) GetProfessor(ctx context.Context, id int64) (Professor, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+professorColumns+` FROM professors WHERE id = ?`, id)
	p, err := scanProfessor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Professor{}, fmt.Errorf("professor %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Professor{}, wrap("get professor", err)
	}
	return p, nil
}

// FindByName returns the lowest-id professor whose name equals name exactly.
func (s *Store) FindByName(ctx context.Context, name string) (Professor, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+professorColumns+` FROM professors WHERE name = ? ORDER BY id LIMIT 1`, name)
	p, err := scanProfessor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Professor{}, fmt.Errorf("professor %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Professor{}, wrap("find professor", err)
	}
	return p, nil
}

// UpdateRatings writes the enrichment fields of one professor.
func (s *Store) UpdateRatings(ctx context.Context, id int64, r Ratings) error {
	return s.inTx(ctx, "update ratings", func(tx *sql.Tx) error {
		return writeRatings(ctx, tx, id, r)
	})
}

func writeRatings(ctx context.Context, tx *sql.Tx, id int64, r Ratings) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE professors
         SET rmp_score = ?, rmp_difficulty = ?, rmp_would_take_again = ?, rmp_link = ?
         WHERE id = ?`,
		r.Score, r.Difficulty, nullableFloat(r.WouldTakeAgain), nullableString(r.Link), id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// SetLink stores a profile link without touching the rating fields.
func (s *Store) SetLink(ctx context.Context, id int64, link string) error {
	return s.inTx(ctx, "set link", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE professors SET rmp_link = ? WHERE id = ?`, nullableString(link), id)
		if err != nil {
			return err
		}
		return requireRow(res, id)
	})
}

// Rename changes a professor's display name. It fails with ErrNameTaken when
// another professor already uses newName.
func (s *Store) Rename(ctx context.Context, id int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return errors.New("new name must not be empty")
	}
	return s.inTx(ctx, "rename professor", func(tx *sql.Tx) error {
		var clash int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM professors WHERE name = ? AND id != ?`, newName, id,
		).Scan(&clash); err != nil {
			return err
		}
		if clash > 0 {
			return fmt.Errorf("%q: %w", newName, ErrNameTaken)
		}
		res, err := tx.ExecContext(ctx, `UPDATE professors SET name = ? WHERE id = ?`, newName, id)
		if err != nil {
			return err
		}
		return requireRow(res, id)
	})
}

// Unmatched returns professors without a profile link, ordered by name.
func (s *Store) Unmatched(ctx context.Context) ([]Professor, error) {
	return s.queryProfessors(ctx, "list unmatched professors",
		`SELECT `+professorColumns+` FROM professors WHERE rmp_link IS NULL ORDER BY name, id`)
}

func (s *Store) queryProfessors(ctx context.Context, op, query string, args ...any) ([]Professor, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var out []Professor
	for rows.Next() {
		p, err := scanProfessor(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("professor %d: %w", id, ErrNotFound)
	}
	return nil
}

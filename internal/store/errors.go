package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a professor does not exist.
	ErrNotFound = errors.New("professor not found")
	// ErrUnavailable marks failures of the database itself rather than of a
	// single statement. Batch callers stop when they see it.
	ErrUnavailable = errors.New("store unavailable")
	// ErrNameTaken is returned when a rename collides with another professor.
	ErrNameTaken = errors.New("professor name already in use")
)

// SQLite primary result codes that mean the database cannot be used.
const (
	sqliteIOErr    = 10
	sqliteCorrupt  = 11
	sqliteFull     = 13
	sqliteCantOpen = 14
	sqliteNotADB   = 26
)

func isUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		switch coder.Code() & 0xff {
		case sqliteIOErr, sqliteCorrupt, sqliteFull, sqliteCantOpen, sqliteNotADB:
			return true
		}
	}
	return strings.Contains(err.Error(), "database is closed")
}

// wrap annotates err with op and tags connection-level failures with
// ErrUnavailable.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUnavailable(err) && !errors.Is(err, ErrUnavailable) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

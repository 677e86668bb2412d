package enrichment

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"profmatch/internal/logging"
	"profmatch/internal/names"
	"profmatch/internal/rmp"
)

const (
	// DefaultImportFile is the manual mapping file read when none is named.
	DefaultImportFile = "rmp_requests_by_users.csv"

	colName  = "professor_name"
	colRMPID = "rmp_id"
	colNotes = "notes"

	exportNote = "Manual research needed"
)

// ErrInvalidRMPID means a manual mapping id is not all digits.
var ErrInvalidRMPID = errors.New("rmp id must be numeric")

// ImportFailure describes one manual mapping row that could not be applied.
type ImportFailure struct {
	Line int
	Name string
	Err  error
}

// ImportResult reports a manual mapping import.
type ImportResult struct {
	Added    int
	Skipped  int
	Failures []ImportFailure
}

// AddManualLink maps the professor named name to provider id rmpID. The
// mapping is recorded in the manual cache tier and the profile link is set.
func (o *Orchestrator) AddManualLink(ctx context.Context, name, rmpID string) error {
	name = strings.TrimSpace(name)
	id := rmp.LegacyID(strings.TrimSpace(rmpID))
	if !id.IsDigits() {
		return fmt.Errorf("%w: %q", ErrInvalidRMPID, rmpID)
	}
	prof, err := o.store.FindByName(ctx, name)
	if err != nil {
		return err
	}

	first, last, ok := names.Split(prof.Name)
	if !ok {
		first = strings.TrimSpace(prof.Name)
	}
	candidate := rmp.Candidate{FirstName: first, LastName: last, LegacyID: id}
	if o.manual != nil {
		if err := o.manual.PutManual(prof.Name, candidate); err != nil {
			return fmt.Errorf("record manual mapping: %w", err)
		}
	}

	link := rmp.ProfileURL(o.baseURL, id)
	if err := o.store.SetLink(ctx, prof.ID, link); err != nil {
		return fmt.Errorf("set profile link: %w", err)
	}
	o.logger.Info("manual mapping added",
		logging.Int64(logging.FieldProfessorID, prof.ID),
		logging.String(logging.FieldProfessorName, prof.Name),
		logging.String("link", link))
	return nil
}

// ImportManual applies every mapping in the CSV file at path. The header must
// name professor_name and rmp_id; notes is optional. Rows with a blank name
// or id are skipped. Per-row failures are collected, not returned.
func (o *Orchestrator) ImportManual(ctx context.Context, path string) (ImportResult, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultImportFile
	}
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open manual mappings: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ImportResult{}, errors.New("manual mappings file is empty")
		}
		return ImportResult{}, fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	nameCol, okName := columns[colName]
	idCol, okID := columns[colRMPID]
	if !okName || !okID {
		return ImportResult{}, fmt.Errorf("manual mappings header must include %s and %s", colName, colRMPID)
	}

	var result ImportResult
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return result, fmt.Errorf("read line %d: %w", line, err)
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		name := field(record, nameCol)
		id := field(record, idCol)
		if name == "" || id == "" {
			result.Skipped++
			continue
		}
		if err := o.AddManualLink(ctx, name, id); err != nil {
			if fatal(err) {
				return result, err
			}
			result.Failures = append(result.Failures, ImportFailure{Line: line, Name: name, Err: err})
			logging.WarnWithContext(o.logger, "manual mapping not applied", "manual_import_row_failed",
				logging.Int("line", line),
				logging.String(logging.FieldProfessorName, name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix the row and import again"),
				logging.String(logging.FieldImpact, "professor keeps its previous link"))
			continue
		}
		result.Added++
	}
	o.logger.Info("manual mappings imported",
		logging.String("path", path),
		logging.Int("added", result.Added),
		logging.Int("skipped", result.Skipped),
		logging.Int("failed", len(result.Failures)))
	return result, nil
}

// ExportUnmatched writes every professor without a profile link to a CSV at
// path, ready to be filled in and imported. It returns the row count.
func (o *Orchestrator) ExportUnmatched(ctx context.Context, path string) (int, error) {
	unmatched, err := o.store.Unmatched(ctx)
	if err != nil {
		return 0, fmt.Errorf("list unmatched professors: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{colName, colRMPID, colNotes}); err != nil {
		f.Close()
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, p := range unmatched {
		if err := w.Write([]string{p.Name, "", exportNote}); err != nil {
			f.Close()
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return 0, fmt.Errorf("flush export: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close export: %w", err)
	}
	o.logger.Info("unmatched professors exported",
		logging.String("path", path),
		logging.Int("professors", len(unmatched)))
	return len(unmatched), nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

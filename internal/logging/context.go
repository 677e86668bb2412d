package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a warning or error for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint is the next step an operator should take.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType names the decision being logged (match_tier, merge_survivor, ...).
	FieldDecisionType = "decision_type"
	// FieldRunID identifies one enrichment run.
	FieldRunID = "run_id"
	// FieldProfessorID is the database identifier of the professor being processed.
	FieldProfessorID = "professor_id"
	// FieldProfessorName is the display name of the professor being processed.
	FieldProfessorName = "professor_name"
)

type contextKey int

const (
	runIDKey contextKey = iota
	professorIDKey
)

// WithRunID attaches an enrichment run identifier to ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run identifier stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithProfessorID attaches the professor currently being processed to ctx.
func WithProfessorID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, professorIDKey, id)
}

// ProfessorIDFromContext returns the professor identifier stored by WithProfessorID.
func ProfessorIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(professorIDKey).(int64)
	return id, ok
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if id, ok := ProfessorIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldProfessorID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}

// Package logging assembles structured slog loggers and formatting helpers used
// across profmatch.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so enrichment code can tag log lines with
// run IDs and professor identifiers. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
package logging

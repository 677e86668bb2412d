// Package notifications publishes enrichment run results to ntfy.
//
// NewService returns a no-op implementation when no topic is configured, so
// callers publish unconditionally. Events are enumerated; each maps to a fixed
// title, tag set and message template.
package notifications

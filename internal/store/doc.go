// Package store persists professors and their grade distributions in SQLite.
//
// The schema mirrors the grade database produced by ingestion: departments,
// classes, distributions (one per class and instructor) and per-term
// distributions. Enrichment only ever touches the professor rows and the
// distribution instructor references; every mutation runs in a transaction
// scoped to a single professor or a single merge group.
//
// Errors that mean the database itself is gone (closed handle, I/O failure,
// corruption) are tagged with ErrUnavailable so batch callers can stop early.
package store

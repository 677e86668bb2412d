// Package enrichment runs professor enrichment batches.
//
// A run moves through up to three phases: duplicate merging, batch
// resolution and an integrity audit. Resolution fans one task per professor
// out to a bounded worker pool; each task searches the rating provider,
// resolves the candidates, validates the chosen record and writes it in a
// single-professor transaction. Failures are counted per professor and only
// an unavailable database stops the batch. The result is published through
// notifications when a topic is configured.
//
// The package also carries the operator tools around a run: manual mapping
// add, import and export, professor renames and coverage statistics.
package enrichment

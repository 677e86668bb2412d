// Package dedupe collapses professor rows whose names share a canonical key.
//
// Each duplicate group keeps the member owning the most distributions, with
// the lower id breaking ties. Losers hand their distributions (and, when the
// survivor has none, their enrichment fields) to the survivor and are deleted
// in the same transaction, so no distribution ever points at a removed row.
package dedupe

// Command profmatch enriches the professor table of a grades database with
// rating-provider profiles.
//
// Subcommands run enrichment batches, report coverage and integrity, manage
// manual mappings, inspect the result cache, check readiness and manage
// configuration.
package main

// Package preflight provides readiness checks for the filesystem paths, the
// grades database and the rating provider that profmatch depends on.
//
// The CLI "profmatch check" command runs every check and prints the results;
// enrichment runs the local checks before acquiring its lock so a missing
// directory or unreachable database fails fast.
package preflight

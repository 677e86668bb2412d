package preflight

import (
	"context"
	"path/filepath"

	"profmatch/internal/config"
	"profmatch/internal/rmp"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// RunLocal checks the configured directories and the database.
func RunLocal(ctx context.Context, cfg *config.Config, db Pinger) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Cache directory", filepath.Dir(cfg.Paths.CachePath)),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results, CheckDatabase(ctx, cfg.Paths.DatabasePath, db))
	return results
}

// RunAll runs the local checks followed by a provider search for the
// configured school.
func RunAll(ctx context.Context, cfg *config.Config, db Pinger, provider rmp.Searcher) []Result {
	results := RunLocal(ctx, cfg, db)
	if cfg == nil {
		return results
	}
	return append(results, CheckProvider(ctx, provider, cfg.Provider.SchoolID))
}

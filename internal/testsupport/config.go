package testsupport

import (
	"path/filepath"
	"testing"

	"profmatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test. Provider
// pacing is disabled so tests never sleep.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = base
	cfgVal.Paths.DatabasePath = filepath.Join(base, "ProcessedData.db")
	cfgVal.Paths.CachePath = filepath.Join(base, "rmp_cache.json")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Provider.GraphQLURL = cfgVal.Provider.BaseURL + "/graphql"
	cfgVal.Provider.MinIntervalMS = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithProviderURL points the provider base and GraphQL endpoint at url,
// typically an httptest server.
func WithProviderURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Provider.BaseURL = url
		b.cfg.Provider.GraphQLURL = url + "/graphql"
	}
}

// WithWorkers sets the enrichment pool size.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Enrichment.Workers = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.DataDir
}

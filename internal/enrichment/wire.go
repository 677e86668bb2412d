package enrichment

import (
	"fmt"
	"log/slog"
	"net/http"

	"profmatch/internal/config"
	"profmatch/internal/identification"
	"profmatch/internal/notifications"
	"profmatch/internal/resultcache"
	"profmatch/internal/rmp"
)

// NewFromConfig assembles the provider client, result cache, search client
// and resolver described by cfg around st.
func NewFromConfig(cfg *config.Config, st Store, logger *slog.Logger) (*Orchestrator, *resultcache.Cache, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	client, err := NewProviderClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	cache := resultcache.New(cfg.Paths.CachePath, logger,
		resultcache.WithTTLs(cfg.PositiveTTL(), cfg.NegativeTTL()))
	search := identification.NewSearchClient(client, cache, cfg.Provider.SchoolID, logger,
		identification.WithMinInterval(cfg.MinInterval()))
	resolver := identification.NewResolver(identification.WithThresholds(identification.Thresholds{
		Fuzzy:  cfg.Matching.FuzzyThreshold,
		Accept: cfg.Matching.AcceptConfidence,
		Review: cfg.Matching.ReviewConfidence,
	}))

	orch := New(st, search, logger,
		WithWorkers(cfg.Enrichment.Workers),
		WithResolver(resolver),
		WithBaseURL(cfg.Provider.BaseURL),
		WithManualCache(cache),
		WithNotifier(notifications.NewService(cfg)),
	)
	return orch, cache, nil
}

// NewProviderClient builds the uncached GraphQL client for cfg's provider.
func NewProviderClient(cfg *config.Config) (*rmp.Client, error) {
	client, err := rmp.New(cfg.Provider.GraphQLURL,
		rmp.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}),
		rmp.WithBasicAuth(cfg.Provider.AuthUser, cfg.Provider.AuthPassword),
		rmp.WithOrigin(cfg.Provider.BaseURL),
		rmp.WithPageSize(cfg.Provider.PageSize),
	)
	if err != nil {
		return nil, fmt.Errorf("rating provider client: %w", err)
	}
	return client, nil
}

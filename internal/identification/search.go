package identification

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"profmatch/internal/logging"
	"profmatch/internal/names"
	"profmatch/internal/resultcache"
	"profmatch/internal/rmp"
)

// CandidateCache is the subset of resultcache.Cache used by SearchClient.
type CandidateCache interface {
	Get(name string) (resultcache.Lookup, bool)
	Put(name string, candidates []rmp.Candidate) error
}

// SearchClient looks professors up at the provider, consulting the cache first.
type SearchClient struct {
	provider   rmp.Searcher
	cache      CandidateCache
	schoolID   string
	logger     *slog.Logger
	rateLimit  time.Duration
	mu         sync.Mutex
	lastLookup time.Time
}

// SearchOption configures a SearchClient.
type SearchOption func(*SearchClient)

// WithMinInterval sets the minimum spacing between live provider calls,
// shared by every goroutine using the client.
func WithMinInterval(d time.Duration) SearchOption {
	return func(s *SearchClient) {
		if d >= 0 {
			s.rateLimit = d
		}
	}
}

// NewSearchClient wires a provider and cache for the fixed school schoolID.
func NewSearchClient(provider rmp.Searcher, cache CandidateCache, schoolID string, logger *slog.Logger, opts ...SearchOption) *SearchClient {
	s := &SearchClient{
		provider:   provider,
		cache:      cache,
		schoolID:   schoolID,
		logger:     logging.NewComponentLogger(logger, "search"),
		rateLimit:  250 * time.Millisecond,
		lastLookup: time.Unix(0, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryText returns the provider search text for name: every token after the
// first for multi-token names, the whole name otherwise.
func QueryText(name string) string {
	if _, rest, ok := names.Split(name); ok {
		return rest
	}
	return strings.TrimSpace(name)
}

// Search returns the provider candidates for professorName. A valid cache
// entry short-circuits the network call; otherwise the raw result is cached
// under the original name. Provider errors are returned unchanged.
func (s *SearchClient) Search(ctx context.Context, professorName string) ([]rmp.Candidate, error) {
	if s == nil || s.provider == nil {
		return nil, errors.New("rating provider unavailable")
	}
	logger := logging.WithContext(ctx, s.logger)

	if s.cache != nil {
		if hit, ok := s.cache.Get(professorName); ok {
			logger.Debug("search served from cache",
				logging.String(logging.FieldProfessorName, professorName),
				logging.String("cache_tier", string(hit.Tier)),
				logging.Int("candidate_count", len(hit.Candidates)))
			return hit.Candidates, nil
		}
	}

	if err := s.pace(ctx); err != nil {
		return nil, err
	}

	query := QueryText(professorName)
	candidates, err := s.provider.SearchTeachers(ctx, query, s.schoolID)
	if err != nil {
		return nil, err
	}
	if candidates == nil {
		candidates = []rmp.Candidate{}
	}
	logger.Debug("provider search completed",
		logging.String(logging.FieldProfessorName, professorName),
		logging.String("query", query),
		logging.Int("candidate_count", len(candidates)))

	if s.cache != nil {
		if err := s.cache.Put(professorName, candidates); err != nil {
			logging.WarnWithContext(logger, "failed to cache search result", "search_cache_write_failed",
				logging.String(logging.FieldProfessorName, professorName),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the cache file"),
				logging.String(logging.FieldImpact, "the next run will repeat this provider call"))
		}
	}
	return candidates, nil
}

func (s *SearchClient) pace(ctx context.Context) error {
	s.mu.Lock()
	wait := s.rateLimit - time.Since(s.lastLookup)
	if wait > 0 {
		// Reserve the next slot before sleeping; later callers queue behind it.
		s.lastLookup = s.lastLookup.Add(s.rateLimit)
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		return nil
	}
	s.lastLookup = time.Now()
	s.mu.Unlock()
	return nil
}

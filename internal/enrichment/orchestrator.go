package enrichment

import (
	"context"
	"log/slog"
	"sync"

	"profmatch/internal/dedupe"
	"profmatch/internal/identification"
	"profmatch/internal/logging"
	"profmatch/internal/notifications"
	"profmatch/internal/rmp"
	"profmatch/internal/store"
)

// DefaultWorkers is the resolution pool size when none is configured.
const DefaultWorkers = 5

// Store is the persistence surface used by the orchestrator.
type Store interface {
	dedupe.Store
	GetProfessor(ctx context.Context, id int64) (store.Professor, error)
	FindByName(ctx context.Context, name string) (store.Professor, error)
	UpdateRatings(ctx context.Context, id int64, r store.Ratings) error
	SetLink(ctx context.Context, id int64, link string) error
	Rename(ctx context.Context, id int64, newName string) error
	Unmatched(ctx context.Context) ([]store.Professor, error)
	Coverage(ctx context.Context) (store.Coverage, error)
	LinkedWithoutScore(ctx context.Context) ([]store.Professor, error)
	ScoresOutOfRange(ctx context.Context) ([]store.Professor, error)
	InvalidWouldTakeAgain(ctx context.Context) ([]store.Professor, error)
	TopRated(ctx context.Context, limit int) ([]store.Professor, error)
}

// Searcher returns provider candidates for a professor name.
type Searcher interface {
	Search(ctx context.Context, professorName string) ([]rmp.Candidate, error)
}

// ManualCache records operator supplied mappings.
type ManualCache interface {
	PutManual(name string, candidate rmp.Candidate) error
}

// Orchestrator coordinates duplicate merging, batch resolution and audits.
type Orchestrator struct {
	store    Store
	search   Searcher
	manual   ManualCache
	notifier notifications.Service
	resolver *identification.Resolver
	merger   *dedupe.Merger
	baseURL  string
	workers  int
	logger   *slog.Logger

	mu    sync.RWMutex
	phase Phase
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers sets the resolution pool size.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithResolver replaces the default match resolver.
func WithResolver(r *identification.Resolver) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithBaseURL sets the provider base used to build profile links.
func WithBaseURL(baseURL string) Option {
	return func(o *Orchestrator) {
		o.baseURL = baseURL
	}
}

// WithManualCache sets where manual mappings are recorded.
func WithManualCache(c ManualCache) Option {
	return func(o *Orchestrator) {
		o.manual = c
	}
}

// WithNotifier sets where run results are published.
func WithNotifier(n notifications.Service) Option {
	return func(o *Orchestrator) {
		if n != nil {
			o.notifier = n
		}
	}
}

// New constructs an orchestrator over st using search for provider lookups.
func New(st Store, search Searcher, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    st,
		search:   search,
		notifier: notifications.NewService(nil),
		resolver: identification.NewResolver(),
		workers:  DefaultWorkers,
		logger:   logging.NewComponentLogger(logger, "enrichment"),
		phase:    PhaseIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.merger = dedupe.New(st, logger)
	return o
}

// Phase reports the phase of the run in progress, PhaseIdle otherwise.
func (o *Orchestrator) Phase() Phase {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.phase
}

func (o *Orchestrator) setPhase(ctx context.Context, next Phase) {
	o.mu.Lock()
	prev := o.phase
	o.phase = next
	o.mu.Unlock()
	logging.WithContext(ctx, o.logger).Debug("phase transition",
		logging.String("from", string(prev)),
		logging.String("to", string(next)))
}

// Merger exposes the duplicate merger, mainly for dry-run planning.
func (o *Orchestrator) Merger() *dedupe.Merger {
	return o.merger
}

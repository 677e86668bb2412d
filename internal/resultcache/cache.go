package resultcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"profmatch/internal/logging"
	"profmatch/internal/names"
	"profmatch/internal/rmp"
)

const (
	DefaultPositiveTTL = 180 * 24 * time.Hour
	DefaultNegativeTTL = 14 * 24 * time.Hour
)

// Cache provides goroutine-safe access to the search result cache.
type Cache struct {
	path        string
	logger      *slog.Logger
	now         func() time.Time
	positiveTTL time.Duration
	negativeTTL time.Duration

	mu     sync.Mutex
	doc    document
	status LoadStatus
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source used for timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTTLs overrides the positive and negative tier lifetimes. Non-positive
// values keep the defaults.
func WithTTLs(positive, negative time.Duration) Option {
	return func(c *Cache) {
		if positive > 0 {
			c.positiveTTL = positive
		}
		if negative > 0 {
			c.negativeTTL = negative
		}
	}
}

// New loads the cache stored at path. If path is empty the cache is kept in
// memory only.
func New(path string, logger *slog.Logger, opts ...Option) *Cache {
	c := &Cache{
		path:        path,
		logger:      logging.NewComponentLogger(logger, "resultcache"),
		now:         time.Now,
		positiveTTL: DefaultPositiveTTL,
		negativeTTL: DefaultNegativeTTL,
		doc:         emptyDocument(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.status = c.load()
	return c
}

// LoadStatus reports how the backing document was found at construction.
func (c *Cache) LoadStatus() LoadStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Path returns the backing file location.
func (c *Cache) Path() string { return c.path }

// Get returns the cached search result for name. Expired positive and
// negative entries are evicted and reported as misses.
func (c *Cache) Get(name string) (Lookup, bool) {
	key := names.Canonicalize(name)
	if key == "" {
		return Lookup{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()

	if entry, ok := c.doc.Manual[key]; ok {
		return Lookup{Candidates: cloneCandidates(entry.Data), Tier: TierManual, CachedAt: fromEpoch(entry.Timestamp)}, true
	}

	evicted := false
	defer func() {
		if evicted {
			c.persistLocked("evict")
		}
	}()

	if entry, ok := c.doc.Positive[key]; ok {
		cachedAt := fromEpoch(entry.Timestamp)
		if now.Sub(cachedAt) < c.positiveTTL {
			return Lookup{Candidates: cloneCandidates(entry.Data), Tier: TierPositive, CachedAt: cachedAt}, true
		}
		delete(c.doc.Positive, key)
		evicted = true
	}

	if entry, ok := c.doc.Negative[key]; ok {
		cachedAt := fromEpoch(entry.Timestamp)
		if now.Sub(cachedAt) < c.negativeTTL {
			return Lookup{Candidates: []rmp.Candidate{}, Tier: TierNegative, CachedAt: cachedAt}, true
		}
		delete(c.doc.Negative, key)
		evicted = true
	}

	return Lookup{}, false
}

// Put records a provider search result for name. A non-empty result goes to
// the positive tier, an empty one to the negative tier; the key is removed
// from the other tier.
func (c *Cache) Put(name string, candidates []rmp.Candidate) error {
	key := names.Canonicalize(name)
	if key == "" {
		return errors.New("cache key must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	ts := toEpoch(c.now())
	prev := c.snapshotLocked(key)

	if len(candidates) > 0 {
		c.doc.Positive[key] = positiveEntry{Data: cloneCandidates(candidates), Timestamp: ts}
		delete(c.doc.Negative, key)
	} else {
		c.doc.Negative[key] = negativeEntry{Timestamp: ts}
		delete(c.doc.Positive, key)
	}
	if err := c.saveLocked(); err != nil {
		c.restoreLocked(key, prev)
		return err
	}
	return nil
}

// PutManual stores an operator supplied candidate for name. Manual entries
// never expire and replace any negative entry for the same key.
func (c *Cache) PutManual(name string, candidate rmp.Candidate) error {
	key := names.Canonicalize(name)
	if key == "" {
		return errors.New("cache key must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.snapshotLocked(key)

	c.doc.Manual[key] = manualEntry{
		Data:      []rmp.Candidate{candidate},
		Timestamp: toEpoch(c.now()),
		Source:    manualSource,
	}
	delete(c.doc.Negative, key)
	if err := c.saveLocked(); err != nil {
		c.restoreLocked(key, prev)
		return err
	}
	c.logger.Debug("stored manual mapping",
		logging.String("cache_key", key),
		logging.String("legacy_id", candidate.LegacyID.String()))
	return nil
}

// Stats returns per-tier entry counts, expired entries included.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Manual:   len(c.doc.Manual),
		Positive: len(c.doc.Positive),
		Negative: len(c.doc.Negative),
	}
}

// Entries lists the entries of one tier sorted by key.
func (c *Cache) Entries(tier Tier) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	var entries []Entry
	switch tier {
	case TierManual:
		for key, e := range c.doc.Manual {
			entries = append(entries, Entry{Key: key, Tier: tier, CachedAt: fromEpoch(e.Timestamp), Candidates: cloneCandidates(e.Data), Source: e.Source})
		}
	case TierPositive:
		for key, e := range c.doc.Positive {
			entries = append(entries, Entry{Key: key, Tier: tier, CachedAt: fromEpoch(e.Timestamp), Candidates: cloneCandidates(e.Data)})
		}
	case TierNegative:
		for key, e := range c.doc.Negative {
			entries = append(entries, Entry{Key: key, Tier: tier, CachedAt: fromEpoch(e.Timestamp)})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// Clear empties the given tiers, or every tier when none are given, and
// returns the number of removed entries.
func (c *Cache) Clear(tiers ...Tier) (int, error) {
	if len(tiers) == 0 {
		tiers = Tiers
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, tier := range tiers {
		switch tier {
		case TierManual:
			removed += len(c.doc.Manual)
			c.doc.Manual = map[string]manualEntry{}
		case TierPositive:
			removed += len(c.doc.Positive)
			c.doc.Positive = map[string]positiveEntry{}
		case TierNegative:
			removed += len(c.doc.Negative)
			c.doc.Negative = map[string]negativeEntry{}
		default:
			return removed, fmt.Errorf("unknown cache tier %q", tier)
		}
	}
	if err := c.saveLocked(); err != nil {
		return removed, err
	}
	return removed, nil
}

func (c *Cache) load() LoadStatus {
	if c.path == "" {
		return LoadMissing
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadMissing
		}
		c.warnCorrupt(fmt.Errorf("read cache file: %w", err))
		return LoadCorrupt
	}
	if len(data) == 0 {
		c.warnCorrupt(errors.New("cache file is empty"))
		return LoadCorrupt
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		c.warnCorrupt(fmt.Errorf("parse cache file: %w", err))
		return LoadCorrupt
	}
	if doc.repair() {
		c.logger.Info("repaired cache document with missing tiers", logging.String("path", c.path))
	}
	c.doc = doc

	c.logger.Debug("loaded result cache",
		logging.Int("positive", len(doc.Positive)),
		logging.Int("negative", len(doc.Negative)),
		logging.Int("manual", len(doc.Manual)),
		logging.String("path", c.path))
	return LoadOK
}

func (c *Cache) warnCorrupt(err error) {
	logging.WarnWithContext(c.logger, "result cache unreadable; starting empty", "resultcache_load_failed",
		logging.Error(err),
		logging.String("path", c.path),
		logging.String(logging.FieldErrorHint, "the file is rewritten on the next cache update"),
		logging.String(logging.FieldImpact, "previously cached searches will hit the provider again"))
}

// persistLocked saves and logs instead of returning the error; used on read
// paths where a failed flush only costs a repeated eviction.
func (c *Cache) persistLocked(reason string) {
	if err := c.saveLocked(); err != nil {
		logging.WarnWithContext(c.logger, "failed to persist result cache", "resultcache_save_failed",
			logging.Error(err),
			logging.String("reason", reason),
			logging.String(logging.FieldImpact, "cache changes are kept in memory only"))
	}
}

// saveLocked writes the cache to disk atomically. Callers hold c.mu.
func (c *Cache) saveLocked() error {
	if c.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(c.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// keyState holds one key's entries across all tiers.
type keyState struct {
	manual      manualEntry
	hasManual   bool
	positive    positiveEntry
	hasPositive bool
	negative    negativeEntry
	hasNegative bool
}

func (c *Cache) snapshotLocked(key string) keyState {
	var st keyState
	st.manual, st.hasManual = c.doc.Manual[key]
	st.positive, st.hasPositive = c.doc.Positive[key]
	st.negative, st.hasNegative = c.doc.Negative[key]
	return st
}

// restoreLocked puts key back the way snapshotLocked saw it so a failed save
// leaves nothing unpersistable in memory.
func (c *Cache) restoreLocked(key string, st keyState) {
	delete(c.doc.Manual, key)
	delete(c.doc.Positive, key)
	delete(c.doc.Negative, key)
	if st.hasManual {
		c.doc.Manual[key] = st.manual
	}
	if st.hasPositive {
		c.doc.Positive[key] = st.positive
	}
	if st.hasNegative {
		c.doc.Negative[key] = st.negative
	}
}

func cloneCandidates(in []rmp.Candidate) []rmp.Candidate {
	if in == nil {
		return nil
	}
	out := make([]rmp.Candidate, len(in))
	copy(out, in)
	return out
}

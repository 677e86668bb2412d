package resultcache

import (
	"fmt"
	"math"
	"strings"
	"time"

	"profmatch/internal/rmp"
)

// Tier identifies one of the cache's three stores.
type Tier string

const (
	TierManual   Tier = "manual"
	TierPositive Tier = "positive"
	TierNegative Tier = "negative"
)

// Tiers lists every tier in lookup precedence order.
var Tiers = []Tier{TierManual, TierPositive, TierNegative}

// ParseTier converts user input into a Tier.
func ParseTier(value string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(value))) {
	case TierManual:
		return TierManual, nil
	case TierPositive:
		return TierPositive, nil
	case TierNegative:
		return TierNegative, nil
	default:
		return "", fmt.Errorf("unknown cache tier %q (want manual, positive or negative)", value)
	}
}

// LoadStatus reports what happened when the backing document was read.
type LoadStatus int

const (
	LoadOK LoadStatus = iota
	LoadMissing
	LoadCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadMissing:
		return "missing"
	case LoadCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// Lookup is a cache hit. A negative hit carries an empty, non-nil candidate
// list so callers can tell "searched, nothing found" from "never searched".
type Lookup struct {
	Candidates []rmp.Candidate
	Tier       Tier
	CachedAt   time.Time
}

// Entry describes one stored key for listings.
type Entry struct {
	Key        string
	Tier       Tier
	CachedAt   time.Time
	Candidates []rmp.Candidate
	Source     string
}

// Stats holds per-tier entry counts.
type Stats struct {
	Manual   int
	Positive int
	Negative int
}

// Total returns the number of entries across all tiers.
func (s Stats) Total() int { return s.Manual + s.Positive + s.Negative }

const manualSource = "manual"

type document struct {
	Positive map[string]positiveEntry `json:"positive"`
	Negative map[string]negativeEntry `json:"negative"`
	Manual   map[string]manualEntry   `json:"manual"`
}

type positiveEntry struct {
	Data      []rmp.Candidate `json:"data"`
	Timestamp float64         `json:"timestamp"`
}

type negativeEntry struct {
	Timestamp float64 `json:"timestamp"`
}

type manualEntry struct {
	Data      []rmp.Candidate `json:"data"`
	Timestamp float64         `json:"timestamp"`
	Source    string          `json:"source"`
}

func emptyDocument() document {
	return document{
		Positive: map[string]positiveEntry{},
		Negative: map[string]negativeEntry{},
		Manual:   map[string]manualEntry{},
	}
}

// repair fills in tiers missing from an older or hand-edited document.
func (d *document) repair() bool {
	repaired := false
	if d.Positive == nil {
		d.Positive = map[string]positiveEntry{}
		repaired = true
	}
	if d.Negative == nil {
		d.Negative = map[string]negativeEntry{}
		repaired = true
	}
	if d.Manual == nil {
		d.Manual = map[string]manualEntry{}
		repaired = true
	}
	return repaired
}

// Timestamps are stored as fractional epoch seconds with microsecond
// resolution, which round-trips exactly through float64.
func toEpoch(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

func fromEpoch(seconds float64) time.Time {
	return time.UnixMicro(int64(math.Round(seconds * 1e6)))
}

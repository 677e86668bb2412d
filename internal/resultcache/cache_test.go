package resultcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"profmatch/internal/rmp"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestCache(t *testing.T) (*Cache, *fakeClock, string) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)}
	path := filepath.Join(t.TempDir(), "rmp_cache.json")
	return New(path, nil, WithClock(clock.Now)), clock, path
}

func candidate(first, last, legacy string) rmp.Candidate {
	return rmp.Candidate{FirstName: first, LastName: last, LegacyID: rmp.LegacyID(legacy)}
}

func TestNegativeEntryExpiresAfterFourteenDays(t *testing.T) {
	cache, clock, _ := newTestCache(t)

	if err := cache.Put("Jane Doe", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	clock.Advance(13 * 24 * time.Hour)
	got, ok := cache.Get("Jane Doe")
	if !ok {
		t.Fatal("expected negative hit within ttl")
	}
	if got.Tier != TierNegative || got.Candidates == nil || len(got.Candidates) != 0 {
		t.Fatalf("expected empty non-nil negative result, got %#v", got)
	}

	clock.Advance(24 * time.Hour)
	if _, ok := cache.Get("Jane Doe"); ok {
		t.Fatal("expected negative entry to expire after 14 days")
	}
	if cache.Stats().Negative != 0 {
		t.Fatal("expected expired negative entry to be evicted")
	}
}

func TestPositiveEntryExpiresAfterOneHundredEightyDays(t *testing.T) {
	cache, clock, _ := newTestCache(t)
	want := candidate("Jane", "Doe", "123")

	if err := cache.Put("Jane Doe", []rmp.Candidate{want}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	clock.Advance(179 * 24 * time.Hour)
	got, ok := cache.Get("jane   DOE")
	if !ok || got.Tier != TierPositive {
		t.Fatalf("expected positive hit within ttl, got %#v (%v)", got, ok)
	}
	if len(got.Candidates) != 1 || got.Candidates[0].LegacyID != "123" {
		t.Fatalf("unexpected candidates: %#v", got.Candidates)
	}

	clock.Advance(24 * time.Hour)
	if _, ok := cache.Get("Jane Doe"); ok {
		t.Fatal("expected positive entry to expire after 180 days")
	}
}

func TestManualEntryWinsAndNeverExpires(t *testing.T) {
	cache, clock, _ := newTestCache(t)

	if err := cache.Put("Dr. Jane Doe", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := cache.PutManual("Jane Doe", candidate("Jane", "Doe", "999")); err != nil {
		t.Fatalf("PutManual failed: %v", err)
	}
	if cache.Stats().Negative != 0 {
		t.Fatal("expected manual insert to clear the negative entry")
	}

	clock.Advance(10 * 365 * 24 * time.Hour)
	got, ok := cache.Get("Jane Doe")
	if !ok || got.Tier != TierManual {
		t.Fatalf("expected manual hit, got %#v (%v)", got, ok)
	}
	if got.Candidates[0].LegacyID != "999" {
		t.Fatalf("unexpected manual candidate: %#v", got.Candidates[0])
	}
}

func TestManualTakesPrecedenceOverNegativeInDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	now := time.Now()
	raw := map[string]any{
		"positive": map[string]any{},
		"negative": map[string]any{"jane doe": map[string]any{"timestamp": toEpoch(now)}},
		"manual": map[string]any{"jane doe": map[string]any{
			"data":      []map[string]any{{"firstName": "Jane", "lastName": "Doe", "legacyId": 77}},
			"timestamp": toEpoch(now),
			"source":    "manual",
		}},
	}
	data, _ := json.Marshal(raw)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write cache: %v", err)
	}

	cache := New(path, nil)
	got, ok := cache.Get("Jane Doe")
	if !ok || got.Tier != TierManual || got.Candidates[0].LegacyID != "77" {
		t.Fatalf("expected manual data to win, got %#v (%v)", got, ok)
	}
}

func TestPutMovesKeyBetweenTiers(t *testing.T) {
	cache, _, _ := newTestCache(t)

	if err := cache.Put("Jane Doe", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := cache.Put("Jane Doe", []rmp.Candidate{candidate("Jane", "Doe", "1")}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	stats := cache.Stats()
	if stats.Positive != 1 || stats.Negative != 0 {
		t.Fatalf("expected key only in positive tier, got %+v", stats)
	}

	if err := cache.Put("Jane Doe", []rmp.Candidate{}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	stats = cache.Stats()
	if stats.Positive != 0 || stats.Negative != 1 {
		t.Fatalf("expected key only in negative tier, got %+v", stats)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	cache, clock, path := newTestCache(t)
	if err := cache.Put("Jane Doe", []rmp.Candidate{candidate("Jane", "Doe", "5")}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := cache.Put("Nobody Here", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var doc map[string]map[string]json.RawMessage
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cache file: %v", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("cache file is not json: %v", err)
	}
	for _, tier := range []string{"positive", "negative", "manual"} {
		if _, ok := doc[tier]; !ok {
			t.Fatalf("expected %s tier in document, got %s", tier, data)
		}
	}

	reloaded := New(path, nil, WithClock(clock.Now))
	if reloaded.LoadStatus() != LoadOK {
		t.Fatalf("expected LoadOK, got %v", reloaded.LoadStatus())
	}
	if got, ok := reloaded.Get("Jane Doe"); !ok || got.Candidates[0].LegacyID != "5" {
		t.Fatalf("expected persisted positive entry, got %#v (%v)", got, ok)
	}
	if got, ok := reloaded.Get("Nobody Here"); !ok || got.Tier != TierNegative {
		t.Fatalf("expected persisted negative entry, got %#v (%v)", got, ok)
	}
}

func TestCorruptFileYieldsEmptyCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write cache: %v", err)
	}
	cache := New(path, nil)
	if cache.LoadStatus() != LoadCorrupt {
		t.Fatalf("expected LoadCorrupt, got %v", cache.LoadStatus())
	}
	if cache.Stats().Total() != 0 {
		t.Fatal("expected empty cache after corrupt load")
	}
	if err := cache.Put("Jane Doe", nil); err != nil {
		t.Fatalf("expected cache to remain writable, got %v", err)
	}
}

func TestMissingFileYieldsEmptyCache(t *testing.T) {
	cache := New(filepath.Join(t.TempDir(), "absent.json"), nil)
	if cache.LoadStatus() != LoadMissing {
		t.Fatalf("expected LoadMissing, got %v", cache.LoadStatus())
	}
}

func TestMissingTierIsRepairedWithoutDiscardingOthers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	legacy := `{"positive":{"jane doe":{"data":[{"firstName":"Jane","lastName":"Doe","legacyId":"42"}],"timestamp":` +
		jsonFloat(toEpoch(time.Now())) + `}}}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write cache: %v", err)
	}

	cache := New(path, nil)
	if cache.LoadStatus() != LoadOK {
		t.Fatalf("expected LoadOK, got %v", cache.LoadStatus())
	}
	if _, ok := cache.Get("Jane Doe"); !ok {
		t.Fatal("expected positive tier to survive repair")
	}
	if err := cache.PutManual("John Roe", candidate("John", "Roe", "7")); err != nil {
		t.Fatalf("PutManual on repaired cache failed: %v", err)
	}
}

func TestClearAndEntries(t *testing.T) {
	cache, _, _ := newTestCache(t)
	_ = cache.Put("Zed Alpha", []rmp.Candidate{candidate("Zed", "Alpha", "1")})
	_ = cache.Put("Amy Beta", []rmp.Candidate{candidate("Amy", "Beta", "2")})
	_ = cache.Put("Nobody", nil)

	entries := cache.Entries(TierPositive)
	if len(entries) != 2 || entries[0].Key != "amy beta" || entries[1].Key != "zed alpha" {
		t.Fatalf("unexpected positive entries: %#v", entries)
	}

	removed, err := cache.Clear(TierNegative)
	if err != nil || removed != 1 {
		t.Fatalf("Clear(negative) = %d, %v", removed, err)
	}
	removed, err = cache.Clear()
	if err != nil || removed != 2 {
		t.Fatalf("Clear() = %d, %v", removed, err)
	}
	if cache.Stats().Total() != 0 {
		t.Fatal("expected empty cache")
	}
}

func TestParseTier(t *testing.T) {
	if tier, err := ParseTier(" Manual "); err != nil || tier != TierManual {
		t.Fatalf("ParseTier(manual) = %q, %v", tier, err)
	}
	if _, err := ParseTier("stale"); err == nil {
		t.Fatal("expected error for unknown tier")
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	cache, _, _ := newTestCache(t)
	if err := cache.Put("   ", nil); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, ok := cache.Get(""); ok {
		t.Fatal("expected miss for empty key")
	}
}

func jsonFloat(f float64) string {
	data, _ := json.Marshal(f)
	return string(data)
}

func TestManualEntryWithLeadingZeroIDPersists(t *testing.T) {
	cache, _, path := newTestCache(t)

	if err := cache.PutManual("Jane Doe", candidate("Jane", "Doe", "0123")); err != nil {
		t.Fatalf("PutManual failed: %v", err)
	}
	if err := cache.Put("John Roe", []rmp.Candidate{candidate("John", "Roe", "42")}); err != nil {
		t.Fatalf("Put after manual entry failed: %v", err)
	}

	reloaded := New(path, nil)
	if reloaded.LoadStatus() != LoadOK {
		t.Fatalf("expected reload to succeed, got %s", reloaded.LoadStatus())
	}
	got, ok := reloaded.Get("Jane Doe")
	if !ok || got.Tier != TierManual || got.Candidates[0].LegacyID != "0123" {
		t.Fatalf("expected manual entry with id 0123, got %#v (ok=%v)", got, ok)
	}
	if _, ok := reloaded.Get("John Roe"); !ok {
		t.Fatal("expected later positive entry to be persisted")
	}
}

func TestFailedSaveLeavesMemoryUnchanged(t *testing.T) {
	cache, _, path := newTestCache(t)
	if err := cache.Put("Jane Doe", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	cache.path = filepath.Join(blocker, "rmp_cache.json")

	if err := cache.PutManual("Jane Doe", candidate("Jane", "Doe", "101")); err == nil {
		t.Fatal("expected PutManual to fail when the cache cannot be written")
	}
	if err := cache.Put("Ann Lee", []rmp.Candidate{candidate("Ann", "Lee", "7")}); err == nil {
		t.Fatal("expected Put to fail when the cache cannot be written")
	}
	got, ok := cache.Get("Jane Doe")
	if !ok || got.Tier != TierNegative {
		t.Fatalf("expected the original negative entry to be restored, got %#v (ok=%v)", got, ok)
	}
	if stats := cache.Stats(); stats.Manual != 0 || stats.Positive != 0 || stats.Negative != 1 {
		t.Fatalf("expected failed writes to be rolled back, got %+v", stats)
	}

	cache.path = path
	if err := cache.Put("John Roe", []rmp.Candidate{candidate("John", "Roe", "42")}); err != nil {
		t.Fatalf("Put after recovery failed: %v", err)
	}
	reloaded := New(path, nil)
	if reloaded.Stats() != (Stats{Negative: 1, Positive: 1}) {
		t.Fatalf("unexpected persisted tiers: %+v", reloaded.Stats())
	}
}

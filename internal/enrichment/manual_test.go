package enrichment_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"profmatch/internal/enrichment"
	"profmatch/internal/logging"
	"profmatch/internal/resultcache"
	"profmatch/internal/store"
	"profmatch/internal/testsupport"
)

func TestExportImportRoundTrip(t *testing.T) {
	orch, st := newOrchestrator(t, &stubSearch{})
	ctx := context.Background()

	ids := map[string]int64{}
	for _, name := range []string{"Zed Last", "Amy First", "Mia Middle"} {
		ids[name] = testsupport.NewProfessor(t, st, name)
	}
	linked := testsupport.NewProfessor(t, st, "Already Linked")
	if err := st.SetLink(ctx, linked, baseURL+"/professor/1"); err != nil {
		t.Fatalf("SetLink: %v", err)
	}

	path := filepath.Join(t.TempDir(), "unmatched.csv")
	n, err := orch.ExportUnmatched(ctx, path)
	if err != nil {
		t.Fatalf("ExportUnmatched: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 unmatched professors, got %d", n)
	}

	rows := testsupport.ReadCSV(t, path)
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "professor_name" || rows[0][1] != "rmp_id" || rows[0][2] != "notes" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "Amy First" || rows[3][0] != "Zed Last" {
		t.Fatalf("expected rows ordered by name, got %v", rows[1:])
	}
	want := map[string]string{}
	for i, row := range rows[1:] {
		if row[1] != "" || row[2] != "Manual research needed" {
			t.Fatalf("unexpected export row %v", row)
		}
		id := []string{"1001", "1002", "1003"}[i]
		row[1] = id
		want[row[0]] = baseURL + "/professor/" + id
	}
	testsupport.WriteCSV(t, path, rows)

	result, err := orch.ImportManual(ctx, path)
	if err != nil {
		t.Fatalf("ImportManual: %v", err)
	}
	if result.Added != 3 || len(result.Failures) != 0 {
		t.Fatalf("unexpected import result %+v", result)
	}
	for name, link := range want {
		p, err := st.GetProfessor(ctx, ids[name])
		if err != nil {
			t.Fatalf("GetProfessor: %v", err)
		}
		if p.Link != link {
			t.Fatalf("%s: got link %q want %q", name, p.Link, link)
		}
	}
}

func TestImportSkipsBlankRowsAndCollectsFailures(t *testing.T) {
	orch, st := newOrchestrator(t, &stubSearch{})
	ctx := context.Background()
	id := testsupport.NewProfessor(t, st, "Jane Doe")

	path := filepath.Join(t.TempDir(), "manual.csv")
	testsupport.WriteCSV(t, path, [][]string{
		{"professor_name", "rmp_id"},
		{"Jane Doe", "2451"},
		{"", ""},
		{"Ghost Person", "77"},
		{"Jane Doe", "abc"},
	})

	result, err := orch.ImportManual(ctx, path)
	if err != nil {
		t.Fatalf("ImportManual: %v", err)
	}
	if result.Added != 1 || result.Skipped != 1 || len(result.Failures) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if !errors.Is(result.Failures[0].Err, store.ErrNotFound) || result.Failures[0].Line != 4 {
		t.Fatalf("unexpected first failure %+v", result.Failures[0])
	}
	if !errors.Is(result.Failures[1].Err, enrichment.ErrInvalidRMPID) {
		t.Fatalf("unexpected second failure %+v", result.Failures[1])
	}
	p, _ := st.GetProfessor(ctx, id)
	if p.Link != baseURL+"/professor/2451" {
		t.Fatalf("unexpected link %q", p.Link)
	}
}

func TestImportRequiresHeaders(t *testing.T) {
	orch, _ := newOrchestrator(t, &stubSearch{})
	path := filepath.Join(t.TempDir(), "manual.csv")
	testsupport.WriteCSV(t, path, [][]string{{"name", "id"}, {"Jane Doe", "1"}})

	if _, err := orch.ImportManual(context.Background(), path); err == nil {
		t.Fatal("expected header error")
	}
}

func TestAddManualLinkRecordsManualCacheEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cache := resultcache.New(cfg.Paths.CachePath, logging.NewNop())
	orch := enrichment.New(st, &stubSearch{}, logging.NewNop(),
		enrichment.WithBaseURL(baseURL), enrichment.WithManualCache(cache))
	ctx := context.Background()
	id := testsupport.NewProfessor(t, st, "Mary Ann Lee")

	if err := orch.AddManualLink(ctx, "Mary Ann Lee", " 3141 "); err != nil {
		t.Fatalf("AddManualLink: %v", err)
	}
	hit, ok := cache.Get("Mary Ann Lee")
	if !ok || hit.Tier != resultcache.TierManual || len(hit.Candidates) != 1 {
		t.Fatalf("expected manual cache entry, got %+v ok=%v", hit, ok)
	}
	c := hit.Candidates[0]
	if c.FirstName != "Mary" || c.LastName != "Ann Lee" || c.LegacyID != "3141" || c.AvgRating != nil {
		t.Fatalf("unexpected manual candidate %+v", c)
	}
	p, _ := st.GetProfessor(ctx, id)
	if p.Link != baseURL+"/professor/3141" || p.HasScore() {
		t.Fatalf("unexpected professor after manual link %+v", p)
	}

	if err := orch.AddManualLink(ctx, "Mary Ann Lee", "31a"); !errors.Is(err, enrichment.ErrInvalidRMPID) {
		t.Fatalf("expected ErrInvalidRMPID, got %v", err)
	}
	if err := orch.AddManualLink(ctx, "Nobody", "1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

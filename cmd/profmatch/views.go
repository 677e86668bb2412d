package main

import (
	"strconv"
	"time"

	"profmatch/internal/enrichment"
	"profmatch/internal/resultcache"
	"profmatch/internal/store"
)

type professorView struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Score          *float64 `json:"score"`
	Difficulty     *float64 `json:"difficulty"`
	WouldTakeAgain *float64 `json:"would_take_again"`
	Link           string   `json:"link,omitempty"`
}

func professorViews(ps []store.Professor) []professorView {
	out := make([]professorView, 0, len(ps))
	for _, p := range ps {
		out = append(out, professorView{
			ID:             p.ID,
			Name:           p.Name,
			Score:          p.Score,
			Difficulty:     p.Difficulty,
			WouldTakeAgain: p.WouldTakeAgain,
			Link:           p.Link,
		})
	}
	return out
}

type coverageView struct {
	Total           int     `json:"total"`
	WithLink        int     `json:"with_link"`
	WithScore       int     `json:"with_score"`
	ZeroScores      int     `json:"zero_scores"`
	CoveragePercent float64 `json:"coverage_percent"`
}

func newCoverageView(c store.Coverage) coverageView {
	return coverageView{
		Total:           c.Total,
		WithLink:        c.WithLink,
		WithScore:       c.WithScore,
		ZeroScores:      c.ZeroScores,
		CoveragePercent: c.Percent(),
	}
}

type integrityView struct {
	Clean                 bool            `json:"clean"`
	LinkedWithoutScore    []professorView `json:"linked_without_score"`
	ScoresOutOfRange      []professorView `json:"scores_out_of_range"`
	InvalidWouldTakeAgain []professorView `json:"invalid_would_take_again"`
	Coverage              coverageView    `json:"coverage"`
}

func newIntegrityView(r enrichment.IntegrityReport) integrityView {
	return integrityView{
		Clean:                 r.Clean(),
		LinkedWithoutScore:    professorViews(r.LinkedWithoutScore),
		ScoresOutOfRange:      professorViews(r.ScoresOutOfRange),
		InvalidWouldTakeAgain: professorViews(r.InvalidWouldTakeAgain),
		Coverage:              newCoverageView(r.Coverage),
	}
}

type summaryView struct {
	RunID     string         `json:"run_id"`
	Phases    []string       `json:"phases"`
	Merged    int            `json:"groups_merged"`
	Total     int            `json:"professors"`
	Outcomes  map[string]int `json:"outcomes"`
	Integrity *integrityView `json:"integrity,omitempty"`
	Duration  string         `json:"duration"`
}

func newSummaryView(s enrichment.Summary) summaryView {
	view := summaryView{
		RunID:    s.RunID,
		Merged:   s.Merged,
		Total:    s.Total,
		Outcomes: make(map[string]int, len(s.Outcomes)),
		Duration: s.Duration.Round(time.Millisecond).String(),
	}
	for _, p := range s.Phases {
		view.Phases = append(view.Phases, string(p))
	}
	for k, v := range s.Outcomes {
		view.Outcomes[string(k)] = v
	}
	if s.Integrity != nil {
		iv := newIntegrityView(*s.Integrity)
		view.Integrity = &iv
	}
	return view
}

type cacheEntryView struct {
	Key        string    `json:"key"`
	Tier       string    `json:"tier"`
	CachedAt   time.Time `json:"cached_at"`
	Candidates int       `json:"candidates"`
	Source     string    `json:"source,omitempty"`
}

func cacheEntryViews(entries []resultcache.Entry) []cacheEntryView {
	out := make([]cacheEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, cacheEntryView{
			Key:        e.Key,
			Tier:       string(e.Tier),
			CachedAt:   e.CachedAt,
			Candidates: len(e.Candidates),
			Source:     e.Source,
		})
	}
	return out
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

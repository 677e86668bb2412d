package dedupe

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"profmatch/internal/logging"
	"profmatch/internal/names"
	"profmatch/internal/store"
)

// Store is the persistence surface the merger needs.
type Store interface {
	ListProfessors(ctx context.Context) ([]store.Professor, error)
	DistributionCounts(ctx context.Context) (map[int64]int, error)
	ApplyMerge(ctx context.Context, plan store.MergePlan) error
}

// Group is one set of professors sharing a canonical name, ranked survivor first.
type Group struct {
	Key     string
	Members []Member
	Plan    store.MergePlan
}

// Member is a ranked group member.
type Member struct {
	Professor     store.Professor
	Distributions int
}

// Merger plans and applies duplicate merges.
type Merger struct {
	store  Store
	logger *slog.Logger
}

// New constructs a Merger.
func New(st Store, logger *slog.Logger) *Merger {
	return &Merger{store: st, logger: logging.NewComponentLogger(logger, "dedupe")}
}

// Plan groups professors by canonical name and returns every group with more
// than one member, ordered by key.
func (m *Merger) Plan(ctx context.Context) ([]Group, error) {
	professors, err := m.store.ListProfessors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}
	counts, err := m.store.DistributionCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count distributions: %w", err)
	}

	byKey := make(map[string][]Member)
	for _, p := range professors {
		key := names.Canonicalize(p.Name)
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], Member{Professor: p, Distributions: counts[p.ID]})
	}

	keys := make([]string, 0, len(byKey))
	for key, members := range byKey {
		if len(members) > 1 {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		members := byKey[key]
		rank(members)
		groups = append(groups, Group{Key: key, Members: members, Plan: planFor(members)})
	}
	return groups, nil
}

// MergeDuplicates applies every planned merge, one transaction per group, and
// returns the number of groups merged. It stops at the first failing group;
// groups already merged stay merged.
func (m *Merger) MergeDuplicates(ctx context.Context) (int, error) {
	groups, err := m.Plan(ctx)
	if err != nil {
		return 0, err
	}
	if len(groups) == 0 {
		m.logger.Info("no duplicate professors found")
		return 0, nil
	}

	merged := 0
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return merged, err
		}
		survivor := group.Members[0].Professor
		if err := m.store.ApplyMerge(ctx, group.Plan); err != nil {
			logging.ErrorWithContext(m.logger, "duplicate merge failed", "dedupe_merge_failed",
				logging.String("canonical_name", group.Key),
				logging.Int64(logging.FieldProfessorID, survivor.ID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "inspect the professors and distributions tables for this name"))
			return merged, fmt.Errorf("merge %q: %w", group.Key, err)
		}
		merged++
		attrs := []logging.Attr{
			logging.String("canonical_name", group.Key),
			logging.Int64(logging.FieldProfessorID, survivor.ID),
			logging.String(logging.FieldProfessorName, survivor.Name),
			logging.Any("merged_ids", group.Plan.LoserIDs),
			logging.Bool("ratings_transferred", group.Plan.Transfer != nil),
		}
		attrs = append(attrs, logging.DecisionAttrs("duplicate_merge", "merged",
			fmt.Sprintf("kept id %d with %d distributions", survivor.ID, group.Members[0].Distributions))...)
		m.logger.Info("merged duplicate professors", logging.Args(attrs...)...)
	}
	m.logger.Info("duplicate merge complete", logging.Int("groups_merged", merged))
	return merged, nil
}

// rank orders members by distribution count descending, then id ascending.
func rank(members []Member) {
	slices.SortStableFunc(members, func(a, b Member) int {
		if a.Distributions != b.Distributions {
			return b.Distributions - a.Distributions
		}
		switch {
		case a.Professor.ID < b.Professor.ID:
			return -1
		case a.Professor.ID > b.Professor.ID:
			return 1
		}
		return 0
	})
}

func planFor(ranked []Member) store.MergePlan {
	survivor := ranked[0].Professor
	plan := store.MergePlan{SurvivorID: survivor.ID}
	for _, member := range ranked[1:] {
		plan.LoserIDs = append(plan.LoserIDs, member.Professor.ID)
		if plan.Transfer == nil && !survivor.HasScore() && member.Professor.HasScore() {
			ratings := store.RatingsOf(member.Professor)
			plan.Transfer = &ratings
		}
	}
	return plan
}

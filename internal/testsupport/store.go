package testsupport

import (
	"context"
	"fmt"
	"testing"

	"profmatch/internal/config"
	"profmatch/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// NewProfessor inserts a professor and returns its id.
func NewProfessor(t testing.TB, s *store.Store, name string) int64 {
	t.Helper()

	id, err := s.CreateProfessor(context.Background(), name)
	if err != nil {
		t.Fatalf("store.CreateProfessor(%q): %v", name, err)
	}
	return id
}

// NewDistributions attaches n distributions, each on its own class, to
// professorID and returns their ids.
func NewDistributions(t testing.TB, s *store.Store, professorID int64, n int) []int64 {
	t.Helper()

	ctx := context.Background()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		classID, err := s.CreateClass(ctx, store.Class{
			DeptAbbr:    "CS",
			CourseNum:   fmt.Sprintf("%d%03d", professorID, i),
			Description: fmt.Sprintf("Course %d-%d", professorID, i),
		})
		if err != nil {
			t.Fatalf("store.CreateClass: %v", err)
		}
		distID, err := s.CreateDistribution(ctx, classID, professorID)
		if err != nil {
			t.Fatalf("store.CreateDistribution: %v", err)
		}
		ids = append(ids, distID)
	}
	return ids
}

package enrichment

import (
	"sort"
	"time"
)

// Phase is one state of a batch run.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseMerging   Phase = "merging_duplicates"
	PhaseResolving Phase = "resolving_batch"
	PhaseVerifying Phase = "verifying_integrity"
)

// Options selects the phases of a run.
type Options struct {
	FixDuplicates   bool
	SkipResolution  bool
	VerifyIntegrity bool
}

// Phases lists the phases opts would run, in order.
func (opts Options) Phases() []Phase {
	var phases []Phase
	if opts.FixDuplicates {
		phases = append(phases, PhaseMerging)
	}
	if !opts.SkipResolution {
		phases = append(phases, PhaseResolving)
	}
	if opts.VerifyIntegrity {
		phases = append(phases, PhaseVerifying)
	}
	return phases
}

// Outcome classifies what happened to one professor during resolution.
type Outcome string

const (
	OutcomeUpdated       Outcome = "updated"
	OutcomeNoCandidates  Outcome = "no_candidates"
	OutcomeNoMatch       Outcome = "no_match"
	OutcomeAmbiguous     Outcome = "ambiguous"
	OutcomeReview        Outcome = "review"
	OutcomeRejected      Outcome = "rejected"
	OutcomeInvalid       Outcome = "invalid"
	OutcomeProviderError Outcome = "provider_error"
	OutcomeStoreError    Outcome = "store_error"
	OutcomeSkipped       Outcome = "skipped"
)

// Task is one unit of resolution work.
type Task struct {
	ProfessorID int64
}

// Summary reports a finished run.
type Summary struct {
	RunID     string
	Phases    []Phase
	Merged    int
	Total     int
	Outcomes  map[Outcome]int
	Integrity *IntegrityReport
	Duration  time.Duration
}

// Count returns the number of professors with outcome o.
func (s Summary) Count(o Outcome) int {
	return s.Outcomes[o]
}

// Processed returns the number of professors whose task ran to an outcome.
func (s Summary) Processed() int {
	n := 0
	for _, c := range s.Outcomes {
		n += c
	}
	return n
}

// OutcomeKeys returns the recorded outcomes in a stable order.
func (s Summary) OutcomeKeys() []Outcome {
	keys := make([]Outcome, 0, len(s.Outcomes))
	for k := range s.Outcomes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

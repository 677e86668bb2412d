package identification

import (
	"sort"
	"strings"

	"profmatch/internal/names"
	"profmatch/internal/rmp"
	"profmatch/internal/textutil"
)

// Tier names the strategy that produced a match.
type Tier string

const (
	TierNone     Tier = "none"
	TierExact    Tier = "exact"
	TierNickname Tier = "nickname"
	TierFuzzy    Tier = "fuzzy"
)

// Recommendation is the action suggested by quality validation.
type Recommendation string

const (
	Accept Recommendation = "accept"
	Review Recommendation = "review"
	Reject Recommendation = "reject"
)

// Issue is a quality problem found while validating a non-exact match.
type Issue string

const (
	IssueDifferentNameStructure Issue = "different_name_structure"
	IssueDifferentLastName      Issue = "different_last_name"
	IssueLowSimilarity          Issue = "low_similarity_score"
)

// Decision is the outcome of resolving one professor against its candidates.
type Decision struct {
	Target         string
	Candidate      *rmp.Candidate
	Tier           Tier
	Score          float64
	Confidence     float64
	Issues         []Issue
	Recommendation Recommendation
	// Ambiguous is set when more than one candidate qualified at the
	// deciding tier. Candidate is nil in that case.
	Ambiguous bool
	// PoolSize is the number of candidates that qualified at Tier.
	PoolSize int
}

// Accepted reports whether the decision yields a usable candidate.
func (d Decision) Accepted() bool {
	return d.Candidate != nil && !d.Ambiguous && d.Recommendation == Accept
}

// Similarity scores two canonical names in [0,1].
type Similarity interface {
	Similarity(a, b string) float64
}

// SimilarityFunc adapts a plain function to Similarity.
type SimilarityFunc func(a, b string) float64

// Similarity implements Similarity.
func (f SimilarityFunc) Similarity(a, b string) float64 { return f(a, b) }

// Thresholds holds the resolver's tunable cut-offs.
type Thresholds struct {
	Fuzzy  float64
	Accept float64
	Review float64
}

// DefaultThresholds returns the standard cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{Fuzzy: 0.85, Accept: 0.90, Review: 0.75}
}

// Resolver selects at most one candidate for a target name.
type Resolver struct {
	similarity Similarity
	thresholds Thresholds
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithSimilarity replaces the fuzzy similarity function.
func WithSimilarity(s Similarity) ResolverOption {
	return func(r *Resolver) {
		if s != nil {
			r.similarity = s
		}
	}
}

// WithThresholds replaces the fuzzy, accept and review cut-offs.
func WithThresholds(t Thresholds) ResolverOption {
	return func(r *Resolver) {
		r.thresholds = t
	}
}

// NewResolver returns a resolver using token-sort similarity and the
// default thresholds unless overridden.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		similarity: textutil.TokenSort{},
		thresholds: DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve applies the exact, nickname and fuzzy tiers in order, stopping at
// the first tier with any qualifying candidate.
func (r *Resolver) Resolve(target string, candidates []rmp.Candidate) Decision {
	target = strings.TrimSpace(target)
	decision := Decision{Target: target, Tier: TierNone, Recommendation: Reject}
	if target == "" || len(candidates) == 0 {
		return decision
	}

	if exact := exactMatches(target, candidates); len(exact) > 0 {
		decision.Tier = TierExact
		decision.PoolSize = len(exact)
		if len(exact) > 1 {
			return ambiguous(decision)
		}
		chosen := exact[0]
		decision.Candidate = &chosen
		decision.Score = 1
		decision.Confidence = 1
		decision.Recommendation = Accept
		return decision
	}

	first, rest, ok := names.Split(names.Canonicalize(target))
	if !ok {
		return decision
	}

	if nick := nicknameMatches(first, rest, candidates); len(nick) > 0 {
		decision.Tier = TierNickname
		decision.PoolSize = len(nick)
		if len(nick) > 1 {
			return ambiguous(decision)
		}
		return r.validate(decision, nick[0], 1)
	}

	scored := r.fuzzyMatches(target, candidates)
	if len(scored) == 0 {
		return decision
	}
	decision.Tier = TierFuzzy
	decision.PoolSize = len(scored)
	if len(scored) > 1 && scored[0].score == scored[1].score {
		return ambiguous(decision)
	}
	return r.validate(decision, scored[0].candidate, scored[0].score)
}

func ambiguous(d Decision) Decision {
	d.Ambiguous = true
	d.Candidate = nil
	d.Recommendation = Reject
	return d
}

func exactMatches(target string, candidates []rmp.Candidate) []rmp.Candidate {
	var out []rmp.Candidate
	for _, c := range candidates {
		if c.FullName() == target {
			out = append(out, c)
		}
	}
	return out
}

func nicknameMatches(first, rest string, candidates []rmp.Candidate) []rmp.Candidate {
	variants := names.Variants(first)
	lastKey := names.Canonicalize(rest)
	var out []rmp.Candidate
	for _, c := range candidates {
		if names.Canonicalize(c.LastName) != lastKey {
			continue
		}
		candidateFirst := names.Canonicalize(c.FirstName)
		for _, v := range variants {
			if v == candidateFirst {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

type scoredCandidate struct {
	candidate rmp.Candidate
	score     float64
}

func (r *Resolver) fuzzyMatches(target string, candidates []rmp.Candidate) []scoredCandidate {
	targetKey := names.Canonicalize(target)
	var out []scoredCandidate
	for _, c := range candidates {
		score := r.similarity.Similarity(targetKey, names.Canonicalize(c.FullName()))
		if score >= r.thresholds.Fuzzy {
			out = append(out, scoredCandidate{candidate: c, score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

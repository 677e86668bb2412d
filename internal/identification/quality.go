package identification

import (
	"strings"

	"profmatch/internal/names"
	"profmatch/internal/rmp"
)

const (
	structurePenalty = 0.9
	lastNamePenalty  = 0.7
	lowScorePenalty  = 0.8
)

// validate scores candidate against the decision target and fills in the
// confidence, issues and recommendation.
func (r *Resolver) validate(d Decision, candidate rmp.Candidate, score float64) Decision {
	d.Candidate = &candidate
	d.Score = score

	targetKey := names.Canonicalize(d.Target)
	candidateKey := names.Canonicalize(candidate.FullName())
	if targetKey == candidateKey {
		d.Confidence = 1
		d.Recommendation = Accept
		return d
	}

	confidence := score
	targetTokens := strings.Fields(targetKey)
	candidateTokens := strings.Fields(candidateKey)

	if len(targetTokens) != len(candidateTokens) {
		d.Issues = append(d.Issues, IssueDifferentNameStructure)
		confidence *= structurePenalty
	}
	if len(targetTokens) >= 2 && len(candidateTokens) >= 2 &&
		targetTokens[len(targetTokens)-1] != candidateTokens[len(candidateTokens)-1] {
		d.Issues = append(d.Issues, IssueDifferentLastName)
		confidence *= lastNamePenalty
	}
	if score < r.thresholds.Fuzzy {
		d.Issues = append(d.Issues, IssueLowSimilarity)
		confidence *= lowScorePenalty
	}

	d.Confidence = confidence
	d.Recommendation = r.recommend(confidence)
	return d
}

func (r *Resolver) recommend(confidence float64) Recommendation {
	switch {
	case confidence >= r.thresholds.Accept:
		return Accept
	case confidence >= r.thresholds.Review:
		return Review
	default:
		return Reject
	}
}

// IssueStrings renders issues for logging.
func IssueStrings(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = string(issue)
	}
	return out
}

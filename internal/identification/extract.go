package identification

import (
	"errors"
	"fmt"

	"profmatch/internal/rmp"
	"profmatch/internal/store"
)

var (
	// ErrMissingLegacyID means the candidate has no provider identifier.
	ErrMissingLegacyID = errors.New("candidate has no legacy id")
	// ErrInvalidLegacyID means the provider identifier is not all digits.
	ErrInvalidLegacyID = errors.New("candidate legacy id is not numeric")
	// ErrRatingOutOfRange means a score or difficulty is outside [0,5].
	ErrRatingOutOfRange = errors.New("candidate rating out of range")
)

// Extraction is a validated enrichment payload.
type Extraction struct {
	Ratings store.Ratings
	// DroppedWouldTakeAgain holds an out-of-range would-take-again value
	// that was stored as null instead.
	DroppedWouldTakeAgain *float64
}

// ExtractRatings validates candidate and converts it into store ratings with
// a profile link under baseURL. Absent score and difficulty become 0.0.
// A would-take-again outside [-1,100] is dropped to null and reported in
// DroppedWouldTakeAgain; the candidate stays usable because the score and
// link are still valid.
func ExtractRatings(candidate rmp.Candidate, baseURL string) (Extraction, error) {
	if candidate.LegacyID == "" {
		return Extraction{}, ErrMissingLegacyID
	}
	if !candidate.LegacyID.IsDigits() {
		return Extraction{}, fmt.Errorf("%w: %q", ErrInvalidLegacyID, candidate.LegacyID)
	}

	score, err := ratingOrZero("avgRating", candidate.AvgRating)
	if err != nil {
		return Extraction{}, err
	}
	difficulty, err := ratingOrZero("avgDifficulty", candidate.AvgDifficulty)
	if err != nil {
		return Extraction{}, err
	}

	out := Extraction{
		Ratings: store.Ratings{
			Score:      score,
			Difficulty: difficulty,
			Link:       rmp.ProfileURL(baseURL, candidate.LegacyID),
		},
	}
	if v := candidate.WouldTakeAgainPercent; v != nil {
		value := *v
		if value >= -1 && value <= 100 {
			out.Ratings.WouldTakeAgain = &value
		} else {
			out.DroppedWouldTakeAgain = &value
		}
	}
	return out, nil
}

func ratingOrZero(field string, v *float64) (float64, error) {
	if v == nil {
		return 0, nil
	}
	if !(*v >= 0 && *v <= 5) {
		return 0, fmt.Errorf("%w: %s=%v", ErrRatingOutOfRange, field, *v)
	}
	return *v, nil
}

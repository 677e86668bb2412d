package textutil

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// TokenSortRatio returns a similarity score in [0,1] between a and b that
// ignores token order. Two empty inputs score 0.
func TokenSortRatio(a, b string) float64 {
	left := SortTokens(Fold(a))
	right := SortTokens(Fold(b))
	return Ratio(left, right)
}

// Ratio is the normalized indel similarity 2*LCS/(len(a)+len(b)) measured in
// runes.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 0
	}
	if a == b {
		return 1
	}
	return float64(2*edlib.LCS(a, b)) / float64(total)
}

// TokenSort adapts TokenSortRatio to the resolver's Similarity capability.
type TokenSort struct{}

// Similarity implements identification.Similarity.
func (TokenSort) Similarity(a, b string) float64 { return TokenSortRatio(a, b) }

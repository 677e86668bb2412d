package textutil

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold removes combining marks so "José" and "Jose" compare equal.
func Fold(s string) string {
	result, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return result
}

// SortTokens splits s on whitespace, sorts the tokens and rejoins them with
// single spaces.
func SortTokens(s string) string {
	tokens := strings.Fields(s)
	if len(tokens) < 2 {
		return strings.Join(tokens, " ")
	}
	slices.Sort(tokens)
	return strings.Join(tokens, " ")
}

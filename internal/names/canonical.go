package names

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titlePrefix = regexp.MustCompile(`(?i)^(?:dr|prof|professor)(?:\.\s*|\s+)`)
	genSuffix   = regexp.MustCompile(`(?i)\s+(?:jr|sr|ii|iii|iv)\.?$`)
)

// Canonicalize returns the matching key for name: whitespace collapsed,
// leading academic titles and trailing generational suffixes removed,
// lowercased. Canonicalize(Canonicalize(x)) == Canonicalize(x).
func Canonicalize(name string) string {
	key := collapse(name)
	if key == "" {
		return ""
	}
	for {
		stripped := collapse(titlePrefix.ReplaceAllString(key, ""))
		stripped = collapse(genSuffix.ReplaceAllString(stripped, ""))
		if stripped == key {
			break
		}
		key = stripped
	}
	return cases.Lower(language.Und).String(key)
}

// Split returns the first token of name and the remaining tokens joined by a
// single space. ok is false for names with fewer than two tokens.
func Split(name string) (first, rest string, ok bool) {
	tokens := strings.Fields(name)
	if len(tokens) < 2 {
		return strings.Join(tokens, ""), "", false
	}
	return tokens[0], strings.Join(tokens[1:], " "), true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

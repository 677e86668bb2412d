package names

import "slices"

// nicknames maps a canonical full first name to its common short forms.
var nicknames = map[string][]string{
	"robert":      {"rob", "bob", "bobby"},
	"william":     {"will", "bill", "billy"},
	"james":       {"jim", "jimmy"},
	"michael":     {"mike", "mick"},
	"david":       {"dave", "davy"},
	"richard":     {"rick", "dick"},
	"thomas":      {"tom", "tommy"},
	"charles":     {"charlie", "chuck"},
	"christopher": {"chris"},
	"daniel":      {"dan", "danny"},
	"matthew":     {"matt"},
	"anthony":     {"tony"},
	"joseph":      {"joe", "joey"},
	"andrew":      {"andy", "drew"},
	"elizabeth":   {"liz", "beth", "betty"},
	"margaret":    {"meg", "maggie"},
	"patricia":    {"pat", "patty"},
	"jennifer":    {"jen", "jenny"},
	"susan":       {"sue", "suzy"},
	"salvador":    {"sal"},
}

// Variants returns the canonicalized first name together with every name the
// nickname table relates it to, in either direction. The result is sorted and
// free of duplicates. An empty first name yields nil.
func Variants(firstName string) []string {
	canonical := Canonicalize(firstName)
	if canonical == "" {
		return nil
	}
	set := map[string]struct{}{canonical: {}}
	for _, nick := range nicknames[canonical] {
		set[nick] = struct{}{}
	}
	for full, nicks := range nicknames {
		if !slices.Contains(nicks, canonical) {
			continue
		}
		set[full] = struct{}{}
		for _, nick := range nicks {
			set[nick] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// IsVariant reports whether candidate is one of the variants of firstName.
func IsVariant(firstName, candidate string) bool {
	return slices.Contains(Variants(firstName), Canonicalize(candidate))
}

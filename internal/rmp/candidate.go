package rmp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// School references the provider school a candidate teaches at.
type School struct {
	ID string `json:"id"`
}

// Candidate is a single teacher node returned by the provider search.
type Candidate struct {
	ID                    string   `json:"id,omitempty"`
	FirstName             string   `json:"firstName"`
	LastName              string   `json:"lastName"`
	AvgRating             *float64 `json:"avgRating"`
	AvgDifficulty         *float64 `json:"avgDifficulty"`
	WouldTakeAgainPercent *float64 `json:"wouldTakeAgainPercent"`
	LegacyID              LegacyID `json:"legacyId"`
	School                School   `json:"school"`
}

// FullName returns "first last" trimmed of surrounding whitespace.
func (c Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// LegacyID is the provider's numeric teacher identifier. The provider sends it
// as a JSON number but cached and hand-edited documents may carry a string, so
// both are accepted. Values are kept verbatim; validation happens at extraction.
type LegacyID string

// UnmarshalJSON accepts a number, a string, or null.
func (id *LegacyID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("legacy id: %w", err)
		}
		*id = LegacyID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("legacy id: %w", err)
	}
	*id = LegacyID(n.String())
	return nil
}

// MarshalJSON writes ids that are valid JSON integers as numbers, anything
// else (including digit strings with a leading zero) as a string, and the
// empty id as null.
func (id LegacyID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if id.IsDigits() && (id == "0" || id[0] != '0') {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// IsDigits reports whether id is non-empty and consists only of ASCII digits.
func (id LegacyID) IsDigits() bool {
	if id == "" {
		return false
	}
	for _, r := range string(id) {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (id LegacyID) String() string { return string(id) }

// ProfileURL returns the public profile page for legacyID under baseURL.
func ProfileURL(baseURL string, legacyID LegacyID) string {
	return strings.TrimRight(baseURL, "/") + "/professor/" + string(legacyID)
}

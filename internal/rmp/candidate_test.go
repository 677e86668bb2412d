package rmp

import (
	"encoding/json"
	"testing"
)

func TestLegacyIDAcceptsNumberStringAndNull(t *testing.T) {
	tests := []struct {
		raw  string
		want LegacyID
	}{
		{`{"legacyId":12345}`, "12345"},
		{`{"legacyId":"67890"}`, "67890"},
		{`{"legacyId":"abc"}`, "abc"},
		{`{"legacyId":null}`, ""},
		{`{}`, ""},
	}
	for _, tt := range tests {
		var c Candidate
		if err := json.Unmarshal([]byte(tt.raw), &c); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.raw, err)
		}
		if c.LegacyID != tt.want {
			t.Errorf("%s: got %q want %q", tt.raw, c.LegacyID, tt.want)
		}
	}
}

func TestLegacyIDMarshal(t *testing.T) {
	tests := []struct {
		id   LegacyID
		want string
	}{
		{"12345", `12345`},
		{"0", `0`},
		{"0123", `"0123"`},
		{"007", `"007"`},
		{"12a", `"12a"`},
		{"", `null`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.id)
		if err != nil {
			t.Fatalf("marshal %q: %v", tt.id, err)
		}
		if string(data) != tt.want {
			t.Errorf("marshal %q = %s, want %s", tt.id, data, tt.want)
		}
	}
}

func TestLegacyIDIsDigits(t *testing.T) {
	if !LegacyID("0042").IsDigits() {
		t.Fatal("expected digits")
	}
	for _, id := range []LegacyID{"", "12.5", "-1", "１２"} {
		if id.IsDigits() {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}

func TestProfileURL(t *testing.T) {
	if got := ProfileURL("https://www.ratemyprofessors.com/", "2345"); got != "https://www.ratemyprofessors.com/professor/2345" {
		t.Fatalf("unexpected profile url %q", got)
	}
}

func TestLegacyIDLeadingZeroSurvivesRoundTrip(t *testing.T) {
	in := Candidate{FirstName: "Jane", LastName: "Doe", LegacyID: "0123"}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !json.Valid(data) {
		t.Fatalf("marshal produced invalid json: %s", data)
	}
	var out Candidate
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.LegacyID != "0123" {
		t.Fatalf("expected legacy id to keep its leading zero, got %q", out.LegacyID)
	}
}

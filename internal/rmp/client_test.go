package rmp_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"profmatch/internal/rmp"
)

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := rmp.New("  "); err == nil {
		t.Fatal("expected error when endpoint missing")
	}
}

func TestSearchTeachersSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "test" || pass != "test" {
			t.Errorf("expected basic auth test:test, got %q:%q (%v)", user, pass, ok)
		}
		if got := r.Header.Get("Origin"); got != "https://ratings.example.edu" {
			t.Errorf("unexpected origin header %q", got)
		}
		if got := r.Header.Get("Referer"); got != "https://ratings.example.edu/" {
			t.Errorf("unexpected referer header %q", got)
		}
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Variables["text"] != "Doe" || req.Variables["schoolID"] != "U2Nob29sLTM2MQ==" {
			t.Errorf("unexpected variables: %v", req.Variables)
		}
		if req.Variables["first"] != float64(10) {
			t.Errorf("expected page size 10, got %v", req.Variables["first"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"newSearch":{"teachers":{"edges":[
			{"node":{"id":"VGVhY2hlci0x","firstName":"Jane","lastName":"Doe","avgRating":4.5,"avgDifficulty":2.1,"wouldTakeAgainPercent":-1,"legacyId":12345,"school":{"id":"U2Nob29sLTM2MQ=="}}},
			{"node":{"id":"VGVhY2hlci0y","firstName":"John","lastName":"Doe","avgRating":null,"avgDifficulty":null,"wouldTakeAgainPercent":null,"legacyId":67890,"school":{"id":"U2Nob29sLTM2MQ=="}}}
		]}}}}`))
	}))
	t.Cleanup(server.Close)

	client, err := rmp.New(server.URL,
		rmp.WithBasicAuth("test", "test"),
		rmp.WithOrigin("https://ratings.example.edu/"),
		rmp.WithPageSize(10),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	got, err := client.SearchTeachers(context.Background(), "Doe", "U2Nob29sLTM2MQ==")
	if err != nil {
		t.Fatalf("SearchTeachers returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].FullName() != "Jane Doe" || got[0].LegacyID != "12345" {
		t.Fatalf("unexpected first candidate: %#v", got[0])
	}
	if got[0].AvgRating == nil || *got[0].AvgRating != 4.5 {
		t.Fatalf("expected avgRating 4.5, got %v", got[0].AvgRating)
	}
	if got[1].AvgRating != nil || got[1].WouldTakeAgainPercent != nil {
		t.Fatalf("expected null ratings to stay nil, got %#v", got[1])
	}
}

func TestSearchTeachersHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`blocked`))
	}))
	t.Cleanup(server.Close)

	client, err := rmp.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.SearchTeachers(context.Background(), "Doe", "school")
	var statusErr *rmp.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusForbidden {
		t.Fatalf("expected StatusError 403, got %v", err)
	}
}

func TestSearchTeachersGraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"school not found"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := rmp.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchTeachers(context.Background(), "Doe", "bad"); err == nil {
		t.Fatal("expected error for graphql errors payload")
	}
}

func TestSearchTeachersEmptyText(t *testing.T) {
	client, err := rmp.New("https://example.com/graphql")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchTeachers(context.Background(), "  ", "school"); err == nil {
		t.Fatal("expected error for empty text")
	}
}

package rmp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const searchTeachersQuery = `query NewSearchTeachersQuery($text: String!, $schoolID: ID!, $first: Int!) {
  newSearch {
    teachers(query: {text: $text, schoolID: $schoolID}, first: $first) {
      edges {
        node {
          avgDifficulty
          avgRating
          wouldTakeAgainPercent
          id
          firstName
          lastName
          legacyId
          school {
            id
          }
        }
      }
    }
  }
}`

const (
	defaultPageSize  = 25
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
)

// Searcher defines the provider operations used by identification.
type Searcher interface {
	SearchTeachers(ctx context.Context, text, schoolID string) ([]Candidate, error)
}

// Client talks to the provider GraphQL endpoint.
type Client struct {
	endpoint   string
	origin     string
	user       string
	password   string
	pageSize   int
	userAgent  string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBasicAuth sets the credentials sent with every request.
func WithBasicAuth(user, password string) Option {
	return func(c *Client) {
		c.user = user
		c.password = password
	}
}

// WithOrigin sets the Origin and Referer headers. The provider rejects
// requests that do not look like they come from its own site.
func WithOrigin(origin string) Option {
	return func(c *Client) {
		c.origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	}
}

// WithPageSize caps the number of candidates requested per search.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// New creates a provider client for the GraphQL endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("rmp graphql endpoint required")
	}
	client := &Client{
		endpoint:   endpoint,
		pageSize:   defaultPageSize,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type searchResponse struct {
	Data struct {
		NewSearch struct {
			Teachers struct {
				Edges []struct {
					Node Candidate `json:"node"`
				} `json:"edges"`
			} `json:"teachers"`
		} `json:"newSearch"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// SearchTeachers runs the provider's teacher search for text at schoolID.
// An empty result is a nil error with zero candidates.
func (c *Client) SearchTeachers(ctx context.Context, text, schoolID string) ([]Candidate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("search text must not be empty")
	}
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return nil, errors.New("school id must not be empty")
	}

	body, err := json.Marshal(graphQLRequest{
		Query: searchTeachersQuery,
		Variables: map[string]any{
			"text":     text,
			"schoolID": schoolID,
			"first":    c.pageSize,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.decorate(req)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet)), Latency: latency}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if len(payload.Errors) > 0 {
		messages := make([]string, 0, len(payload.Errors))
		for _, e := range payload.Errors {
			messages = append(messages, e.Message)
		}
		return nil, fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}

	edges := payload.Data.NewSearch.Teachers.Edges
	candidates := make([]Candidate, 0, len(edges))
	for _, edge := range edges {
		candidates = append(candidates, edge.Node)
	}
	return candidates, nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
		req.Header.Set("Referer", c.origin+"/")
		req.Header.Set("Sec-Fetch-Site", "same-origin")
		req.Header.Set("Sec-Fetch-Mode", "cors")
	}
	if c.user != "" || c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}
}

// StatusError reports a non-200 provider response.
type StatusError struct {
	Code    int
	Body    string
	Latency time.Duration
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("rmp search returned %d (latency=%v)", e.Code, e.Latency)
	}
	return fmt.Sprintf("rmp search returned %d (latency=%v): %s", e.Code, e.Latency, e.Body)
}

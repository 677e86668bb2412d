package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"profmatch/internal/config"
)

const userAgent = "profmatch/0.1.0"

// Event identifies a notification type.
type Event string

const (
	// EventRunCompleted fires after an enrichment batch finishes.
	EventRunCompleted Event = "run_completed"
	// EventRunFailed fires when a batch aborts.
	EventRunFailed Event = "run_failed"
	// EventReviewNeeded fires when a batch leaves matches for manual review.
	EventReviewNeeded Event = "review_needed"
	// EventTest is sent by "profmatch test-notify".
	EventTest Event = "test"
)

// Payload carries event fields. Missing keys render as empty strings.
type Payload map[string]any

func (p Payload) str(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds an ntfy-backed service, or a no-op when no topic is set.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	timeout := cfg.NotifyTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, p Payload) (message, bool) {
	switch event {
	case EventRunCompleted:
		body := fmt.Sprintf("Enrichment complete: %s of %s professors updated", p.str("updated"), p.str("professors"))
		if merged := p.str("merged"); merged != "" && merged != "0" {
			body += fmt.Sprintf("\nDuplicate groups merged: %s", merged)
		}
		if d := p.str("duration"); d != "" {
			body += "\nDuration: " + d
		}
		return message{
			title: "profmatch - Run Complete",
			body:  body,
			tags:  []string{"profmatch", "enrich", "completed"},
		}, true
	case EventRunFailed:
		return message{
			title:    "profmatch - Run Failed",
			body:     fmt.Sprintf("Enrichment run %s aborted: %s", p.str("runID"), p.str("error")),
			tags:     []string{"profmatch", "error", "alert"},
			priority: "high",
		}, true
	case EventReviewNeeded:
		return message{
			title: "profmatch - Review Needed",
			body:  fmt.Sprintf("%s professors need manual review\nRun: profmatch manual export", p.str("count")),
			tags:  []string{"profmatch", "review"},
		}, true
	case EventTest:
		return message{
			title:    "profmatch - Test",
			body:     "Notification system test",
			tags:     []string{"profmatch", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }

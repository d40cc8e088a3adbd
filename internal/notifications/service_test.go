package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobflow/internal/config"
	"jobflow/internal/notifications"
	"jobflow/internal/workflow"
)

type capturedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCapture(t *testing.T) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		captured = append(captured, capturedRequest{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &captured
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRunAborted(context.Background(), "score", errors.New("boom")); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.NewService(nil).TestNotification(context.Background()); err != nil {
		t.Fatalf("nil config should yield noop, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		send           func(notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "clean run",
			send: func(s notifications.Service) error {
				return s.NotifyRunCompleted(context.Background(), workflow.Summary{Job: "score", Written: 3, Disqualified: 1, Duration: 65 * time.Second})
			},
			expectTitle:   "jobflow - score complete",
			expectMessage: "3 written, 1 disqualified in 1m5s",
			expectTags:    "jobflow,score,completed",
		},
		{
			name: "run with failures",
			send: func(s notifications.Service) error {
				return s.NotifyRunCompleted(context.Background(), workflow.Summary{Job: "archive", Written: 1, Failed: 2, Duration: 2 * time.Second})
			},
			expectTitle:    "jobflow - archive complete (with errors)",
			expectMessage:  "1 written, 0 disqualified, 2 failed in 2s",
			expectTags:     "jobflow,archive,errors",
			expectPriority: "high",
		},
		{
			name: "aborted",
			send: func(s notifications.Service) error {
				return s.NotifyRunAborted(context.Background(), "populate", errors.New("tracker is missing required columns"))
			},
			expectTitle:    "jobflow - Error",
			expectMessage:  "Run aborted for populate: tracker is missing required columns",
			expectTags:     "jobflow,error,alert",
			expectPriority: "high",
		},
		{
			name: "followups",
			send: func(s notifications.Service) error {
				return s.NotifyFollowupsDue(context.Background(), 4, "/reports/followups_2026-03-01.md")
			},
			expectTitle:   "jobflow - Follow-ups",
			expectMessage: "4 application(s) due a follow-up\nReport: /reports/followups_2026-03-01.md",
			expectTags:    "jobflow,followups",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, captured := newCapture(t)
			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeoutSeconds = 5

			if err := tc.send(notifications.NewService(&cfg)); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}
			if len(*captured) != 1 {
				t.Fatalf("expected one request, got %d", len(*captured))
			}
			got := (*captured)[0]
			if got.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, got.title)
			}
			if got.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, got.body)
			}
			if got.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, got.tags)
			}
			if got.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, got.priority)
			}
		})
	}
}

func TestNtfyServiceStaysQuietForIdleRuns(t *testing.T) {
	server, captured := newCapture(t)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	ctx := context.Background()
	if err := svc.NotifyRunCompleted(ctx, workflow.Summary{Job: "score", DryRun: true, Pending: 4}); err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if err := svc.NotifyRunCompleted(ctx, workflow.Summary{Job: "score", AlreadyDone: 9}); err != nil {
		t.Fatalf("idle run: %v", err)
	}
	if err := svc.NotifyFollowupsDue(ctx, 0, ""); err != nil {
		t.Fatalf("no followups: %v", err)
	}
	if len(*captured) != 0 {
		t.Fatalf("expected no requests, got %+v", *captured)
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	err := notifications.NewService(&cfg).TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
}

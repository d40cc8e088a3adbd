package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jobflow/internal/config"
	"jobflow/internal/workflow"
)

const userAgent = "jobflow/0.1"

// Service defines the notification surface exposed to commands.
type Service interface {
	NotifyRunCompleted(ctx context.Context, summary workflow.Summary) error
	NotifyRunAborted(ctx context.Context, job string, err error) error
	NotifyFollowupsDue(ctx context.Context, count int, reportPath string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

// NotifyRunCompleted reports a finished batch run. Dry runs and runs that
// touched no row stay silent.
func (n *ntfyService) NotifyRunCompleted(ctx context.Context, summary workflow.Summary) error {
	if summary.DryRun || summary.Written+summary.Disqualified+summary.Failed == 0 {
		return nil
	}
	duration := summary.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	title := fmt.Sprintf("jobflow - %s complete", summary.Job)
	message := fmt.Sprintf("%d written, %d disqualified in %s", summary.Written, summary.Disqualified, duration)
	tags := []string{"jobflow", summary.Job, "completed"}
	priority := ""
	if summary.Failed > 0 {
		title += " (with errors)"
		message = fmt.Sprintf("%d written, %d disqualified, %d failed in %s", summary.Written, summary.Disqualified, summary.Failed, duration)
		tags[2] = "errors"
		priority = "high"
	}
	return n.send(ctx, payload{title: title, message: message, tags: tags, priority: priority})
}

func (n *ntfyService) NotifyRunAborted(ctx context.Context, job string, err error) error {
	var builder strings.Builder
	builder.WriteString("Run aborted")
	if job = strings.TrimSpace(job); job != "" {
		builder.WriteString(" for ")
		builder.WriteString(job)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "jobflow - Error",
		message:  builder.String(),
		tags:     []string{"jobflow", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyFollowupsDue(ctx context.Context, count int, reportPath string) error {
	if count <= 0 {
		return nil
	}
	message := fmt.Sprintf("%d application(s) due a follow-up", count)
	if reportPath = strings.TrimSpace(reportPath); reportPath != "" {
		message += "\nReport: " + reportPath
	}
	return n.send(ctx, payload{
		title:   "jobflow - Follow-ups",
		message: message,
		tags:    []string{"jobflow", "followups"},
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "jobflow - Test",
		message:  "Notification system test",
		tags:     []string{"jobflow", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
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

func (noopService) NotifyRunCompleted(context.Context, workflow.Summary) error { return nil }
func (noopService) NotifyRunAborted(context.Context, string, error) error      { return nil }
func (noopService) NotifyFollowupsDue(context.Context, int, string) error      { return nil }
func (noopService) TestNotification(context.Context) error                     { return nil }

package llm

import (
	"context"
	"fmt"
	"strings"

	"jobflow/internal/recovery"
)

// CompleteStructured asks c for a response to prompt and recovers it against
// schema. When the response fails strict parsing the prompt is re-sent once
// with explicit formatting rules appended. Schema violations are returned
// immediately; reformatting does not fix missing content.
func CompleteStructured(ctx context.Context, c Completer, prompt string, schema *recovery.Schema) (recovery.Record, error) {
	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	rec, err := recovery.Recover(raw, schema)
	if err == nil || !recovery.IsRetryable(err) {
		return rec, err
	}

	raw, retryErr := c.Complete(ctx, prompt+recovery.FormattingReminder)
	if retryErr != nil {
		return nil, fmt.Errorf("retry after %v: %w", err, retryErr)
	}
	return recovery.Recover(raw, schema)
}

// CompleteText asks c for free text, dropping a surrounding code fence, and
// rejects empty responses.
func CompleteText(ctx context.Context, c Completer, prompt string) (string, error) {
	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if text := strings.TrimSpace(recovery.StripFences(raw)); text != "" {
		return text, nil
	}
	return "", recovery.ErrEmptyModelOutput
}

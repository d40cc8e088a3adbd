package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"jobflow/internal/logging"
	"jobflow/internal/services"
	"jobflow/internal/stage"
)

// Health runs the health check of every stage of job.
func Health(ctx context.Context, job Job) []stage.Health {
	checks := make([]stage.Health, 0, len(job.Steps))
	for _, step := range job.Steps {
		if step.Handler == nil {
			continue
		}
		checks = append(checks, step.Handler.HealthCheck(ctx))
	}
	return checks
}

// checkHealth validates required stages before any row is touched. Unready
// optional stages only warn since rows complete without them.
func (p *Processor) checkHealth(ctx context.Context, logger *slog.Logger, job Job) error {
	var failures []string
	for _, step := range job.Steps {
		if step.Handler == nil {
			return services.Wrap(services.ErrConfiguration, "processor", "health", "Job has a step without a handler", nil)
		}
		h := step.Handler.HealthCheck(ctx)
		if h.Ready {
			logger.Debug("stage ready",
				logging.String(logging.FieldStage, h.Name),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		if step.Optional {
			logging.WarnWithContext(logger, "optional stage not ready", "preflight_degraded",
				logging.String(logging.FieldStage, h.Name),
				logging.String("detail", h.Detail),
				logging.String(logging.FieldImpact, "stage will be skipped for every row"),
			)
			continue
		}
		logger.Error("stage not ready",
			logging.String(logging.FieldStage, h.Name),
			logging.String("detail", h.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "fix the reported issue and rerun"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", h.Name, h.Detail))
	}
	if len(failures) > 0 {
		return services.Wrap(services.ErrConfiguration, "processor", "preflight",
			"Stages not ready: "+strings.Join(failures, "; "), nil)
	}
	return nil
}

package workflow

import (
	"context"
	"log/slog"
	"time"

	"jobflow/internal/history"
	"jobflow/internal/logging"
	"jobflow/internal/services"
)

// History failures never stop a run; the tracker stays the source of truth.

func (p *Processor) beginHistory(ctx context.Context, logger *slog.Logger, s Summary, start time.Time) {
	if p.history == nil {
		return
	}
	run := history.Run{ID: s.RunID, Job: s.Job, StartedAt: start.UTC(), DryRun: s.DryRun}
	if err := p.history.BeginRun(ctx, run); err != nil {
		p.warnHistory(logger, "begin run", err)
	}
}

func (p *Processor) recordOutcome(ctx context.Context, logger *slog.Logger, runID string, item ItemResult) {
	if p.history == nil {
		return
	}
	if item.Disposition == DispositionSkipped || item.Disposition == DispositionDone {
		return
	}
	outcome := history.Outcome{
		RunID:      runID,
		Row:        item.Row,
		Identifier: item.Identifier,
		Date:       item.Date,
		Result:     string(item.Disposition),
		Reason:     item.Reason,
		RecordedAt: p.now().UTC(),
	}
	if item.Disposition == DispositionFailed {
		outcome.Reason = item.Err.Error()
		outcome.ErrorKind = services.Kind(item.Err)
	}
	if err := p.history.RecordOutcome(ctx, outcome); err != nil {
		p.warnHistory(logger, "record outcome", err)
	}
}

func (p *Processor) finishHistory(ctx context.Context, logger *slog.Logger, s Summary, start time.Time, runErr error) {
	if p.history == nil {
		return
	}
	run := history.Run{
		ID:           s.RunID,
		Job:          s.Job,
		StartedAt:    start.UTC(),
		FinishedAt:   start.Add(s.Duration).UTC(),
		DryRun:       s.DryRun,
		Written:      s.Written,
		Skipped:      s.Skipped,
		Done:         s.AlreadyDone,
		Failed:       s.Failed,
		Disqualified: s.Disqualified,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	// A cancelled run still gets its ledger entry.
	if err := p.history.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		p.warnHistory(logger, "finish run", err)
	}
}

func (p *Processor) warnHistory(logger *slog.Logger, op string, err error) {
	logging.WarnWithContext(logger, "run history unavailable", "history_error",
		logging.String("operation", op),
		logging.Error(err),
		logging.String(logging.FieldImpact, "run not recorded in history"),
	)
}

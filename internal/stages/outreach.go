package stages

import (
	"context"
	"log/slog"

	"jobflow/internal/logging"
	"jobflow/internal/stage"
)

const (
	outreachJobChars  = 30000
	outreachMaxTokens = 400
)

// Outreach drafts a short message to the hiring manager.
type Outreach struct {
	deps   Deps
	logger *slog.Logger
}

// NewOutreach constructs the outreach stage.
func NewOutreach(deps Deps) *Outreach {
	return &Outreach{deps: deps, logger: deps.logger("outreach")}
}

func (s *Outreach) Name() string { return "outreach" }

func (s *Outreach) Execute(ctx context.Context, in stage.Input) stage.Result {
	job, err := s.deps.readJobText(s.Name(), in.Dir, outreachJobChars)
	if err != nil {
		return stage.Failed(err)
	}
	resume, err := s.deps.readResume(s.Name())
	if err != nil {
		return stage.Failed(err)
	}
	summary := readOptional(in.Dir, FileCompanySummary)

	text, err := s.deps.text(ctx, s.Name(), buildOutreachPrompt(job, summary, resume), outreachMaxTokens)
	if err != nil {
		return stage.Failed(err)
	}
	logging.WithContext(ctx, s.logger).Info("outreach drafted",
		logging.String(logging.FieldEventType, "outreach_drafted"),
		logging.Bool("used_company_summary", summary != ""),
	)
	return stage.Succeeded(textArtifact(FileOutreach, text))
}

func (s *Outreach) HealthCheck(context.Context) stage.Health {
	return s.deps.resumeHealth(s.Name())
}

package stages

import (
	"context"
	"log/slog"

	"jobflow/internal/logging"
	"jobflow/internal/stage"
	"jobflow/internal/textutil"
)

const (
	coverLetterJobChars  = 30000
	coverLetterMaxTokens = 900
)

// CoverLetterName is the file name of the named letter copy, built from the
// company and role titles.
func CoverLetterName(company, role string) string {
	if role == "" {
		role = "Role"
	}
	name := textutil.CamelCase(company) + "_" + textutil.CamelCase(role) + "_CoverLetter.txt"
	return textutil.SanitizeFileName(name, "CoverLetter.txt")
}

// CoverLetter drafts a plain-text cover letter.
type CoverLetter struct {
	deps   Deps
	logger *slog.Logger
}

// NewCoverLetter constructs the cover letter stage.
func NewCoverLetter(deps Deps) *CoverLetter {
	return &CoverLetter{deps: deps, logger: deps.logger("coverletter")}
}

func (s *CoverLetter) Name() string { return "coverletter" }

func (s *CoverLetter) Execute(ctx context.Context, in stage.Input) stage.Result {
	job, err := s.deps.readJobText(s.Name(), in.Dir, coverLetterJobChars)
	if err != nil {
		return stage.Failed(err)
	}
	resume, err := s.deps.readResume(s.Name())
	if err != nil {
		return stage.Failed(err)
	}
	url := readOptional(in.Dir, FileURL)
	if url == "" {
		url = in.Field(s.deps.Config.Tracker.PostingLinkColumn)
	}

	text, err := s.deps.text(ctx, s.Name(), buildCoverLetterPrompt(url, job, resume), coverLetterMaxTokens)
	if err != nil {
		return stage.Failed(err)
	}
	named := CoverLetterName(in.Item.Key.Identifier, in.Field(s.deps.Config.Tracker.RoleTitleColumn))
	logging.WithContext(ctx, s.logger).Info("cover letter drafted",
		logging.String(logging.FieldEventType, "cover_letter_drafted"),
		logging.String("file", named),
	)
	return stage.Succeeded(textArtifact(FileCoverLetter, text), textArtifact(named, text))
}

func (s *CoverLetter) HealthCheck(context.Context) stage.Health {
	return s.deps.resumeHealth(s.Name())
}

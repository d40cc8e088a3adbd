package stages

import (
	"context"
	"log/slog"
	"strings"

	"jobflow/internal/fetch"
	"jobflow/internal/logging"
	"jobflow/internal/services"
	"jobflow/internal/stage"
	"jobflow/internal/textutil"
)

const (
	companySnippetChars = 20000
	companyMaxTokens    = 64
	unknownValue        = "Unknown"
)

// Archive fetches a posting and stores its HTML and cleaned text. When the
// row has no company yet it asks the model to name the hiring company.
type Archive struct {
	deps   Deps
	logger *slog.Logger
}

// NewArchive constructs the archive stage.
func NewArchive(deps Deps) *Archive {
	return &Archive{deps: deps, logger: deps.logger("archive")}
}

func (s *Archive) Name() string { return "archive" }

func (s *Archive) Execute(ctx context.Context, in stage.Input) stage.Result {
	logger := logging.WithContext(ctx, s.logger)
	tracker := s.deps.Config.Tracker

	url := in.Field(tracker.PostingLinkColumn)
	if url == "" {
		return stage.Failed(services.Wrap(services.ErrNotFound, s.Name(), "read posting link",
			"Row has no posting link", nil))
	}
	if s.deps.Fetcher == nil {
		return stage.Failed(services.Wrap(services.ErrConfiguration, s.Name(), "fetch", "No fetcher configured", nil))
	}

	page, err := s.deps.Fetcher.Fetch(ctx, url)
	if err != nil {
		return stage.Failed(err)
	}
	if gone, reason := fetch.Unavailable(page, s.deps.Config.Fetch.MinTextChars); gone {
		logger.Info("posting unavailable",
			logging.String(logging.FieldEventType, "posting_unavailable"),
			logging.String("url", url),
			logging.String("reason", reason),
		)
		return stage.Disqualified("posting unavailable: "+reason, SentinelUnavailable)
	}

	artifacts := []stage.Artifact{
		textArtifact(FileURL, url),
		{Name: FileRawHTML, Data: []byte(page.HTML)},
		textArtifact(FileJobText, page.Text),
	}
	if page.Markdown != "" {
		artifacts = append(artifacts, textArtifact(FileJobMarkdown, page.Markdown))
	}
	result := stage.Succeeded(artifacts...)

	if in.Item.Key.Identifier == "" {
		company, err := s.inferCompany(ctx, page.Text)
		if err != nil {
			return stage.Failed(err)
		}
		logger.Info("company inferred",
			logging.String(logging.FieldEventType, "company_inferred"),
			logging.String("company", company),
		)
		result = result.WithWrite(tracker.CompanyColumn, company)
	}

	logger.Info("posting archived",
		logging.String(logging.FieldEventType, "posting_archived"),
		logging.String("title", page.Title),
		logging.Int("text_chars", len(page.Text)),
	)
	return result
}

func (s *Archive) inferCompany(ctx context.Context, text string) (string, error) {
	prompt := buildCompanyPrompt(textutil.Truncate(text, companySnippetChars))
	answer, err := s.deps.text(ctx, s.Name(), prompt, companyMaxTokens)
	if err != nil {
		return "", err
	}
	company := cleanCompanyName(answer)
	if company == "" || strings.EqualFold(company, unknownValue) {
		return "", services.Wrap(services.ErrValidation, s.Name(), "infer company",
			"Model could not name the hiring company; fill the company cell by hand", nil)
	}
	return company, nil
}

// cleanCompanyName keeps the first line of a model answer without quotes or
// trailing punctuation.
func cleanCompanyName(answer string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(answer), "\n")
	line = strings.Trim(strings.TrimSpace(line), "\"'`*")
	return strings.TrimRight(line, ".")
}

func (s *Archive) HealthCheck(ctx context.Context) stage.Health {
	if s.deps.Fetcher == nil {
		return stage.Unhealthy(s.Name(), "fetcher not configured")
	}
	return stage.Healthy(s.Name())
}


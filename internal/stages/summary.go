package stages

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"jobflow/internal/logging"
	"jobflow/internal/services"
	"jobflow/internal/stage"
	"jobflow/internal/textutil"
)

const (
	sourceTextChars  = 6000
	summaryMaxTokens  = 800
	sourceSeparator  = "\n\n---\n\n"
)

// ParseSources returns the URLs listed in a sources file, skipping blank
// lines and # comments.
func ParseSources(content string) []string {
	var urls []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}

// Summary condenses the pages listed in sources.txt into a company brief.
type Summary struct {
	deps   Deps
	logger *slog.Logger
}

// NewSummary constructs the company summary stage.
func NewSummary(deps Deps) *Summary {
	return &Summary{deps: deps, logger: deps.logger("summary")}
}

func (s *Summary) Name() string { return "summary" }

func (s *Summary) Execute(ctx context.Context, in stage.Input) stage.Result {
	logger := logging.WithContext(ctx, s.logger)
	content, err := readInput(s.Name(), in.Dir, FileSources)
	if err != nil {
		return stage.Failed(err)
	}
	urls := ParseSources(content)
	if len(urls) == 0 {
		return stage.Failed(services.Wrap(services.ErrNotFound, s.Name(), "read sources",
			fmt.Sprintf("%s lists no URLs", FileSources), nil))
	}
	if s.deps.Fetcher == nil {
		return stage.Failed(services.Wrap(services.ErrConfiguration, s.Name(), "fetch", "No fetcher configured", nil))
	}

	blocks := make([]string, 0, len(urls))
	for _, url := range urls {
		page, err := s.deps.Fetcher.Fetch(ctx, url)
		if err == nil && page.Status >= 400 {
			err = fmt.Errorf("http status %d", page.Status)
		}
		if err != nil {
			logging.WarnWithContext(logger, "source fetch failed", "source_fetch_failed",
				logging.String("url", url),
				logging.Error(err),
				logging.String(logging.FieldImpact, "source left out of the summary"),
			)
			continue
		}
		text := textutil.Truncate(page.Text, sourceTextChars)
		blocks = append(blocks, fmt.Sprintf("SOURCE URL: %s\nSOURCE TEXT:\n%s", url, text))
	}
	if len(blocks) == 0 {
		return stage.Failed(services.Wrap(services.ErrExternalTool, s.Name(), "fetch sources",
			"No source could be fetched", nil))
	}

	text, err := s.deps.text(ctx, s.Name(), buildSummaryPrompt(strings.Join(blocks, sourceSeparator)), summaryMaxTokens)
	if err != nil {
		return stage.Failed(err)
	}
	logger.Info("company summarized",
		logging.String(logging.FieldEventType, "company_summarized"),
		logging.Int("sources", len(blocks)),
	)
	return stage.Succeeded(textArtifact(FileCompanySummary, text))
}

func (s *Summary) HealthCheck(context.Context) stage.Health {
	if s.deps.Fetcher == nil {
		return stage.Unhealthy(s.Name(), "fetcher not configured")
	}
	return s.deps.llmHealth(s.Name())
}

package stages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"jobflow/internal/config"
	"jobflow/internal/fetch"
	"jobflow/internal/llm"
	"jobflow/internal/logging"
	"jobflow/internal/queue"
	"jobflow/internal/recovery"
	"jobflow/internal/services"
	"jobflow/internal/stage"
	"jobflow/internal/textutil"
)

// Artifact and input file names inside a work item directory.
const (
	FileURL            = "url.txt"
	FileRawHTML        = "raw.html"
	FileJobText        = "job.txt"
	FileJobMarkdown    = "job.md"
	FileMetadata       = "metadata.json"
	FileFitScore       = "fit_score.json"
	FileFit            = "fit.json"
	FileSkills         = "skills_recommendations.json"
	FileBullets        = "resume_bullets.json"
	FileSources        = "sources.txt"
	FileCompanySummary = "company_summary.md"
	FileOutreach       = "hm_outreach.txt"
	FileCoverLetter    = "cover_letter.md"
)

// Status sentinels recorded for disqualified rows.
const (
	SentinelClearance   = "N/A (clearance)"
	SentinelUnavailable = "N/A (posting unavailable)"
)

// Deps bundles the collaborators shared by every stage.
type Deps struct {
	Config  *config.Config
	LLM     llm.Completer
	Fetcher fetch.Fetcher
	Logger  *slog.Logger
}

func (d Deps) logger(component string) *slog.Logger {
	return logging.NewComponentLogger(d.Logger, component)
}

func (d Deps) maxJobChars() int {
	if d.Config != nil && d.Config.LLM.MaxJobChars > 0 {
		return d.Config.LLM.MaxJobChars
	}
	return 50000
}

func (d Deps) maxResumeChars() int {
	if d.Config != nil && d.Config.LLM.MaxResumeChars > 0 {
		return d.Config.LLM.MaxResumeChars
	}
	return 20000
}

// llmHealth reports whether a model client is wired and has credentials.
func (d Deps) llmHealth(name string) stage.Health {
	if d.LLM == nil {
		return stage.Unhealthy(name, "llm client not configured")
	}
	if c, ok := d.LLM.(interface{ Configured() bool }); ok && !c.Configured() {
		return stage.Unhealthy(name, "llm api key missing")
	}
	return stage.Healthy(name)
}

// resumeHealth extends llmHealth with a readable resume file.
func (d Deps) resumeHealth(name string) stage.Health {
	if h := d.llmHealth(name); !h.Ready {
		return h
	}
	if d.Config == nil || d.Config.Paths.ResumePath == "" {
		return stage.Unhealthy(name, "resume_path not configured")
	}
	if _, err := os.Stat(d.Config.Paths.ResumePath); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("resume not readable at %s", d.Config.Paths.ResumePath))
	}
	return stage.Healthy(name)
}

func (d Deps) readResume(name string) (string, error) {
	if d.Config == nil || d.Config.Paths.ResumePath == "" {
		return "", services.Wrap(services.ErrConfiguration, name, "read resume", "resume_path is not configured", nil)
	}
	data, err := os.ReadFile(d.Config.Paths.ResumePath)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, name, "read resume",
			fmt.Sprintf("Resume not readable at %s", d.Config.Paths.ResumePath), err)
	}
	return textutil.Truncate(string(data), d.maxResumeChars()), nil
}

// readInput loads a required file from the item directory.
func readInput(name, dir, file string) (string, error) {
	if dir == "" {
		return "", services.Wrap(services.ErrNotFound, name, "read "+file, "Item directory unknown",
			fmt.Errorf("%w: %s", queue.ErrMissingPrecondition, file))
	}
	data, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		if os.IsNotExist(err) {
			return "", services.Wrap(services.ErrNotFound, name, "read "+file,
				fmt.Sprintf("No %s in %s", file, dir), fmt.Errorf("%w: %s", queue.ErrMissingPrecondition, file))
		}
		return "", services.Wrap(services.ErrExternalTool, name, "read "+file, "Unable to read input", err)
	}
	return string(data), nil
}

// readOptional returns the file contents, or "" when it is absent.
func readOptional(dir, file string) string {
	if dir == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (d Deps) readJobText(name, dir string, limit int) (string, error) {
	text, err := readInput(name, dir, FileJobText)
	if err != nil {
		return "", err
	}
	if limit <= 0 {
		limit = d.maxJobChars()
	}
	return textutil.Truncate(text, limit), nil
}

// structured runs a schema-bound completion and classifies failures.
func (d Deps) structured(ctx context.Context, name, prompt string, schema *recovery.Schema, maxTokens int) (recovery.Record, error) {
	if d.LLM == nil {
		return nil, services.Wrap(services.ErrConfiguration, name, "complete", "LLM client not configured", nil)
	}
	rec, err := llm.CompleteStructured(llm.WithMaxTokens(ctx, maxTokens), d.LLM, prompt, schema)
	if err != nil {
		return nil, classifyModelError(name, err)
	}
	return rec, nil
}

func (d Deps) text(ctx context.Context, name, prompt string, maxTokens int) (string, error) {
	if d.LLM == nil {
		return "", services.Wrap(services.ErrConfiguration, name, "complete", "LLM client not configured", nil)
	}
	out, err := llm.CompleteText(llm.WithMaxTokens(ctx, maxTokens), d.LLM, prompt)
	if err != nil {
		return "", classifyModelError(name, err)
	}
	return out, nil
}

func classifyModelError(name string, err error) error {
	switch {
	case recovery.IsRetryable(err):
		return services.Wrap(services.ErrValidation, name, "recover output", "Model output was not valid JSON after one retry", err)
	case isRecoveryError(err):
		return services.Wrap(services.ErrValidation, name, "recover output", "Model output did not match the expected shape", err)
	default:
		return services.Wrap(services.ErrExternalTool, name, "complete", "Model request failed", err)
	}
}

func isRecoveryError(err error) bool {
	for _, target := range []error{recovery.ErrEmptyModelOutput, recovery.ErrNoStructureFound, recovery.ErrSchemaViolation} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func jsonArtifact(name string, rec recovery.Record) (stage.Artifact, error) {
	data, err := rec.MarshalIndent()
	if err != nil {
		return stage.Artifact{}, fmt.Errorf("encode %s: %w", name, err)
	}
	return stage.Artifact{Name: name, Data: data}, nil
}

func textArtifact(name, text string) stage.Artifact {
	return stage.Artifact{Name: name, Data: []byte(strings.TrimSpace(text) + "\n")}
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"jobflow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It uses the in-memory friendly xlsx backend settings and a fake model key,
// and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.ReportsDir = filepath.Join(base, "reports")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ResumePath = filepath.Join(base, "resume.txt")
	cfgVal.Sheet.Backend = "xlsx"
	cfgVal.Sheet.XLSXPath = filepath.Join(base, "tracker.xlsx")
	cfgVal.LLM.APIKey = "test"
	cfgVal.LLM.RequestsPerMinute = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLLMKey sets the model API key on the test config.
func WithLLMKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = key
	}
}

// WithResume writes text to the configured resume path.
func WithResume(text string) ConfigOption {
	return func(b *configBuilder) {
		if err := os.WriteFile(b.cfg.Paths.ResumePath, []byte(text), 0o644); err != nil {
			b.t.Fatalf("write resume: %v", err)
		}
	}
}

// WithFollowupDays overrides the follow-up threshold.
func WithFollowupDays(days int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tracker.FollowupDays = days
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

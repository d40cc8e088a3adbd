package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"jobflow/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"LLM_API_KEY", "SHEET_ID", "WORKSHEET_NAME", "GOOGLE_SA_JSON"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaultConfigUsesEnvAndExpandsPaths(t *testing.T) {
	clearEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("SHEET_ID", "sheet-123")
	t.Setenv("WORKSHEET_NAME", "Applications")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "jobflow", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) || filepath.Base(cfg.Paths.DataDir) != "data" {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.ReportsDir != cfg.Paths.DataDir {
		t.Fatalf("reports dir should default to data dir, got %q", cfg.Paths.ReportsDir)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Fatalf("expected LLM key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.Sheet.SpreadsheetID != "sheet-123" || cfg.Sheet.Worksheet != "Applications" {
		t.Fatalf("unexpected sheet settings: %+v", cfg.Sheet)
	}
	if cfg.Tracker.DateAppliedColumn != "date applied" {
		t.Fatalf("unexpected date column: %q", cfg.Tracker.DateAppliedColumn)
	}
	if cfg.Tracker.FollowupDays != 10 {
		t.Fatalf("unexpected followup days: %d", cfg.Tracker.FollowupDays)
	}
}

func TestLoadReadsDotEnvNextToConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"debug\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LLM_API_KEY=from-dotenv\nSHEET_ID=dotenv-sheet\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("LLM_API_KEY")
		os.Unsetenv("SHEET_ID")
	})

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config to exist")
	}
	if cfg.LLM.APIKey != "from-dotenv" {
		t.Fatalf("expected key from .env, got %q", cfg.LLM.APIKey)
	}
	if cfg.Sheet.SpreadsheetID != "dotenv-sheet" {
		t.Fatalf("expected sheet id from .env, got %q", cfg.Sheet.SpreadsheetID)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug level, got %q", cfg.Logging.Level)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	clearEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
data_dir = "~/jobs"
log_dir = "~/logs"

[sheet]
backend = "XLSX"
xlsx_path = "~/tracker.xlsx"

[tracker]
company_column = "  Employer "

[llm]
api_key = "abc"
model = "custom/model"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "jobs") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Sheet.Backend != "xlsx" {
		t.Fatalf("expected backend normalized to xlsx, got %q", cfg.Sheet.Backend)
	}
	if cfg.Sheet.XLSXPath != filepath.Join(tempHome, "tracker.xlsx") {
		t.Fatalf("unexpected xlsx path: %q", cfg.Sheet.XLSXPath)
	}
	if cfg.Tracker.CompanyColumn != "Employer" {
		t.Fatalf("expected trimmed column name, got %q", cfg.Tracker.CompanyColumn)
	}
	if cfg.Tracker.FitScoreColumn != "initial fit score" {
		t.Fatalf("expected default fit score column, got %q", cfg.Tracker.FitScoreColumn)
	}
	if cfg.LLM.Model != "custom/model" || cfg.LLM.MaxTokens != 2048 {
		t.Fatalf("unexpected llm settings: %+v", cfg.LLM)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"backend", func(c *config.Config) { c.Sheet.Backend = "csv" }, "sheet.backend"},
		{"xlsx path", func(c *config.Config) { c.Sheet.Backend = "xlsx" }, "sheet.xlsx_path"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"rate", func(c *config.Config) { c.LLM.RequestsPerMinute = -1 }, "llm.requests_per_minute"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateTrackerAccess(t *testing.T) {
	cfg := config.Default()
	if err := cfg.ValidateTrackerAccess(); err == nil || !strings.Contains(err.Error(), "spreadsheet_id") {
		t.Fatalf("expected spreadsheet id error, got %v", err)
	}
	cfg.Sheet.SpreadsheetID = "id"
	cfg.Sheet.Worksheet = "Sheet1"
	cfg.Sheet.CredentialsFile = "/tmp/sa.json"
	if err := cfg.ValidateTrackerAccess(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg = config.Default()
	cfg.Sheet.Backend = "xlsx"
	if err := cfg.ValidateTrackerAccess(); err != nil {
		t.Fatalf("xlsx backend needs no google settings: %v", err)
	}
}

func TestRequireLLM(t *testing.T) {
	cfg := config.Default()
	if err := cfg.RequireLLM(); err == nil || !strings.Contains(err.Error(), "LLM_API_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}
	cfg.LLM.APIKey = "k"
	if err := cfg.RequireLLM(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateSampleProducesValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.Tracker.DateAppliedColumn != "date applied" {
		t.Fatalf("unexpected sample date column: %q", decoded.Tracker.DateAppliedColumn)
	}
}

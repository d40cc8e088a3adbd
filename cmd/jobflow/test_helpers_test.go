package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"jobflow/internal/config"
	"jobflow/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	tracker    string
	modelCalls *atomic.Int32
}

// setupCLITestEnv writes a config file pointing at temp directories, an xlsx
// tracker holding rows, and a fake model endpoint that answers every prompt
// with modelReply.
func setupCLITestEnv(t *testing.T, modelReply string, rows ...[]string) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("LLM_API_KEY", "")
	t.Chdir(t.TempDir())

	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		payload := map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": modelReply}}},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithResume("Go engineer. Distributed systems."))
	cfg.LLM.BaseURL = server.URL
	testsupport.WriteWorkbook(t, cfg.Sheet.XLSXPath, rows...)

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	previous := now
	now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = previous })

	return &cliTestEnv{cfg: cfg, configPath: configPath, tracker: cfg.Sheet.XLSXPath, modelCalls: calls}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args, configPath, stdin)
}

func runCLIContext(t *testing.T, ctx context.Context, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
reports_dir = %q
log_dir = %q
resume_path = %q

[sheet]
backend = "xlsx"
xlsx_path = %q

[llm]
api_key = "test"
base_url = %q
requests_per_minute = 0

[logging]
level = "error"
`,
		cfg.Paths.DataDir,
		cfg.Paths.ReportsDir,
		cfg.Paths.LogDir,
		cfg.Paths.ResumePath,
		cfg.Sheet.XLSXPath,
		cfg.LLM.BaseURL,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireExitCode(t *testing.T, err error, want int) {
	t.Helper()
	var exit *exitError
	if !errors.As(err, &exit) {
		t.Fatalf("expected exit code %d, got error %v", want, err)
	}
	if exit.code != want {
		t.Fatalf("unexpected exit code: got %d want %d (%v)", exit.code, want, exit.err)
	}
}

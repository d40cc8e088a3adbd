package preflight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobflow/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFileReadable(t *testing.T) {
	f := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(f, []byte("resume"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckFileReadable("Resume", f); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	if r := CheckFileReadable("Resume", filepath.Dir(f)); r.Passed {
		t.Fatal("directory must not pass as a file")
	}
	if r := CheckFileReadable("Resume", ""); r.Passed || r.Detail != "not configured" {
		t.Fatalf("unexpected result for empty path: %+v", r)
	}
}

func TestCheckLLM_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "OK"}}},
		})
	}))
	defer srv.Close()

	cfg := config.Default().LLM
	cfg.APIKey = "good-key"
	cfg.BaseURL = srv.URL
	if result := CheckLLM(context.Background(), "Model", cfg); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}

	cfg.APIKey = "bad-key"
	if result := CheckLLM(context.Background(), "Model", cfg); result.Passed {
		t.Fatal("expected failure for rejected key")
	}
}

func TestCheckLLM_MissingKey(t *testing.T) {
	result := CheckLLM(context.Background(), "Model", config.Default().LLM)
	if result.Passed || result.Detail != "API key missing" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_XLSXConfig(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = base
	cfg.Paths.ReportsDir = base
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.ResumePath = filepath.Join(base, "resume.txt")
	cfg.Sheet.Backend = "xlsx"
	cfg.Sheet.XLSXPath = filepath.Join(base, "tracker.xlsx")
	if err := os.WriteFile(cfg.Paths.ResumePath, []byte("resume"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("expected data, log, resume, and workbook checks, got %+v", results)
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Tracker workbook" {
		t.Fatalf("expected only the missing workbook to fail, got %+v", failed)
	}
}

func TestRunAll_GoogleSettingsMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.ReportsDir = cfg.Paths.DataDir
	cfg.Paths.LogDir = t.TempDir()

	results := RunAll(context.Background(), &cfg)
	last := results[len(results)-1]
	if last.Name != "Tracker" || last.Passed || !strings.Contains(last.Detail, "spreadsheet_id") {
		t.Fatalf("unexpected tracker result %+v", last)
	}
}

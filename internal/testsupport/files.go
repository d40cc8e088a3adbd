package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"jobflow/internal/config"
	"jobflow/internal/queue"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ItemDir returns the storage location of a company and normalized date under
// the configured data directory.
func ItemDir(t testing.TB, cfg *config.Config, company, date string) string {
	t.Helper()

	dir, err := queue.Locate(cfg.Paths.DataDir, queue.Key{Identifier: company, Date: date})
	if err != nil {
		t.Fatalf("locate %s %s: %v", company, date, err)
	}
	return dir
}

// WriteItemFile writes name into the item directory of company and date and
// returns its path.
func WriteItemFile(t testing.TB, cfg *config.Config, company, date, name, content string) string {
	t.Helper()

	path := filepath.Join(ItemDir(t, cfg, company, date), name)
	WriteFile(t, path, content)
	return path
}

// ReadFile returns the contents of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

package testsupport

import (
	"path/filepath"
	"testing"

	"jobflow/internal/config"
	"jobflow/internal/history"
	"jobflow/internal/sheet"
)

// TrackerHeader is the default tracker header row.
var TrackerHeader = []string{
	"Company",
	"Date Applied",
	"Posting Link",
	"archived_at",
	"Initial Fit Score",
	"Role Title",
	"Company Type",
	"Company Size Bucket",
	"Role Focus",
	"Role Level",
	"Status",
	"Date of Outcome",
}

// Row builds a tracker row under TrackerHeader from a column to value map.
// Column names are matched case-insensitively.
func Row(values map[string]string) []string {
	header := sheet.NewHeader(TrackerHeader)
	row := make([]string, len(TrackerHeader))
	for name, value := range values {
		if idx, ok := header.Index(name); ok {
			row[idx] = value
		}
	}
	return row
}

// NewTracker returns an in-memory tracker with TrackerHeader and rows.
func NewTracker(rows ...[]string) *sheet.MemoryStore {
	grid := sheet.Grid{TrackerHeader}
	grid = append(grid, rows...)
	return sheet.NewMemoryStore(grid)
}

// Cell reads a cell of store by 1-based row and column name.
func Cell(t testing.TB, store *sheet.MemoryStore, row int, column string) string {
	t.Helper()

	idx, ok := sheet.NewHeader(TrackerHeader).Index(column)
	if !ok {
		t.Fatalf("unknown column %q", column)
	}
	return store.Cell(row, idx)
}

// MustOpenHistory opens a history store under the config log dir and
// registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(filepath.Join(cfg.Paths.LogDir, "history.db"))
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

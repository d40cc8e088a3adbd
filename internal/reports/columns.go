package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jobflow/internal/config"
	"jobflow/internal/fileutil"
	"jobflow/internal/textutil"
)

// Columns names the tracker headers reports read.
type Columns struct {
	Company     string
	RoleTitle   string
	DateApplied string
	PostingLink string
	ArchivedAt  string
	Status      string
	OutcomeDate string
}

// ColumnsFromConfig maps tracker configuration onto report columns.
func ColumnsFromConfig(t config.Tracker) Columns {
	return Columns{
		Company:     t.CompanyColumn,
		RoleTitle:   t.RoleTitleColumn,
		DateApplied: t.DateAppliedColumn,
		PostingLink: t.PostingLinkColumn,
		ArchivedAt:  t.ArchivedAtColumn,
		Status:      t.StatusColumn,
		OutcomeDate: t.OutcomeDateColumn,
	}
}

// DatedName returns "<prefix>_<YYYY-MM-DD>.<ext>".
func DatedName(prefix string, day time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, day.Format(textutil.DateLayout), ext)
}

// Save writes content into dir under name and returns the path.
func Save(dir, name string, content []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := fileutil.WriteFileAtomic(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", name, err)
	}
	return path, nil
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"

	"jobflow/internal/sheet"
	"jobflow/internal/textutil"
)

// IndexFileName is the job index written under the reports directory.
const IndexFileName = "job_index.csv"

var indexHeader = []string{"job_id", "company", "role_title", "posting_link", "archived_at", "archive_path"}

// IndexEntry is one row of the job index.
type IndexEntry struct {
	JobID       string
	Company     string
	RoleTitle   string
	PostingLink string
	ArchivedAt  string
	// ArchivePath is set only for archived rows with a company.
	ArchivePath string
}

// Index lists every row with a posting link. The posting link doubles as the
// job id.
func Index(grid sheet.Grid, cols Columns, dataDir string) []IndexEntry {
	var out []IndexEntry
	for _, row := range grid.Rows() {
		link := row.Get(cols.PostingLink)
		if link == "" {
			continue
		}
		entry := IndexEntry{
			JobID:       link,
			Company:     row.Get(cols.Company),
			RoleTitle:   row.Get(cols.RoleTitle),
			PostingLink: link,
			ArchivedAt:  row.Get(cols.ArchivedAt),
		}
		if day := textutil.DatePart(entry.ArchivedAt); day != "" {
			if slug := textutil.Slugify(entry.Company); slug != "" {
				entry.ArchivePath = filepath.Join(dataDir, slug, day)
			}
		}
		out = append(out, entry)
	}
	return out
}

// WriteIndexCSV writes entries with a header row.
func WriteIndexCSV(w io.Writer, entries []IndexEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(indexHeader); err != nil {
		return fmt.Errorf("write index header: %w", err)
	}
	for _, e := range entries {
		record := []string{e.JobID, e.Company, e.RoleTitle, e.PostingLink, e.ArchivedAt, e.ArchivePath}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write index row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

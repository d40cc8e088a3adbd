package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"jobflow/internal/queue"
	"jobflow/internal/sheet"
	"jobflow/internal/textutil"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Orphan is a storage directory with no tracker row.
type Orphan struct {
	Path string
	// Rel is Path relative to the data directory.
	Rel string
	// Company is set for company directories left without dated folders.
	Company bool
}

// Orphans lists <dataDir>/<slug>/<date> folders whose key matches no tracker
// row, followed by company folders that would be left without any dated
// folder once those are removed. A missing data directory has no orphans.
func Orphans(grid sheet.Grid, cols Columns, dataDir string) ([]Orphan, error) {
	keep := make(map[string]bool)
	for _, row := range grid.Rows() {
		company := row.Get(cols.Company)
		date, ok := textutil.NormalizeDate(row.Get(cols.DateApplied))
		if company == "" || !ok {
			continue
		}
		keep[filepath.Join(queue.Key{Identifier: company}.Slug(), date)] = true
	}

	companies, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data directory: %w", err)
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].Name() < companies[j].Name() })

	var dated, empty []Orphan
	for _, company := range companies {
		if !company.IsDir() || strings.HasPrefix(company.Name(), ".") {
			continue
		}
		companyPath := filepath.Join(dataDir, company.Name())
		entries, err := os.ReadDir(companyPath)
		if err != nil {
			continue
		}
		kept := 0
		for _, entry := range entries {
			if !entry.IsDir() || !datePattern.MatchString(entry.Name()) {
				continue
			}
			rel := filepath.Join(company.Name(), entry.Name())
			if keep[rel] {
				kept++
				continue
			}
			dated = append(dated, Orphan{Path: filepath.Join(companyPath, entry.Name()), Rel: rel})
		}
		if kept == 0 {
			empty = append(empty, Orphan{Path: companyPath, Rel: company.Name(), Company: true})
		}
	}
	return append(dated, empty...), nil
}

// RemoveOrphans deletes each orphan folder and returns how many were removed.
func RemoveOrphans(orphans []Orphan) (int, error) {
	removed := 0
	for _, o := range orphans {
		if err := os.RemoveAll(o.Path); err != nil {
			return removed, fmt.Errorf("remove %s: %w", o.Rel, err)
		}
		removed++
	}
	return removed, nil
}

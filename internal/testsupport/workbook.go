package testsupport

import (
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"jobflow/internal/sheet"
)

// WriteWorkbook saves a tracker workbook at path with TrackerHeader and rows
// on its first worksheet.
func WriteWorkbook(t testing.TB, path string, rows ...[]string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheetName := f.GetSheetName(0)
	grid := append([][]string{TrackerHeader}, rows...)
	for r, row := range grid {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs %s: %v", path, err)
	}
}

// WorkbookCell reads the named column of a 1-based row from the workbook at
// path.
func WorkbookCell(t testing.TB, path string, row int, column string) string {
	t.Helper()

	store, err := sheet.OpenXLSX(path, "")
	if err != nil {
		t.Fatalf("OpenXLSX: %v", err)
	}
	defer store.Close()
	grid, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	for _, r := range grid.Rows() {
		if r.Number == row {
			return r.Get(column)
		}
	}
	return ""
}

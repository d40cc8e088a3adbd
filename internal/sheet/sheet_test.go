package sheet_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"jobflow/internal/sheet"
)

func sampleGrid() sheet.Grid {
	return sheet.Grid{
		{" Company ", "DATE APPLIED", "posting   link", "archived_at"},
		{"Acme", "2026-02-04", "https://example.com/a"},
		{"Globex", "2/5/26", "https://example.com/b", "2026-02-06T10:00:00"},
	}
}

func TestHeaderLookupIgnoresCaseAndSpacing(t *testing.T) {
	header := sampleGrid().Header()
	for name, want := range map[string]int{"company": 0, "Date Applied": 1, "posting link": 2} {
		got, ok := header.Index(name)
		if !ok || got != want {
			t.Fatalf("Index(%q) = %d,%v want %d", name, got, ok, want)
		}
	}
}

func TestHeaderRequireListsMissingColumns(t *testing.T) {
	err := sampleGrid().Header().Require("company", "role title", "status")
	var missing *sheet.MissingColumnError
	if !errors.As(err, &missing) || !errors.Is(err, sheet.ErrMissingColumn) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if !reflect.DeepEqual(missing.Missing, []string{"role title", "status"}) {
		t.Fatalf("unexpected missing columns %v", missing.Missing)
	}
	if err := sampleGrid().Header().Require("company", "archived_at"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRowsToleratesShortRows(t *testing.T) {
	rows := sampleGrid().Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Number != 2 || rows[1].Number != 3 {
		t.Fatalf("unexpected row numbers %d %d", rows[0].Number, rows[1].Number)
	}
	if rows[0].Get("archived_at") != "" {
		t.Fatal("short row should read empty")
	}
	if rows[1].Get("ARCHIVED_AT") != "2026-02-06T10:00:00" {
		t.Fatalf("unexpected value %q", rows[1].Get("archived_at"))
	}
	if rows[0].Get("unknown") != "" {
		t.Fatal("unknown column should read empty")
	}
	fields := rows[0].Fields()
	if fields["company"] != "Acme" || fields["archived_at"] != "" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestEmptyGridHasNoRows(t *testing.T) {
	if rows := (sheet.Grid{}).Rows(); rows != nil {
		t.Fatalf("expected no rows, got %v", rows)
	}
	if rows := (sheet.Grid{{"company"}}).Rows(); rows != nil {
		t.Fatalf("expected no rows for header-only grid, got %v", rows)
	}
}

func TestMemoryStoreUpdatesAndRecordsWrites(t *testing.T) {
	ctx := context.Background()
	store := sheet.NewMemoryStore(sampleGrid())
	header := sampleGrid().Header()

	if err := sheet.SetCell(ctx, store, header, 2, "archived_at", "2026-02-07T09:00:00"); err != nil {
		t.Fatalf("SetCell returned error: %v", err)
	}
	grid, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if grid.Rows()[0].Get("archived_at") != "2026-02-07T09:00:00" {
		t.Fatalf("write not visible in snapshot: %v", grid)
	}
	if got := store.Writes(); len(got) != 1 || got[0].Row != 2 || got[0].Col != 3 {
		t.Fatalf("unexpected writes %v", got)
	}

	grid[1][0] = "mutated"
	if store.Cell(2, 0) != "Acme" {
		t.Fatal("snapshot must be a copy")
	}

	if err := sheet.SetCell(ctx, store, header, 2, "status", "x"); !errors.Is(err, sheet.ErrMissingColumn) {
		t.Fatalf("expected missing column, got %v", err)
	}
}

func TestMemoryStoreFailUpdates(t *testing.T) {
	store := sheet.NewMemoryStore(sampleGrid())
	store.FailUpdates = errors.New("quota exceeded")
	if err := store.UpdateCell(context.Background(), 2, 0, "x"); err == nil {
		t.Fatal("expected injected failure")
	}
	if len(store.Writes()) != 0 {
		t.Fatal("failed update must not be recorded")
	}
}

func TestXLSXStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.xlsx")
	f := excelize.NewFile()
	for r, row := range sampleGrid() {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue("Sheet1", cell, value); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	ctx := context.Background()
	store, err := sheet.OpenXLSX(path, "")
	if err != nil {
		t.Fatalf("OpenXLSX returned error: %v", err)
	}
	if err := store.UpdateCell(ctx, 2, 3, "2026-02-07T09:00:00"); err != nil {
		t.Fatalf("UpdateCell returned error: %v", err)
	}
	store.Close()

	reopened, err := sheet.OpenXLSX(path, "Sheet1")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	grid, err := reopened.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	rows := grid.Rows()
	if rows[0].Get("archived_at") != "2026-02-07T09:00:00" || rows[1].Get("company") != "Globex" {
		t.Fatalf("unexpected workbook contents: %v", grid)
	}
}

func TestOpenXLSXMissingWorksheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.xlsx")
	f := excelize.NewFile()
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()
	if _, err := sheet.OpenXLSX(path, "Applications"); err == nil {
		t.Fatal("expected error for missing worksheet")
	}
	if _, err := sheet.OpenXLSX(filepath.Join(t.TempDir(), "absent.xlsx"), ""); err == nil {
		t.Fatal("expected error for missing workbook")
	}
}

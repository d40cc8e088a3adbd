package sheet

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"

	"jobflow/internal/services"
)

// XLSXStore keeps the tracker in a local workbook. Each cell update is saved
// immediately so an interrupted run loses at most the in-flight row.
type XLSXStore struct {
	mu        sync.Mutex
	path      string
	worksheet string
	file      *excelize.File
}

// OpenXLSX opens path and selects worksheet, or the first sheet when
// worksheet is empty.
func OpenXLSX(path, worksheet string) (*XLSXStore, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "sheet", "open workbook",
			fmt.Sprintf("Unable to open workbook %s", path), err)
	}
	if worksheet == "" {
		worksheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(worksheet); err != nil || idx < 0 {
		_ = f.Close()
		return nil, services.Wrap(services.ErrNotFound, "sheet", "open workbook",
			fmt.Sprintf("Worksheet %q not found in %s", worksheet, path), err)
	}
	return &XLSXStore{path: path, worksheet: worksheet, file: f}, nil
}

func (s *XLSXStore) Snapshot(ctx context.Context) (Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.file.GetRows(s.worksheet)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "sheet", "read workbook", "Unable to read worksheet rows", err)
	}
	return Grid(rows), nil
}

func (s *XLSXStore) UpdateCell(ctx context.Context, row, col int, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.file.SetCellValue(s.worksheet, cell, value); err != nil {
		return services.Wrap(services.ErrExternalTool, "sheet", "update cell", fmt.Sprintf("Unable to set %s", cell), err)
	}
	if err := s.file.Save(); err != nil {
		return services.Wrap(services.ErrExternalTool, "sheet", "save workbook", fmt.Sprintf("Unable to save %s", s.path), err)
	}
	return nil
}

func (s *XLSXStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

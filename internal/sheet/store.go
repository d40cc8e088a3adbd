package sheet

import (
	"context"
	"fmt"

	"jobflow/internal/config"
	"jobflow/internal/services"
)

// Store reads and writes the tracker.
type Store interface {
	// Snapshot returns every row of the worksheet, headers first.
	Snapshot(ctx context.Context) (Grid, error)
	// UpdateCell writes one cell. row is the 1-based sheet row and col the
	// 0-based column index.
	UpdateCell(ctx context.Context, row, col int, value string) error
	Close() error
}

// Open opens the backend selected by configuration.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "sheet", "open", "Configuration is required", nil)
	}
	if err := cfg.ValidateTrackerAccess(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "sheet", "open", "Tracker settings incomplete", err)
	}
	switch cfg.Sheet.Backend {
	case "xlsx":
		return OpenXLSX(cfg.Sheet.XLSXPath, cfg.Sheet.Worksheet)
	case "google":
		return OpenGoogle(ctx, cfg.Sheet.CredentialsFile, cfg.Sheet.SpreadsheetID, cfg.Sheet.Worksheet)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "sheet", "open",
			fmt.Sprintf("Unsupported tracker backend %q", cfg.Sheet.Backend), nil)
	}
}

// SetCell writes value under the named column of row.
func SetCell(ctx context.Context, store Store, header Header, row int, column, value string) error {
	col, ok := header.Index(column)
	if !ok {
		return &MissingColumnError{Missing: []string{column}}
	}
	return store.UpdateCell(ctx, row, col, value)
}

package sheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"jobflow/internal/services"
)

// GoogleStore reads and writes a Google Sheets worksheet through a service
// account.
type GoogleStore struct {
	service       *gsheets.Service
	spreadsheetID string
	worksheet     string
}

// OpenGoogle authenticates with the service account key in credentialsFile.
func OpenGoogle(ctx context.Context, credentialsFile, spreadsheetID, worksheet string) (*GoogleStore, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "sheet", "open google sheet",
			"Unable to authenticate with the service account", err)
	}
	return &GoogleStore{service: svc, spreadsheetID: spreadsheetID, worksheet: worksheet}, nil
}

func (s *GoogleStore) Snapshot(ctx context.Context) (Grid, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, quoteWorksheet(s.worksheet)).Context(ctx).Do()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "sheet", "read google sheet",
			fmt.Sprintf("Unable to read worksheet %q", s.worksheet), err)
	}
	grid := make(Grid, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		grid[i] = cells
	}
	return grid, nil
}

func (s *GoogleStore) UpdateCell(ctx context.Context, row, col int, value string) error {
	name, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	rng := quoteWorksheet(s.worksheet) + "!" + name
	body := &gsheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, rng, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return services.Wrap(services.ErrTransient, "sheet", "update google sheet",
			fmt.Sprintf("Unable to write %s", rng), err)
	}
	return nil
}

func (s *GoogleStore) Close() error { return nil }

func quoteWorksheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

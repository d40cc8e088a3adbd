package sheet

import (
	"context"
	"fmt"
	"sync"
)

// CellWrite records one UpdateCell call against a MemoryStore.
type CellWrite struct {
	Row   int
	Col   int
	Value string
}

// MemoryStore keeps the tracker in memory. It backs dry runs and tests.
type MemoryStore struct {
	mu     sync.Mutex
	grid   Grid
	writes []CellWrite

	// FailUpdates makes every UpdateCell return this error when set.
	FailUpdates error
}

// NewMemoryStore copies grid into a new store.
func NewMemoryStore(grid Grid) *MemoryStore {
	return &MemoryStore{grid: grid.Clone()}
}

func (m *MemoryStore) Snapshot(ctx context.Context) (Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grid.Clone(), nil
}

func (m *MemoryStore) UpdateCell(ctx context.Context, row, col int, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUpdates != nil {
		return m.FailUpdates
	}
	if row < 1 || col < 0 {
		return fmt.Errorf("cell out of range: row %d col %d", row, col)
	}
	for len(m.grid) < row {
		m.grid = append(m.grid, nil)
	}
	cells := m.grid[row-1]
	for len(cells) <= col {
		cells = append(cells, "")
	}
	cells[col] = value
	m.grid[row-1] = cells
	m.writes = append(m.writes, CellWrite{Row: row, Col: col, Value: value})
	return nil
}

// Writes returns the updates applied so far, in order.
func (m *MemoryStore) Writes() []CellWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CellWrite(nil), m.writes...)
}

// Cell returns the current value at a 1-based row and 0-based column.
func (m *MemoryStore) Cell(row, col int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row < 1 || row > len(m.grid) || col < 0 || col >= len(m.grid[row-1]) {
		return ""
	}
	return m.grid[row-1][col]
}

func (m *MemoryStore) Close() error { return nil }

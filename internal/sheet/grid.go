package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumn reports a required header that the tracker lacks.
var ErrMissingColumn = errors.New("missing column")

// MissingColumnError lists every required header absent from the tracker.
type MissingColumnError struct {
	Missing []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumn, strings.Join(e.Missing, ", "))
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// Grid is a snapshot of a worksheet. The first row holds the headers.
type Grid [][]string

// NormalizeHeader lower-cases a header and collapses surrounding and
// internal whitespace so column lookups ignore formatting drift.
func NormalizeHeader(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Header maps normalized column names to 0-based indices. When a name
// repeats, the first occurrence wins.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader indexes a header row.
func NewHeader(cells []string) Header {
	h := Header{names: make([]string, len(cells)), index: make(map[string]int, len(cells))}
	for i, cell := range cells {
		h.names[i] = cell
		key := NormalizeHeader(cell)
		if key == "" {
			continue
		}
		if _, seen := h.index[key]; !seen {
			h.index[key] = i
		}
	}
	return h
}

// Index returns the 0-based column for name.
func (h Header) Index(name string) (int, bool) {
	idx, ok := h.index[NormalizeHeader(name)]
	return idx, ok
}

// Names returns the header cells as they appear in the sheet.
func (h Header) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Require checks that every name is present.
func (h Header) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := h.Index(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnError{Missing: missing}
	}
	return nil
}

// Row is one data row of a snapshot.
type Row struct {
	// Number is the 1-based sheet row; the header is row 1.
	Number int
	Cells  []string
	header Header
}

// Get returns the trimmed cell under column name, or "" when the column is
// unknown or the row is short.
func (r Row) Get(name string) string {
	idx, ok := r.header.Index(name)
	if !ok || idx >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[idx])
}

// Fields returns the row keyed by normalized header.
func (r Row) Fields() map[string]string {
	out := make(map[string]string, len(r.header.index))
	for key, idx := range r.header.index {
		if idx < len(r.Cells) {
			out[key] = strings.TrimSpace(r.Cells[idx])
		} else {
			out[key] = ""
		}
	}
	return out
}

// Header returns the header the row was read with.
func (r Row) Header() Header { return r.header }

// Header returns the header of the grid.
func (g Grid) Header() Header {
	if len(g) == 0 {
		return NewHeader(nil)
	}
	return NewHeader(g[0])
}

// Rows returns the data rows of the grid in sheet order.
func (g Grid) Rows() []Row {
	if len(g) < 2 {
		return nil
	}
	header := g.Header()
	rows := make([]Row, 0, len(g)-1)
	for i, cells := range g[1:] {
		rows = append(rows, Row{Number: i + 2, Cells: cells, header: header})
	}
	return rows
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]string(nil), row...)
	}
	return out
}

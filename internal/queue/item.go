package queue

import (
	"fmt"
	"os"
	"path/filepath"

	"jobflow/internal/sheet"
	"jobflow/internal/textutil"
)

// Key holds the normalized fields a work item's storage location derives
// from.
type Key struct {
	Identifier string
	// Date is YYYY-MM-DD, or "" when the raw cell was not a valid date.
	Date string
}

// Slug returns the filesystem-safe form of the identifier.
func (k Key) Slug() string { return textutil.Slugify(k.Identifier) }

// WorkItem is one tracker row bound to its storage location.
type WorkItem struct {
	Row sheet.Row
	Key Key
	// Location is the per-item directory, or "" while the identifier is
	// unknown.
	Location string
}

// Number returns the 1-based sheet row of the item.
func (w WorkItem) Number() int { return w.Row.Number }

// Get returns a trimmed cell of the item's row.
func (w WorkItem) Get(column string) string { return w.Row.Get(column) }

// NewWorkItem derives the key and storage location of row under root.
func NewWorkItem(root string, rule Rule, row sheet.Row) WorkItem {
	key := Key{Identifier: row.Get(rule.IdentifierColumn)}
	if date, ok := textutil.NormalizeDate(row.Get(rule.DateColumn)); ok {
		key.Date = date
	}
	item := WorkItem{Row: row, Key: key}
	if loc, err := Locate(root, key); err == nil {
		item.Location = loc
	}
	return item
}

// WithIdentifier returns a copy of the item keyed by identifier, with the
// location recomputed under root.
func (w WorkItem) WithIdentifier(root, identifier string) (WorkItem, error) {
	w.Key.Identifier = identifier
	loc, err := Locate(root, w.Key)
	if err != nil {
		return w, err
	}
	w.Location = loc
	return w, nil
}

// Locate returns <root>/<slug(identifier)>/<date>. The same key always maps
// to the same location.
func Locate(root string, key Key) (string, error) {
	slug := key.Slug()
	if slug == "" {
		return "", fmt.Errorf("%w: identifier %q has no usable characters", ErrMissingPrecondition, key.Identifier)
	}
	if key.Date == "" {
		return "", fmt.Errorf("%w: date is missing or invalid", ErrMissingPrecondition)
	}
	return filepath.Join(root, slug, key.Date), nil
}

// EnsureLocation creates the item directory when absent. Existing contents
// are left untouched.
func EnsureLocation(path string) error {
	if path == "" {
		return fmt.Errorf("%w: storage location unknown", ErrMissingPrecondition)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create item directory: %w", err)
	}
	return nil
}

package queue

import (
	"fmt"
	"os"
	"path/filepath"

	"jobflow/internal/textutil"
)

// Precondition is an input a row must carry before a stage may run.
type Precondition struct {
	// Column is the tracker header the check reads, or "" for file checks.
	Column string
	check  func(WorkItem) error
}

// Check returns an error wrapping ErrMissingPrecondition when item fails.
func (p Precondition) Check(item WorkItem) error {
	if p.check == nil {
		return nil
	}
	return p.check(item)
}

// NonEmpty requires a non-blank cell under column.
func NonEmpty(column string) Precondition {
	return Precondition{Column: column, check: func(item WorkItem) error {
		if item.Get(column) == "" {
			return fmt.Errorf("%w: %s is empty", ErrMissingPrecondition, column)
		}
		return nil
	}}
}

// ValidDate requires a parseable date under column.
func ValidDate(column string) Precondition {
	return Precondition{Column: column, check: func(item WorkItem) error {
		raw := item.Get(column)
		if raw == "" {
			return fmt.Errorf("%w: %s is empty", ErrMissingPrecondition, column)
		}
		if _, ok := textutil.NormalizeDate(raw); !ok {
			return fmt.Errorf("%w: %s %q is not a valid date", ErrMissingPrecondition, column, raw)
		}
		return nil
	}}
}

// DateEquals restricts a run to rows whose date under column normalizes to
// date.
func DateEquals(column, date string) Precondition {
	return Precondition{Column: column, check: func(item WorkItem) error {
		got, _ := textutil.NormalizeDate(item.Get(column))
		if got != date {
			return fmt.Errorf("%w: %s is not %s", ErrMissingPrecondition, column, date)
		}
		return nil
	}}
}

// FileExists requires name inside the item's storage location.
func FileExists(name string) Precondition {
	return Precondition{check: func(item WorkItem) error {
		if item.Location == "" {
			return fmt.Errorf("%w: storage location unknown for %s", ErrMissingPrecondition, name)
		}
		info, err := os.Stat(filepath.Join(item.Location, name))
		if err != nil || info.IsDir() {
			return fmt.Errorf("%w: %s not found in %s", ErrMissingPrecondition, name, item.Location)
		}
		return nil
	}}
}

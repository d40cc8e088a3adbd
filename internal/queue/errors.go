package queue

import "errors"

var (
	// ErrMissingPrecondition marks a row whose required inputs are absent or
	// invalid. The row is skipped and reported, never failed.
	ErrMissingPrecondition = errors.New("missing precondition")
	// ErrDuplicateSkip marks a row whose work is already recorded, either by
	// a filled status field or an existing output artifact.
	ErrDuplicateSkip = errors.New("already processed")
)

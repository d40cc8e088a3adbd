package stage

import (
	"errors"

	"jobflow/internal/queue"
	"jobflow/internal/services"
)

// Process exit codes for single-item runs.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitMissingInput = 2
	ExitDisqualified = 3
)

// ExitCode maps a result onto the process exit code.
func ExitCode(r Result) int {
	switch r.Outcome {
	case OutcomeSuccess:
		return ExitOK
	case OutcomeDisqualified:
		return ExitDisqualified
	default:
		return ExitCodeForError(r.Err)
	}
}

// ExitCodeForError maps an error onto the process exit code. Rows that are
// already done exit cleanly.
func ExitCodeForError(err error) int {
	switch {
	case err == nil, errors.Is(err, queue.ErrDuplicateSkip):
		return ExitOK
	case errors.Is(err, ErrDisqualified):
		return ExitDisqualified
	case errors.Is(err, queue.ErrMissingPrecondition), errors.Is(err, services.ErrNotFound):
		return ExitMissingInput
	default:
		return ExitFailure
	}
}

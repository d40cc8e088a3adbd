package workflow

import (
	"errors"

	"jobflow/internal/queue"
	"jobflow/internal/stage"
)

// ErrStageFailure wraps the error of a row whose required stage failed.
var ErrStageFailure = errors.New("stage failure")

// ErrLocked reports that another run holds the data directory lock.
var ErrLocked = errors.New("another run is in progress")

// Step is one stage of a job. Optional steps may fail or disqualify without
// failing the row.
type Step struct {
	Handler  stage.Handler
	Optional bool
}

// Job is a named batch operation over the tracker.
type Job struct {
	Name        string
	Description string
	Rule        queue.Rule
	Steps       []Step
	// Outputs lists extra columns stages write besides the rule's columns.
	Outputs []string
}

// Columns returns every tracker header the job reads or writes.
func (j Job) Columns() []string {
	cols := j.Rule.Columns()
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		seen[c] = true
	}
	for _, c := range j.Outputs {
		if c != "" && !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	return cols
}

// StageNames lists the job's stages in execution order.
func (j Job) StageNames() []string {
	names := make([]string, 0, len(j.Steps))
	for _, s := range j.Steps {
		if s.Handler != nil {
			names = append(names, s.Handler.Name())
		}
	}
	return names
}

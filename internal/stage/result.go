package stage

import (
	"errors"
	"fmt"
)

// ErrDisqualified marks an item that is categorically out of scope. Unlike
// a failure, the processor records a sentinel so the row is never retried.
var ErrDisqualified = errors.New("disqualifying condition")

// Outcome tags a Result.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
	OutcomeDisqualified
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeDisqualified:
		return "disqualified"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Artifact is one output file written into the item's storage location.
type Artifact struct {
	Name string
	Data []byte
}

// Write is a tracker cell a successful stage wants updated.
type Write struct {
	Column string
	Value  string
}

// Result is the tagged outcome of one stage execution.
type Result struct {
	Outcome   Outcome
	Artifacts []Artifact
	Writes    []Write
	// Err is set for failures.
	Err error
	// Reason and Sentinel are set for disqualifications. Sentinel is the
	// value recorded in the status field.
	Reason   string
	Sentinel string
}

// Succeeded builds a success carrying artifacts.
func Succeeded(artifacts ...Artifact) Result {
	return Result{Outcome: OutcomeSuccess, Artifacts: artifacts}
}

// Failed builds a failure. A nil err is replaced with a generic one so a
// failure never reads as success.
func Failed(err error) Result {
	if err == nil {
		err = errors.New("stage failed")
	}
	return Result{Outcome: OutcomeFailure, Err: err}
}

// Disqualified builds a disqualification recording sentinel in the status
// field.
func Disqualified(reason, sentinel string) Result {
	return Result{Outcome: OutcomeDisqualified, Reason: reason, Sentinel: sentinel}
}

// WithWrite returns a copy of r that also updates column.
func (r Result) WithWrite(column, value string) Result {
	writes := make([]Write, len(r.Writes), len(r.Writes)+1)
	copy(writes, r.Writes)
	r.Writes = append(writes, Write{Column: column, Value: value})
	return r
}

// Write returns the value r writes to column.
func (r Result) Write(column string) (string, bool) {
	for i := len(r.Writes) - 1; i >= 0; i-- {
		if r.Writes[i].Column == column {
			return r.Writes[i].Value, true
		}
	}
	return "", false
}

// Artifact returns the named artifact.
func (r Result) Artifact(name string) (Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}

// AsError describes non-success results as an error.
func (r Result) AsError() error {
	switch r.Outcome {
	case OutcomeFailure:
		return r.Err
	case OutcomeDisqualified:
		return fmt.Errorf("%w: %s", ErrDisqualified, r.Reason)
	default:
		return nil
	}
}

package queue

import (
	"fmt"
	"os"
	"path/filepath"
)

// Verdict is the per-run decision for a work item.
type Verdict int

const (
	Pending Verdict = iota
	Skip
)

func (v Verdict) String() string {
	if v == Pending {
		return "pending"
	}
	return "skip"
}

// Classification is a verdict plus, for skips, the reason. Err wraps
// ErrMissingPrecondition or ErrDuplicateSkip.
type Classification struct {
	Verdict Verdict
	Err     error
}

// Reason returns the skip reason, or "" for pending items.
func (c Classification) Reason() string {
	if c.Err == nil {
		return ""
	}
	return c.Err.Error()
}

// Rule describes how a batch job selects its rows.
type Rule struct {
	IdentifierColumn string
	DateColumn       string
	// StatusColumn marks rows done once written. Empty for jobs whose
	// completion marker is Artifact.
	StatusColumn string
	Artifact     string
	// Overwrite reruns the job even when Artifact already exists.
	Overwrite bool
	// InferIdentifier lets rows with an empty identifier through so a stage
	// can supply it.
	InferIdentifier bool
	Preconditions   []Precondition
}

// Columns returns the tracker headers the rule reads or writes.
func (r Rule) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			cols = append(cols, name)
		}
	}
	add(r.IdentifierColumn)
	add(r.DateColumn)
	add(r.StatusColumn)
	for _, p := range r.Preconditions {
		add(p.Column)
	}
	return cols
}

// Classify decides whether item still needs work under rule. A filled status
// field wins over everything else so disqualified rows stay skipped even
// when their inputs later disappear.
func Classify(rule Rule, item WorkItem) Classification {
	if rule.StatusColumn != "" {
		if value := item.Get(rule.StatusColumn); value != "" {
			return Classification{Verdict: Skip, Err: fmt.Errorf("%w: %s is %q", ErrDuplicateSkip, rule.StatusColumn, value)}
		}
	}
	if !rule.InferIdentifier {
		if err := NonEmpty(rule.IdentifierColumn).Check(item); err != nil {
			return Classification{Verdict: Skip, Err: err}
		}
	}
	if err := ValidDate(rule.DateColumn).Check(item); err != nil {
		return Classification{Verdict: Skip, Err: err}
	}
	for _, p := range rule.Preconditions {
		if err := p.Check(item); err != nil {
			return Classification{Verdict: Skip, Err: err}
		}
	}
	if rule.Artifact != "" && !rule.Overwrite && item.Location != "" {
		if _, err := os.Stat(filepath.Join(item.Location, rule.Artifact)); err == nil {
			return Classification{Verdict: Skip, Err: fmt.Errorf("%w: %s exists", ErrDuplicateSkip, rule.Artifact)}
		}
	}
	return Classification{Verdict: Pending}
}

package workflow

import (
	"time"

	"jobflow/internal/logging"
)

// Disposition is what happened to one row.
type Disposition string

const (
	DispositionWritten      Disposition = "written"
	DispositionSkipped      Disposition = "skipped"
	DispositionDone         Disposition = "done"
	DispositionFailed       Disposition = "failed"
	DispositionDisqualified Disposition = "disqualified"
	// DispositionPending is reported by dry runs for rows that would run.
	DispositionPending Disposition = "pending"
)

// ItemResult reports the handling of one row.
type ItemResult struct {
	Row         int
	Identifier  string
	Date        string
	Location    string
	Disposition Disposition
	// Reason explains skips and disqualifications.
	Reason string
	// Err is set for failures and skips.
	Err error
}

// Summary aggregates one run.
type Summary struct {
	RunID        string
	Job          string
	DryRun       bool
	Total        int
	Pending      int
	Written      int
	Skipped      int
	AlreadyDone  int
	Failed       int
	Disqualified int
	Duration     time.Duration
	Items        []ItemResult
}

func (s *Summary) add(item ItemResult) {
	s.Items = append(s.Items, item)
	switch item.Disposition {
	case DispositionWritten:
		s.Written++
	case DispositionSkipped:
		s.Skipped++
	case DispositionDone:
		s.AlreadyDone++
	case DispositionFailed:
		s.Failed++
	case DispositionDisqualified:
		s.Disqualified++
	case DispositionPending:
		s.Pending++
	}
}

// Clean reports whether no row failed.
func (s Summary) Clean() bool { return s.Failed == 0 }

func (s Summary) logAttrs() []logging.Attr {
	return []logging.Attr{
		logging.String(logging.FieldEventType, "run_summary"),
		logging.Bool("dry_run", s.DryRun),
		logging.Int("rows", s.Total),
		logging.Int("written", s.Written),
		logging.Int("skipped", s.Skipped),
		logging.Int("already_done", s.AlreadyDone),
		logging.Int("failed", s.Failed),
		logging.Int("disqualified", s.Disqualified),
		logging.Int("pending", s.Pending),
		logging.Duration("duration", s.Duration),
	}
}

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run summarizes one batch invocation.
type Run struct {
	ID           string
	Job          string
	StartedAt    time.Time
	FinishedAt   time.Time
	DryRun       bool
	Written      int
	Skipped      int
	Done         int
	Failed       int
	Disqualified int
	Error        string
}

// Finished reports whether the run recorded a completion time.
func (r Run) Finished() bool { return !r.FinishedAt.IsZero() }

// Outcome is the result of one tracker row within a run.
type Outcome struct {
	RunID      string
	Row        int
	Identifier string
	Date       string
	Result     string
	Reason     string
	ErrorKind  string
	RecordedAt time.Time
}

// BeginRun inserts a run row with its start time.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	return s.exec(ctx,
		`INSERT INTO runs (run_id, job, started_at, dry_run) VALUES (?, ?, ?, ?)`,
		run.ID, run.Job, run.StartedAt.UTC().Format(timeLayout), boolToInt(run.DryRun),
	)
}

// FinishRun stores the final counts for a run started with BeginRun.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	return s.exec(ctx,
		`UPDATE runs SET finished_at = ?, written = ?, skipped = ?, done = ?, failed = ?,
		 disqualified = ?, error_message = ? WHERE run_id = ?`,
		run.FinishedAt.UTC().Format(timeLayout), run.Written, run.Skipped, run.Done, run.Failed,
		run.Disqualified, nullString(run.Error), run.ID,
	)
}

// RecordOutcome appends one row outcome.
func (s *Store) RecordOutcome(ctx context.Context, outcome Outcome) error {
	if outcome.RecordedAt.IsZero() {
		outcome.RecordedAt = time.Now()
	}
	return s.exec(ctx,
		`INSERT INTO outcomes (run_id, row_number, identifier, applied_date, result, reason, error_kind, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		outcome.RunID, outcome.Row, nullString(outcome.Identifier), nullString(outcome.Date),
		outcome.Result, nullString(outcome.Reason), nullString(outcome.ErrorKind),
		outcome.RecordedAt.UTC().Format(timeLayout),
	)
}

// RecentRuns returns up to limit runs, newest first. A job filter of ""
// matches every job.
func (s *Store) RecentRuns(ctx context.Context, job string, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, job, started_at, finished_at, dry_run, written, skipped, done, failed,
		 disqualified, error_message FROM runs WHERE (? = '' OR job = ?)
		 ORDER BY started_at DESC LIMIT ?`,
		job, job, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run              Run
			started          string
			finished, errMsg sql.NullString
			dryRun           int
		)
		if err := rows.Scan(&run.ID, &run.Job, &started, &finished, &dryRun, &run.Written,
			&run.Skipped, &run.Done, &run.Failed, &run.Disqualified, &errMsg); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		if finished.Valid {
			run.FinishedAt = parseTime(finished.String)
		}
		run.DryRun = dryRun != 0
		run.Error = errMsg.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Outcomes returns the row outcomes of runID in recording order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, row_number, identifier, applied_date, result, reason, error_kind, recorded_at
		 FROM outcomes WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var (
			o                         Outcome
			ident, date, reason, kind sql.NullString
			recorded                  string
		)
		if err := rows.Scan(&o.RunID, &o.Row, &ident, &date, &o.Result, &reason, &kind, &recorded); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Identifier = ident.String
		o.Date = date.String
		o.Reason = reason.String
		o.ErrorKind = kind.String
		o.RecordedAt = parseTime(recorded)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// Prune deletes runs that started before cutoff and returns how many were
// removed. Outcomes cascade.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff.UTC().Format(timeLayout))
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	return removed, err
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// Package workflow runs batch jobs over the tracker.
//
// A Job pairs a queue.Rule, which decides which rows still need work, with
// an ordered list of stage handlers. The Processor takes an exclusive run
// lock, snapshots the tracker once, resolves the columns the job needs, and
// then walks the rows in order. Pending rows get their storage directory,
// run through the stages, and have artifacts persisted atomically before the
// status field is written. The status field is the only completion marker,
// so an interrupted run resumes exactly where it stopped and a repeated run
// over finished rows performs no writes.
//
// Failures are per row: they are logged with row context, counted, and the
// run continues. Disqualifications record a sentinel in the status field so
// the row is never retried. Every run produces a Summary that is logged and,
// when a Recorder is configured, stored in the run history.
package workflow

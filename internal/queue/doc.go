// Package queue treats tracker rows as a work queue.
//
// Every run builds a WorkItem per row, deriving a deterministic storage
// location from the normalized identifier and date, and classifies it as
// pending or skip under the job's Rule. Rows are skipped when a precondition
// fails (ErrMissingPrecondition) or when their work is already recorded
// (ErrDuplicateSkip); the status field is the only checkpoint.
package queue

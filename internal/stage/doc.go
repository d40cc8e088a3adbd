// Package stage defines the contract between the record-queue processor and
// the stages it runs.
//
// A stage returns a tagged Result: success with artifacts and tracker
// writes, failure, or a disqualification carrying the sentinel the processor
// records in the status field. ExitCode keeps the same three-way split at
// process boundaries.
package stage

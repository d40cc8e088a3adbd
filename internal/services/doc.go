// Package services defines shared utilities consumed by the processing stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp tracker row numbers, stage and job names, and
//     run correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures carry a
//     consistent classification into logs and the run history.
//
// Use these helpers when wiring new stage logic so operational behaviour (error
// handling, observability) stays uniform across batch jobs.
package services

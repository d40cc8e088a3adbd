// Package stages implements the concrete job-application stages and the
// batch job catalog built from them.
//
// Each stage reads its inputs from the work item directory (job.txt,
// sources.txt, url.txt) and the configured resume, calls the fetcher or the
// model, and returns a stage.Result carrying artifacts and tracker writes.
// Stages never touch the tracker or the filesystem output directly; the
// workflow processor persists what they return.
package stages

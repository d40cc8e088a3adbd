// Package preflight provides readiness checks for the filesystem paths and
// external services jobflow depends on.
//
// The CLI "jobflow config validate" command runs RunAll to report directory,
// resume, and tracker access, and CheckLLM when a live model probe is
// requested. Job stages report their own readiness through stage health
// checks; these checks cover what every job shares.
package preflight

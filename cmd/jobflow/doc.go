// Package main hosts the jobflow CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into tracker batch
// runs, single-row runs, report generation, structured-output recovery, and
// configuration scaffolding. It centralizes configuration resolution, logger
// setup, and collaborator wiring so subcommands can focus on output.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main

package preflight

import (
	"context"

	"jobflow/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks that apply to cfg. Model access is
// probed separately by CheckLLM since it spends a request.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Paths.ReportsDir != cfg.Paths.DataDir {
		results = append(results, CheckDirectoryAccess("Reports directory", cfg.Paths.ReportsDir))
	}
	results = append(results, CheckFileReadable("Resume", cfg.Paths.ResumePath))

	switch cfg.Sheet.Backend {
	case "xlsx":
		results = append(results, CheckFileReadable("Tracker workbook", cfg.Sheet.XLSXPath))
	case "google":
		if err := cfg.ValidateTrackerAccess(); err != nil {
			results = append(results, Result{Name: "Tracker", Detail: err.Error()})
		} else {
			results = append(results, CheckFileReadable("Service account", cfg.Sheet.CredentialsFile))
		}
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

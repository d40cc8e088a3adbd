// Package reports derives read-only views from a tracker snapshot: overdue
// follow-ups, funnel statistics, the job index CSV, and per-item folders
// that no longer have a tracker row.
package reports

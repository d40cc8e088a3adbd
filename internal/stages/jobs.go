package stages

import (
	"fmt"
	"sort"

	"jobflow/internal/queue"
	"jobflow/internal/workflow"
)

// JobOptions adjust the catalog for one invocation.
type JobOptions struct {
	// Date restricts artifact-marker jobs to rows applied on this
	// YYYY-MM-DD date.
	Date string
	// Overwrite reruns artifact-marker jobs even when the artifact exists.
	Overwrite bool
}

// Jobs returns the batch jobs keyed by name.
func Jobs(deps Deps, opts JobOptions) map[string]workflow.Job {
	t := deps.Config.Tracker
	base := func(status string, pre ...queue.Precondition) queue.Rule {
		return queue.Rule{
			IdentifierColumn: t.CompanyColumn,
			DateColumn:       t.DateAppliedColumn,
			StatusColumn:     status,
			Preconditions:    pre,
		}
	}
	marker := func(artifact string, input string, overwrite bool) queue.Rule {
		pre := []queue.Precondition{queue.FileExists(input)}
		if opts.Date != "" {
			pre = append(pre, queue.DateEquals(t.DateAppliedColumn, opts.Date))
		}
		rule := base("", pre...)
		rule.Artifact = artifact
		rule.Overwrite = overwrite || opts.Overwrite
		return rule
	}

	archiveRule := base(t.ArchivedAtColumn, queue.NonEmpty(t.PostingLinkColumn))
	archiveRule.InferIdentifier = true
	metadataOutputs := []string{t.RoleTitleColumn, t.CompanyTypeColumn, t.CompanySizeBucketColumn, t.RoleFocusColumn, t.RoleLevelColumn}

	jobs := []workflow.Job{
		{
			Name:        "archive",
			Description: "Fetch and store posting pages",
			Rule:        archiveRule,
			Steps:       []workflow.Step{{Handler: NewArchive(deps)}},
		},
		{
			Name:        "populate",
			Description: "Archive postings, classify them, and score fit",
			Rule:        archiveRule,
			Steps: []workflow.Step{
				{Handler: NewArchive(deps)},
				{Handler: NewMetadata(deps), Optional: true},
				{Handler: NewFitScore(deps), Optional: true},
			},
			Outputs: append([]string{t.FitScoreColumn}, metadataOutputs...),
		},
		{
			Name:        "score",
			Description: "Screen for clearance and score fit",
			Rule:        base(t.FitScoreColumn, queue.FileExists(FileJobText)),
			Steps:       []workflow.Step{{Handler: NewClearance(deps)}, {Handler: NewFitScore(deps)}},
		},
		{
			Name:        "metadata",
			Description: "Classify role and company into tracker columns",
			Rule:        base(t.RoleTitleColumn, queue.FileExists(FileJobText)),
			Steps:       []workflow.Step{{Handler: NewMetadata(deps)}},
			Outputs:     metadataOutputs,
		},
		{
			Name:        "analyze",
			Description: "Extract posting keywords and resume points to emphasize",
			Rule:        marker(FileFit, FileJobText, false),
			Steps:       []workflow.Step{{Handler: NewAnalyze(deps)}},
		},
		{
			Name:        "skills",
			Description: "Recommend resume skills to add or omit",
			Rule:        marker(FileSkills, FileJobText, true),
			Steps:       []workflow.Step{{Handler: NewSkills(deps)}},
		},
		{
			Name:        "bullets",
			Description: "Draft tailored resume bullets",
			Rule:        marker(FileBullets, FileJobText, false),
			Steps:       []workflow.Step{{Handler: NewBullets(deps)}},
		},
		{
			Name:        "summary",
			Description: "Summarize the company from sources.txt",
			Rule:        marker(FileCompanySummary, FileSources, false),
			Steps:       []workflow.Step{{Handler: NewSummary(deps)}},
		},
		{
			Name:        "outreach",
			Description: "Draft a hiring manager message",
			Rule:        marker(FileOutreach, FileJobText, false),
			Steps:       []workflow.Step{{Handler: NewOutreach(deps)}},
		},
		{
			Name:        "coverletter",
			Description: "Draft a cover letter",
			Rule:        marker(FileCoverLetter, FileJobText, false),
			Steps:       []workflow.Step{{Handler: NewCoverLetter(deps)}},
		},
	}

	out := make(map[string]workflow.Job, len(jobs))
	for _, job := range jobs {
		out[job.Name] = job
	}
	return out
}

// JobNames returns the catalog names sorted.
func JobNames(jobs map[string]workflow.Job) []string {
	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named job.
func Lookup(jobs map[string]workflow.Job, name string) (workflow.Job, error) {
	job, ok := jobs[name]
	if !ok {
		return workflow.Job{}, fmt.Errorf("unknown job %q (known: %v)", name, JobNames(jobs))
	}
	return job, nil
}

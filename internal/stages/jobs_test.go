package stages_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"jobflow/internal/fetch"
	"jobflow/internal/logging"
	"jobflow/internal/stages"
	"jobflow/internal/testsupport"
	"jobflow/internal/workflow"
)

func TestJobCatalog(t *testing.T) {
	deps, cfg := newDeps(t, &scriptedModel{}, &fakeFetcher{})
	jobs := stages.Jobs(deps, stages.JobOptions{})

	want := []string{"analyze", "archive", "bullets", "coverletter", "metadata", "outreach", "populate", "score", "skills", "summary"}
	if got := stages.JobNames(jobs); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected job names %v", got)
	}
	populate, err := stages.Lookup(jobs, "populate")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !reflect.DeepEqual(populate.StageNames(), []string{"archive", "metadata", "fitscore"}) {
		t.Fatalf("unexpected populate stages %v", populate.StageNames())
	}
	if !populate.Rule.InferIdentifier || populate.Rule.StatusColumn != cfg.Tracker.ArchivedAtColumn {
		t.Fatalf("unexpected populate rule %+v", populate.Rule)
	}
	if jobs["score"].Rule.StatusColumn != cfg.Tracker.FitScoreColumn {
		t.Fatalf("score job should mark the fit score column")
	}
	if jobs["skills"].Rule.Artifact != stages.FileSkills || !jobs["skills"].Rule.Overwrite {
		t.Fatalf("skills job should overwrite its artifact: %+v", jobs["skills"].Rule)
	}
	if jobs["analyze"].Rule.Artifact != stages.FileFit || jobs["analyze"].Rule.Overwrite {
		t.Fatalf("analyze job should mark fit.json: %+v", jobs["analyze"].Rule)
	}
	if jobs["outreach"].Rule.Overwrite || jobs["outreach"].Rule.StatusColumn != "" {
		t.Fatalf("outreach is an artifact-marker job: %+v", jobs["outreach"].Rule)
	}
	if _, err := stages.Lookup(jobs, "nope"); err == nil {
		t.Fatal("expected unknown job error")
	}

	dated := stages.Jobs(deps, stages.JobOptions{Date: "2026-02-04", Overwrite: true})
	if n := len(dated["bullets"].Rule.Preconditions); n != 2 || !dated["bullets"].Rule.Overwrite {
		t.Fatalf("date filter not applied: %d preconditions", n)
	}
}

func TestPopulateJobEndToEnd(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fetch.Page{
		"https://jobs/1": {HTML: "<p>x</p>", Text: longPosting},
		"https://jobs/2": {Text: "gone", Status: 410},
	}}
	model := &scriptedModel{responses: []string{
		"Acme",
		`{"role_title": "Backend Engineer", "company_type": "startup", "company_size_bucket": "<50", "role_focus": "backend", "role_level": "principal"}`,
		`{"fit_score_0_to_100": 81}`,
	}}
	deps, cfg := newDeps(t, model, fetcher)
	tracker := testsupport.NewTracker(
		testsupport.Row(map[string]string{"date applied": "2026-02-04", "posting link": "https://jobs/1"}),
		testsupport.Row(map[string]string{"company": "Globex", "date applied": "2026-02-05", "posting link": "https://jobs/2"}),
	)
	job := stages.Jobs(deps, stages.JobOptions{})["populate"]
	proc := workflow.NewProcessor(cfg, tracker, logging.NewNop())

	summary, err := proc.Run(context.Background(), job, workflow.Options{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Written != 1 || summary.Disqualified != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	checks := map[string]string{
		"company":           "Acme",
		"role title":        "Backend Engineer",
		"role level":        "SENIOR",
		"initial fit score": "81",
	}
	for col, want := range checks {
		if got := testsupport.Cell(t, tracker, 2, col); got != want {
			t.Fatalf("%s = %q want %q", col, got, want)
		}
	}
	if testsupport.Cell(t, tracker, 2, "archived_at") == "" {
		t.Fatal("archived_at not written")
	}
	if got := testsupport.Cell(t, tracker, 3, "archived_at"); got != stages.SentinelUnavailable {
		t.Fatalf("unavailable posting status %q", got)
	}
	dir := filepath.Join(cfg.Paths.DataDir, "acme", "2026-02-04")
	for _, name := range []string{stages.FileJobText, stages.FileMetadata, stages.FileFitScore} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobflow/internal/stage"
	"jobflow/internal/stages"
	"jobflow/internal/testsupport"
)

const fitReply = "Here is the score:\n```json\n{\"fit_score_0_to_100\": 82}\n```"

func trackerRows() [][]string {
	return [][]string{
		testsupport.Row(map[string]string{"company": "Acme", "date applied": "2026-02-01", "posting link": "https://jobs.example/acme"}),
		testsupport.Row(map[string]string{"company": "Initech", "date applied": "2/3/2026", "posting link": "https://jobs.example/initech"}),
		testsupport.Row(map[string]string{"company": "Globex", "date applied": "2026-02-05"}),
	}
}

func seedPostings(t *testing.T, env *cliTestEnv) {
	t.Helper()
	testsupport.WriteItemFile(t, env.cfg, "Acme", "2026-02-01", stages.FileJobText, "Build Go services for payments.")
	testsupport.WriteItemFile(t, env.cfg, "Initech", "2026-02-03", stages.FileJobText, "Applicants need an active TS/SCI clearance.")
}

func TestRunScoreJobWritesTracker(t *testing.T) {
	env := setupCLITestEnv(t, fitReply, trackerRows()...)
	seedPostings(t, env)

	out, _, err := runCLI(t, []string{"run", "score"}, env.configPath)
	if err != nil {
		t.Fatalf("run score: %v", err)
	}
	requireContains(t, out, "written=1")
	requireContains(t, out, "disqualified=1")
	requireContains(t, out, "skipped=1")

	if got := testsupport.WorkbookCell(t, env.tracker, 2, "initial fit score"); got != "82" {
		t.Fatalf("unexpected fit score %q", got)
	}
	if got := testsupport.WorkbookCell(t, env.tracker, 3, "initial fit score"); got != stages.SentinelClearance {
		t.Fatalf("expected clearance sentinel, got %q", got)
	}
	if got := testsupport.WorkbookCell(t, env.tracker, 4, "initial fit score"); got != "" {
		t.Fatalf("row without posting must stay blank, got %q", got)
	}
	if calls := env.modelCalls.Load(); calls != 1 {
		t.Fatalf("expected one model call, got %d", calls)
	}

	// A second run finds every row settled.
	out, _, err = runCLI(t, []string{"run", "score"}, env.configPath)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	requireContains(t, out, "written=0 done=2")
	if calls := env.modelCalls.Load(); calls != 1 {
		t.Fatalf("second run must not call the model, got %d calls", calls)
	}
}

func TestRunPrintsSummaryWhenInterrupted(t *testing.T) {
	env := setupCLITestEnv(t, fitReply, trackerRows()...)
	seedPostings(t, env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cancel()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": fitReply}}},
		})
	}))
	defer model.Close()
	env.cfg.LLM.BaseURL = model.URL
	writeTestConfig(t, env.configPath, env.cfg)

	out, stderr, err := runCLIContext(t, ctx, []string{"run", "score"}, env.configPath, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	requireContains(t, out, "skipped=0 disqualified=0")
	requireContains(t, stderr, "run stopped before every row was visited")
	if got := testsupport.WorkbookCell(t, env.tracker, 3, "initial fit score"); got != "" {
		t.Fatalf("row after the interruption must stay blank, got %q", got)
	}
}

func TestRunDryRunReportsPendingAsJSON(t *testing.T) {
	env := setupCLITestEnv(t, fitReply, trackerRows()...)
	seedPostings(t, env)

	out, _, err := runCLI(t, []string{"--json", "run", "score", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	var summary summaryJSON
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if !summary.DryRun || summary.Pending != 2 || summary.Skipped != 1 || summary.Written != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if env.modelCalls.Load() != 0 {
		t.Fatal("dry run must not call the model")
	}
	if got := testsupport.WorkbookCell(t, env.tracker, 2, "initial fit score"); got != "" {
		t.Fatalf("dry run wrote the tracker: %q", got)
	}
}

func TestRunRejectsUnknownJobAndBadDate(t *testing.T) {
	env := setupCLITestEnv(t, fitReply, trackerRows()...)

	if _, _, err := runCLI(t, []string{"run", "nope"}, env.configPath); err == nil || !strings.Contains(err.Error(), "unknown job") {
		t.Fatalf("expected unknown job error, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"run", "skills", "--date", "yesterday"}, env.configPath); err == nil || !strings.Contains(err.Error(), "--date") {
		t.Fatalf("expected bad date error, got %v", err)
	}
}

func TestItemCommandExitCodes(t *testing.T) {
	env := setupCLITestEnv(t, fitReply, trackerRows()...)
	seedPostings(t, env)

	_, _, err := runCLI(t, []string{"item", "score", "--row", "3"}, env.configPath)
	requireExitCode(t, err, stage.ExitDisqualified)

	_, _, err = runCLI(t, []string{"item", "score", "--row", "4"}, env.configPath)
	requireExitCode(t, err, stage.ExitMissingInput)

	out, _, err := runCLI(t, []string{"item", "score", "--row", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("item row 2: %v", err)
	}
	requireContains(t, out, "written")

	out, _, err = runCLI(t, []string{"item", "score", "--row", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("settled row must exit cleanly: %v", err)
	}
	requireContains(t, out, "done")

	_, _, err = runCLI(t, []string{"item", "score", "--row", "40"}, env.configPath)
	requireExitCode(t, err, stage.ExitMissingInput)
}

func TestItemCommandModelFailure(t *testing.T) {
	env := setupCLITestEnv(t, "I cannot score this posting.", trackerRows()...)
	seedPostings(t, env)

	_, _, err := runCLI(t, []string{"item", "score", "--row", "2"}, env.configPath)
	requireExitCode(t, err, stage.ExitFailure)
	if got := testsupport.WorkbookCell(t, env.tracker, 2, "initial fit score"); got != "" {
		t.Fatalf("failed row must stay retryable, got %q", got)
	}
}

func TestRecoverCommand(t *testing.T) {
	out, _, err := runCLIWithInput(t, []string{"recover", "--schema", "fit_score"}, "", "Sure!\n```json\n{\"fit_score_0_to_100\": 91,}\n```")
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(out), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record["fit_score_0_to_100"] != float64(91) {
		t.Fatalf("unexpected record %v", record)
	}

	_, _, err = runCLIWithInput(t, []string{"recover"}, "", "no structure at all")
	requireExitCode(t, err, stage.ExitFailure)

	_, _, err = runCLIWithInput(t, []string{"recover", "--schema", "astrology"}, "", "{}")
	if err == nil || !strings.Contains(err.Error(), "unknown schema") {
		t.Fatalf("expected unknown schema error, got %v", err)
	}

	_, _, err = runCLI(t, []string{"recover", filepath.Join(t.TempDir(), "absent.txt")}, "")
	requireExitCode(t, err, stage.ExitMissingInput)
}

func TestClearanceCommand(t *testing.T) {
	out, _, err := runCLIWithInput(t, []string{"clearance"}, "", "Candidates must hold an Active Secret clearance.")
	requireExitCode(t, err, stage.ExitDisqualified)
	requireContains(t, out, "clearance required: matched")

	out, _, err = runCLIWithInput(t, []string{"clearance"}, "", "Remote Go role, no travel.")
	if err != nil {
		t.Fatalf("clearance: %v", err)
	}
	requireContains(t, out, "no clearance requirement")
}

func TestJobsCommandListsCatalog(t *testing.T) {
	env := setupCLITestEnv(t, fitReply)

	out, _, err := runCLI(t, []string{"--json", "jobs"}, env.configPath)
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	var jobs []jobJSON
	if err := json.Unmarshal([]byte(out), &jobs); err != nil {
		t.Fatalf("decode jobs: %v", err)
	}
	byName := map[string]jobJSON{}
	for _, job := range jobs {
		byName[job.Name] = job
	}
	for _, name := range []string{"archive", "populate", "score", "metadata", "analyze", "skills", "bullets", "summary", "outreach", "coverletter"} {
		if _, ok := byName[name]; !ok {
			t.Fatalf("job %q missing from %v", name, jobs)
		}
	}
	if !jobReady(byName["score"]) {
		t.Fatalf("score job should be ready: %+v", byName["score"])
	}

	out, _, err = runCLI(t, []string{"jobs"}, env.configPath)
	if err != nil {
		t.Fatalf("jobs table: %v", err)
	}
	requireContains(t, out, "coverletter")
}

func TestReportCommands(t *testing.T) {
	env := setupCLITestEnv(t, fitReply, trackerRows()...)
	seedPostings(t, env)

	out, _, err := runCLI(t, []string{"followups"}, env.configPath)
	if err != nil {
		t.Fatalf("followups: %v", err)
	}
	requireContains(t, out, "Acme")
	report := testsupport.ReadFile(t, filepath.Join(env.cfg.Paths.ReportsDir, "followups_2026-03-01.md"))
	requireContains(t, report, "Initech")

	out, _, err = runCLI(t, []string{"followups", "--days", "60"}, env.configPath)
	if err != nil {
		t.Fatalf("followups --days: %v", err)
	}
	requireContains(t, out, "0 follow-up(s)")

	out, _, err = runCLI(t, []string{"funnel"}, env.configPath)
	if err != nil {
		t.Fatalf("funnel: %v", err)
	}
	requireContains(t, out, "Total applications: 3")
	if _, err := os.Stat(filepath.Join(env.cfg.Paths.ReportsDir, "funnel_2026-03-01.md")); err != nil {
		t.Fatalf("funnel report missing: %v", err)
	}

	out, _, err = runCLI(t, []string{"index"}, env.configPath)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	requireContains(t, out, "2 posting(s) indexed")
	index := testsupport.ReadFile(t, filepath.Join(env.cfg.Paths.ReportsDir, "job_index.csv"))
	requireContains(t, index, "https://jobs.example/acme")
}

func TestCleanupCommand(t *testing.T) {
	env := setupCLITestEnv(t, fitReply, trackerRows()...)
	seedPostings(t, env)
	orphan := testsupport.WriteItemFile(t, env.cfg, "Defunct Co", "2025-11-02", stages.FileJobText, "gone")

	out, _, err := runCLI(t, []string{"cleanup", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("cleanup dry run: %v", err)
	}
	requireContains(t, out, "would remove")
	requireContains(t, out, "defunct-co")
	if _, err := os.Stat(orphan); err != nil {
		t.Fatalf("dry run removed the orphan: %v", err)
	}

	if _, _, err := runCLI(t, []string{"cleanup"}, env.configPath); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Fatalf("expected orphan removed, stat err=%v", err)
	}
	if _, err := os.Stat(testsupport.ItemDir(t, env.cfg, "Acme", "2026-02-01")); err != nil {
		t.Fatalf("tracked folder must survive: %v", err)
	}
}

func TestHistoryCommand(t *testing.T) {
	env := setupCLITestEnv(t, fitReply, trackerRows()...)
	seedPostings(t, env)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	if _, _, err := runCLI(t, []string{"run", "score"}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err = runCLI(t, []string{"--json", "history", "--job", "score"}, env.configPath)
	if err != nil {
		t.Fatalf("history json: %v", err)
	}
	var runs []struct {
		ID      string
		Job     string
		Written int
	}
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Job != "score" || runs[0].Written != 1 {
		t.Fatalf("unexpected runs %+v", runs)
	}

	out, _, err = runCLI(t, []string{"history", "show", runs[0].ID}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "Acme")
	requireContains(t, out, "disqualified")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, fitReply)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "xlsx")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestRunSendsNotification(t *testing.T) {
	env := setupCLITestEnv(t, fitReply, trackerRows()...)
	seedPostings(t, env)

	var titles []string
	ntfy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		titles = append(titles, r.Header.Get("Title"))
	}))
	defer ntfy.Close()
	f, err := os.OpenFile(env.configPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open config: %v", err)
	}
	fmt.Fprintf(f, "\n[notifications]\nntfy_topic = %q\n", ntfy.URL)
	f.Close()

	if _, _, err := runCLI(t, []string{"run", "score"}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(titles) != 1 || titles[0] != "jobflow - score complete" {
		t.Fatalf("unexpected notifications %v", titles)
	}

	out, _, err := runCLI(t, []string{"notify", "test"}, env.configPath)
	if err != nil {
		t.Fatalf("notify test: %v", err)
	}
	requireContains(t, out, "Test notification sent")
}

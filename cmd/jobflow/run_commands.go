package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jobflow/internal/config"
	"jobflow/internal/history"
	"jobflow/internal/logging"
	"jobflow/internal/notifications"
	"jobflow/internal/sheet"
	"jobflow/internal/stage"
	"jobflow/internal/stages"
	"jobflow/internal/textutil"
	"jobflow/internal/workflow"
)

type runFlags struct {
	dryRun    bool
	limit     int
	date      string
	overwrite bool
}

func (f *runFlags) register(cmd *cobra.Command, batch bool) {
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Classify rows without running stages or writing anything")
	cmd.Flags().StringVar(&f.date, "date", "", "Only rows applied on this date (artifact jobs)")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "Regenerate artifacts that already exist")
	if batch {
		cmd.Flags().IntVar(&f.limit, "limit", 0, "Stop after this many rows were processed (0 = no limit)")
	}
}

func (f *runFlags) jobOptions() (stages.JobOptions, error) {
	opts := stages.JobOptions{Overwrite: f.overwrite}
	if raw := strings.TrimSpace(f.date); raw != "" {
		date, ok := textutil.NormalizeDate(raw)
		if !ok {
			return opts, fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", raw)
		}
		opts.Date = date
	}
	return opts, nil
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run <job>",
		Short: "Run a job over every eligible tracker row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.limit < 0 {
				return errors.New("--limit must not be negative")
			}
			summary, err := runJob(cmd, ctx, args[0], &flags, workflow.Options{
				DryRun: flags.dryRun,
				Limit:  flags.limit,
			})
			if err != nil {
				ctx.notify(cmd.Context(), func(n notifications.Service) error {
					return n.NotifyRunAborted(cmd.Context(), args[0], err)
				})
				if summary.Total > 0 {
					if outErr := reportSummary(cmd, ctx, summary); outErr != nil {
						return outErr
					}
					fmt.Fprintln(cmd.ErrOrStderr(), "run stopped before every row was visited")
				}
				return err
			}
			ctx.notify(cmd.Context(), func(n notifications.Service) error {
				return n.NotifyRunCompleted(cmd.Context(), summary)
			})
			if err := reportSummary(cmd, ctx, summary); err != nil {
				return err
			}
			if !summary.Clean() {
				return withExitCode(stage.ExitFailure, fmt.Errorf("%d row(s) failed", summary.Failed))
			}
			return nil
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newItemCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	var row int
	cmd := &cobra.Command{
		Use:   "item <job>",
		Short: "Run a job for a single tracker row",
		Long: "Run a job for one tracker row. The exit status reports the outcome: " +
			"0 written or already done, 1 failure, 2 missing input, 3 disqualified.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if row < 2 {
				return withExitCode(stage.ExitFailure, errors.New("--row must name a data row (2 or greater)"))
			}
			summary, err := runJob(cmd, ctx, args[0], &flags, workflow.Options{
				DryRun: flags.dryRun,
				Rows:   []int{row},
			})
			if err != nil {
				return withExitCode(stage.ExitCodeForError(err), err)
			}
			if len(summary.Items) == 0 {
				return withExitCode(stage.ExitMissingInput, fmt.Errorf("row %d not found in tracker", row))
			}
			item := summary.Items[0]
			if ctx.JSONMode() {
				if err := writeJSON(cmd, itemView(item)); err != nil {
					return err
				}
			} else {
				printItems(cmd.OutOrStdout(), summary.Items, shouldColorize(cmd.OutOrStdout()))
			}
			return itemExit(item)
		},
	}
	flags.register(cmd, false)
	cmd.Flags().IntVar(&row, "row", 0, "Tracker row number (the header is row 1)")
	_ = cmd.MarkFlagRequired("row")
	return cmd
}

func runJob(cmd *cobra.Command, ctx *commandContext, name string, flags *runFlags, opts workflow.Options) (workflow.Summary, error) {
	jobOpts, err := flags.jobOptions()
	if err != nil {
		return workflow.Summary{}, err
	}
	job, err := ctx.lookupJob(name, jobOpts)
	if err != nil {
		return workflow.Summary{}, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return workflow.Summary{}, err
	}

	var summary workflow.Summary
	err = ctx.withStore(cmd.Context(), func(cfg *config.Config, store sheet.Store) error {
		var procOpts []workflow.Option
		hist, histErr := history.Open(cfg.HistoryPath())
		if histErr != nil {
			logging.WarnWithContext(logger, "run history unavailable", "history_unavailable",
				logging.Error(histErr),
				logging.String(logging.FieldImpact, "this run will not appear in `jobflow history`"),
			)
		} else {
			defer hist.Close()
			procOpts = append(procOpts, workflow.WithHistory(hist))
		}
		processor := workflow.NewProcessor(cfg, store, logger, procOpts...)
		var runErr error
		summary, runErr = processor.Run(cmd.Context(), job, opts)
		return runErr
	})
	return summary, err
}

func reportSummary(cmd *cobra.Command, ctx *commandContext, summary workflow.Summary) error {
	if ctx.JSONMode() {
		return writeJSON(cmd, summaryView(summary))
	}
	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

func itemExit(item workflow.ItemResult) error {
	switch item.Disposition {
	case workflow.DispositionWritten, workflow.DispositionDone, workflow.DispositionPending:
		return nil
	case workflow.DispositionDisqualified:
		return withExitCode(stage.ExitDisqualified, nil)
	default:
		code := stage.ExitCodeForError(item.Err)
		if code == stage.ExitOK {
			code = stage.ExitFailure
		}
		return withExitCode(code, nil)
	}
}

func printSummary(out io.Writer, summary workflow.Summary) {
	colorize := shouldColorize(out)
	printItems(out, summary.Items, colorize)
	mode := ""
	if summary.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(out, "\nJob %s%s: %d rows in %s\n", summary.Job, mode, summary.Total, summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  written=%d done=%d skipped=%d disqualified=%d failed=%d",
		summary.Written, summary.AlreadyDone, summary.Skipped, summary.Disqualified, summary.Failed)
	if summary.DryRun {
		fmt.Fprintf(out, " pending=%d", summary.Pending)
	}
	fmt.Fprintln(out)
}

// printItems lists every row that was not already done.
func printItems(out io.Writer, items []workflow.ItemResult, colorize bool) {
	for _, item := range items {
		if item.Disposition == workflow.DispositionDone && len(items) > 1 {
			continue
		}
		label := "row " + strconv.Itoa(item.Row)
		message := string(item.Disposition)
		if item.Identifier != "" {
			message += " " + item.Identifier
		}
		if detail := itemDetail(item); detail != "" {
			message += ": " + detail
		}
		fmt.Fprintln(out, renderStatusLine(label, dispositionKind(item.Disposition), message, colorize))
	}
}

func itemDetail(item workflow.ItemResult) string {
	if item.Reason != "" {
		return item.Reason
	}
	if item.Err != nil {
		return item.Err.Error()
	}
	return ""
}

type itemJSON struct {
	Row         int    `json:"row"`
	Identifier  string `json:"identifier,omitempty"`
	Date        string `json:"date,omitempty"`
	Location    string `json:"location,omitempty"`
	Disposition string `json:"disposition"`
	Reason      string `json:"reason,omitempty"`
	Error       string `json:"error,omitempty"`
}

type summaryJSON struct {
	RunID        string     `json:"run_id"`
	Job          string     `json:"job"`
	DryRun       bool       `json:"dry_run"`
	Total        int        `json:"total"`
	Written      int        `json:"written"`
	AlreadyDone  int        `json:"already_done"`
	Skipped      int        `json:"skipped"`
	Disqualified int        `json:"disqualified"`
	Failed       int        `json:"failed"`
	Pending      int        `json:"pending"`
	DurationMS   int64      `json:"duration_ms"`
	Items        []itemJSON `json:"items"`
}

func itemView(item workflow.ItemResult) itemJSON {
	view := itemJSON{
		Row:         item.Row,
		Identifier:  item.Identifier,
		Date:        item.Date,
		Location:    item.Location,
		Disposition: string(item.Disposition),
		Reason:      item.Reason,
	}
	if item.Err != nil {
		view.Error = item.Err.Error()
	}
	return view
}

func summaryView(s workflow.Summary) summaryJSON {
	view := summaryJSON{
		RunID:        s.RunID,
		Job:          s.Job,
		DryRun:       s.DryRun,
		Total:        s.Total,
		Written:      s.Written,
		AlreadyDone:  s.AlreadyDone,
		Skipped:      s.Skipped,
		Disqualified: s.Disqualified,
		Failed:       s.Failed,
		Pending:      s.Pending,
		DurationMS:   s.Duration.Milliseconds(),
		Items:        make([]itemJSON, 0, len(s.Items)),
	}
	for _, item := range s.Items {
		view.Items = append(view.Items, itemView(item))
	}
	return view
}

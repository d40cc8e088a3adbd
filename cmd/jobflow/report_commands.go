package main

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"jobflow/internal/config"
	"jobflow/internal/logging"
	"jobflow/internal/notifications"
	"jobflow/internal/reports"
	"jobflow/internal/sheet"
	"jobflow/internal/textutil"
)

// now is the clock used for report dates.
var now = time.Now

func newFollowupsCommand(ctx *commandContext) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "followups",
		Short: "Write the list of applications due a follow-up",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(cfg *config.Config, store sheet.Store) error {
				grid, err := store.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				minDays := cfg.Tracker.FollowupDays
				if cmd.Flags().Changed("days") {
					minDays = days
				}
				today := now()
				items := reports.Followups(grid, reports.ColumnsFromConfig(cfg.Tracker), today, minDays)
				if ctx.JSONMode() {
					return writeJSON(cmd, items)
				}
				path, err := saveReport(ctx, cfg, "followups", today, "md", []byte(reports.RenderFollowups(items, today, minDays)))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(items) > 0 {
					rows := make([][]string, 0, len(items))
					for _, f := range items {
						rows = append(rows, []string{strconv.Itoa(f.Row), f.Company, f.Role, f.AppliedAt.Format(textutil.DateLayout), strconv.Itoa(f.AgeDays)})
					}
					fmt.Fprintln(out, renderTable([]string{"Row", "Company", "Role", "Applied", "Days"}, rows,
						[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight}))
				}
				fmt.Fprintf(out, "%d follow-up(s) written to %s\n", len(items), path)
				ctx.notify(cmd.Context(), func(n notifications.Service) error {
					return n.NotifyFollowupsDue(cmd.Context(), len(items), path)
				})
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Minimum days since applying (defaults to tracker.followup_days)")
	return cmd
}

func newFunnelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "funnel",
		Short: "Write application funnel statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(cfg *config.Config, store sheet.Store) error {
				grid, err := store.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				stats := reports.Funnel(grid, reports.ColumnsFromConfig(cfg.Tracker))
				if ctx.JSONMode() {
					return writeJSON(cmd, stats)
				}
				today := now()
				content := reports.RenderFunnel(stats, today)
				path, err := saveReport(ctx, cfg, "funnel", today, "md", []byte(content))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprint(out, content)
				fmt.Fprintf(out, "\nWritten to %s\n", path)
				return nil
			})
		},
	}
}

func newIndexCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Write the CSV index of tracked postings and their archive folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(cfg *config.Config, store sheet.Store) error {
				grid, err := store.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				entries := reports.Index(grid, reports.ColumnsFromConfig(cfg.Tracker), cfg.Paths.DataDir)
				if ctx.JSONMode() {
					return writeJSON(cmd, entries)
				}
				var buf bytes.Buffer
				if err := reports.WriteIndexCSV(&buf, entries); err != nil {
					return err
				}
				path, err := reports.Save(cfg.Paths.ReportsDir, reports.IndexFileName, buf.Bytes())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d posting(s) indexed in %s\n", len(entries), path)
				return nil
			})
		},
	}
}

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove job folders that no longer match a tracker row",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(cfg *config.Config, store sheet.Store) error {
				grid, err := store.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				orphans, err := reports.Orphans(grid, reports.ColumnsFromConfig(cfg.Tracker), cfg.Paths.DataDir)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if ctx.JSONMode() && dryRun {
					return writeJSON(cmd, orphans)
				}
				for _, o := range orphans {
					verb := "remove"
					if dryRun {
						verb = "would remove"
					}
					fmt.Fprintf(out, "%s %s\n", verb, o.Rel)
				}
				if dryRun {
					fmt.Fprintf(out, "%d orphaned folder(s) found\n", len(orphans))
					return nil
				}
				removed, err := reports.RemoveOrphans(orphans)
				fmt.Fprintf(out, "%d orphaned folder(s) removed\n", removed)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List orphaned folders without deleting them")
	return cmd
}

// saveReport writes a dated report and prunes older copies past retention.
func saveReport(ctx *commandContext, cfg *config.Config, prefix string, day time.Time, ext string, content []byte) (string, error) {
	path, err := reports.Save(cfg.Paths.ReportsDir, reports.DatedName(prefix, day, ext), content)
	if err != nil {
		return "", err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return path, nil
	}
	logging.PruneOldFiles(logger, cfg.Logging.RetentionDays, day, logging.RetentionTarget{
		Dir:     cfg.Paths.ReportsDir,
		Pattern: prefix + "_*." + ext,
	})
	return path, nil
}

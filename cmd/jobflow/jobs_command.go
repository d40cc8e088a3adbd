package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jobflow/internal/stages"
	"jobflow/internal/workflow"
)

type jobJSON struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Stages      []string     `json:"stages"`
	Health      []healthJSON `json:"health"`
}

type healthJSON struct {
	Stage  string `json:"stage"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List jobs and the readiness of their stages",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := ctx.stageDeps()
			if err != nil {
				return err
			}
			jobs := stages.Jobs(deps, stages.JobOptions{})
			names := stages.JobNames(jobs)

			views := make([]jobJSON, 0, len(names))
			for _, name := range names {
				job := jobs[name]
				view := jobJSON{Name: job.Name, Description: job.Description, Stages: job.StageNames()}
				for _, h := range workflow.Health(cmd.Context(), job) {
					view.Health = append(view.Health, healthJSON{Stage: h.Name, Ready: h.Ready, Detail: h.Detail})
				}
				views = append(views, view)
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, views)
			}

			rows := make([][]string, 0, len(views))
			for _, view := range views {
				rows = append(rows, []string{view.Name, strings.Join(view.Stages, " > "), yesNo(jobReady(view)), view.Description})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Job", "Stages", "Ready", "Description"}, rows, nil))
			for _, view := range views {
				for _, h := range view.Health {
					if !h.Ready {
						fmt.Fprintln(out, renderStatusLine(view.Name+"/"+h.Stage, statusWarn, h.Detail, shouldColorize(out)))
					}
				}
			}
			return nil
		},
	}
}

func jobReady(view jobJSON) bool {
	for _, h := range view.Health {
		if !h.Ready {
			return false
		}
	}
	return true
}

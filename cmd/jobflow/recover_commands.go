package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jobflow/internal/recovery"
	"jobflow/internal/stage"
	"jobflow/internal/stages"
)

func newRecoverCommand() *cobra.Command {
	var schemaName string
	cmd := &cobra.Command{
		Use:   "recover [file]",
		Short: "Recover a JSON object from raw model output",
		Long: "Read raw model output from a file or stdin, recover the JSON object it " +
			"contains, and print it. With --schema the object is validated against a " +
			"stage schema and defaults are filled in.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var schema *recovery.Schema
			if name := strings.TrimSpace(schemaName); name != "" {
				s, ok := stageSchemas()[strings.ToLower(name)]
				if !ok {
					return fmt.Errorf("unknown schema %q (known: metadata, fit_score, fit, skills, bullets)", name)
				}
				schema = s
			}
			record, err := recovery.Recover(raw, schema)
			if err != nil {
				return withExitCode(stage.ExitFailure, err)
			}
			return writeJSON(cmd, record)
		},
	}
	cmd.Flags().StringVar(&schemaName, "schema", "", "Validate against a stage schema (metadata, fit_score, fit, skills, bullets)")
	return cmd
}

func newClearanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clearance [file]",
		Short: "Check posting text for security clearance requirements",
		Long: "Scan posting text from a file or stdin. Exits 3 when a clearance " +
			"requirement is found and 0 otherwise.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if phrase, found := stages.RequiresClearance(raw); found {
				fmt.Fprintf(out, "clearance required: matched %q\n", phrase)
				return withExitCode(stage.ExitDisqualified, nil)
			}
			fmt.Fprintln(out, "no clearance requirement found")
			return nil
		},
	}
}

func stageSchemas() map[string]*recovery.Schema {
	return map[string]*recovery.Schema{
		"metadata":  stages.MetadataSchema,
		"fit_score": stages.FitScoreSchema,
		"fit":       stages.AnalysisSchema,
		"skills":    stages.SkillsSchema,
		"bullets":   stages.BulletsSchema,
	}
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", withExitCode(stage.ExitMissingInput, fmt.Errorf("read input: %w", err))
	}
	return string(data), nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfbatch/internal/runlog"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded conversion runs for an output directory",
	Long: `Runs lists the conversion runs recorded in the ledger under the given
output directory, newest first. With --failures, the failed files of each
listed run are printed as well.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().String("output", "", "output directory whose ledger to read")
	runsCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	runsCmd.Flags().Bool("failures", false, "show failed files per run")

	runsCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output")
	limit, _ := cmd.Flags().GetInt("limit")
	showFailures, _ := cmd.Flags().GetBool("failures")

	store, err := runlog.Open(outputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := os.Stdout
	for _, run := range runs {
		duration := run.FinishedAt.Sub(run.StartedAt).Round(time.Second)
		fmt.Fprintf(w, "%s  %-8s  %3d converted  %3d skipped  %3d failed  (%s)  %s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"), run.Variant,
			run.Converted, run.Skipped, run.Failed, duration, run.RunID)

		if showFailures && run.Failed > 0 {
			failures, err := store.Failures(cmd.Context(), run.RunID)
			if err != nil {
				return err
			}
			for _, f := range failures {
				fmt.Fprintf(w, "    failed: %s (%s)\n", f.File, f.Error)
			}
		}
	}
	return nil
}

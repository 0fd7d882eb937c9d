// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfbatch/internal/batch"
	"github.com/pdiddy/pdfbatch/internal/converter"
	"github.com/pdiddy/pdfbatch/internal/runlog"
	"github.com/pdiddy/pdfbatch/pkg/types"
)

// convertConfig builds the run configuration from flags, the config file,
// and PDFBATCH_* environment variables (flags win).
func convertConfig() (types.ConvertConfig, error) {
	variant, err := types.ParseVariant(viper.GetString("converter"))
	if err != nil {
		return types.ConvertConfig{}, err
	}

	return types.ConvertConfig{
		Variant:      variant,
		InputDir:     viper.GetString("input"),
		OutputDir:    viper.GetString("output"),
		BatchSize:    viper.GetInt("batch_size"),
		NumProcesses: viper.GetInt("num_processes"),
		Pages:        viper.GetInt("pages"),
		NumDevices:   viper.GetInt("num_devices"),
		NumWorkers:   viper.GetInt("num_workers"),
		JobTimeout:   viper.GetDuration("timeout"),
	}, nil
}

// checkDirs verifies the input directory exists and the output directory
// is writable. Either failing aborts the run before any batch starts.
func checkDirs(cfg types.ConvertConfig) error {
	info, err := os.Stat(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %s is not a directory", cfg.InputDir)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	probe, err := os.CreateTemp(cfg.OutputDir, ".pdfbatch-probe-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", cfg.OutputDir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := convertConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := checkDirs(cfg); err != nil {
		return err
	}

	conv, err := converter.New(cfg)
	if err != nil {
		return err
	}

	pending, total, err := batch.Pending(cfg.InputDir, cfg.OutputDir, cfg.Variant.OutputExt())
	if err != nil {
		return err
	}

	slog.Info("starting run",
		"converter", cfg.Variant,
		"input", cfg.InputDir,
		"output", cfg.OutputDir,
		"workers", cfg.Workers(),
		"batch_size", cfg.BatchSize)
	fmt.Printf("Found %d PDF file(s); %d already converted, %d to process.\n",
		total, total-len(pending), len(pending))

	d := batch.New(conv, cfg)
	sum, err := d.Run(cmd.Context(), pending, total-len(pending), os.Stdout)
	if err != nil {
		return err
	}

	noLedger, _ := cmd.Flags().GetBool("no-ledger")
	if !noLedger {
		recordRun(cmd, cfg, sum)
	}

	if sum.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion; see %s",
			sum.Failed, filepath.Join(cfg.OutputDir, batch.FailureLogName))
	}
	return nil
}

// recordRun persists the summary to the ledger and the YAML report.
// Bookkeeping failures are warnings; they never fail a finished run.
func recordRun(cmd *cobra.Command, cfg types.ConvertConfig, sum types.RunSummary) {
	store, err := runlog.Open(cfg.OutputDir)
	if err != nil {
		slog.Warn("opening run ledger", "error", err)
		return
	}
	defer store.Close()

	if err := store.Record(cmd.Context(), sum); err != nil {
		slog.Warn("recording run", "run_id", sum.RunID, "error", err)
	}
	if err := runlog.WriteReport(cfg.OutputDir, sum); err != nil {
		slog.Warn("writing run report", "error", err)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfbatch CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is both the base command and the conversion command: pdfbatch is
// invoked with flags directly, subcommands cover bookkeeping.
var rootCmd = &cobra.Command{
	Use:   "pdfbatch",
	Short: "Batch-convert directories of PDF files to text or Markdown",
	Long: `pdfbatch dispatches every PDF in an input directory to a conversion
engine and writes one converted file per input into an output directory.
Inputs whose output already exists are skipped, so an interrupted run is
resumed by repeating the same command.

Three engines are supported: pymu (fast in-process text extraction, the
only engine honoring --pages), docling (structure-aware Markdown with
table recognition, requires the docling executable), and marker
(GPU-accelerated formatting-preserving Markdown, requires the
marker_chunk_convert executable).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(cmd)
	},
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfbatch.yaml or ~/.config/pdfbatch/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, or error")

	rootCmd.Flags().String("converter", "pymu", "converter to use: docling, marker, or pymu")
	rootCmd.Flags().String("input", "", "input directory containing PDF files")
	rootCmd.Flags().String("output", "", "output directory for converted files")
	rootCmd.Flags().Int("batch_size", 100, "number of files per batch")
	rootCmd.Flags().Int("num_processes", 4, "parallel conversions for the CPU converters")
	rootCmd.Flags().Int("pages", -1, "pages to extract per file, -1 for all (pymu only)")
	rootCmd.Flags().Int("num_devices", 1, "GPU devices (marker only)")
	rootCmd.Flags().Int("num_workers", 16, "workers per device (marker only)")
	rootCmd.Flags().Duration("timeout", 0, "per-file conversion timeout, 0 disables")
	rootCmd.Flags().Bool("no-ledger", false, "skip recording the run in the ledger")

	rootCmd.MarkFlagRequired("input")
	rootCmd.MarkFlagRequired("output")

	for _, name := range []string{
		"converter", "input", "output", "batch_size", "num_processes",
		"pages", "num_devices", "num_workers", "timeout",
	} {
		viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfbatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfbatch"))
		}
	}

	viper.SetEnvPrefix("PDFBATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initLogger installs a tint console handler on the default slog logger.
func initLogger(cmd *cobra.Command) {
	level, _ := cmd.Flags().GetString("log-level")
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(level),
		TimeFormat: time.TimeOnly,
	})))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

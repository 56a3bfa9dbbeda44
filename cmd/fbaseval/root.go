package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"fbaseval/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	config    string
	dir       string
	verbose   bool
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "fbaseval",
	Short: "Empirical evaluation pipeline for an FBAS analyzer",
	Long: "fbaseval drives batches of consensus-topology experiments:\n" +
		"it enumerates parameter sweeps, runs the external simulator and\n" +
		"analyzer binaries, parses their reports into per-run metrics, and\n" +
		"aggregates repeated runs into summary statistics and bar charts.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if rootFlags.verbose {
			level = slog.LevelDebug
		}
		logging.Init(level, rootFlags.logFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootFlags.config, "config", "c", "experiments.yaml", "Experiment sweep config file")
	pf.StringVarP(&rootFlags.dir, "dir", "d", ".", "Artifact directory")
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Debug-level diagnostics")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Diagnostic format: text or json")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

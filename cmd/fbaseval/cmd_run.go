package main

import (
	"github.com/spf13/cobra"

	"fbaseval/internal/runner"
)

var runFlags struct {
	jobs  int
	force bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the simulator and analyzer for every planned run",
	Long: `Run invokes the external simulator for each parameter combination,
writing the topology to <base>.fbas.json, then feeds it to the analyzer,
writing the report to <base>.result.out. Runs whose report already
exists are skipped unless --force is given. Failed runs are logged and
leave a gap; they never abort the batch.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.IntVarP(&runFlags.jobs, "jobs", "j", 1, "Concurrent runs (1 = strictly sequential)")
	f.BoolVar(&runFlags.force, "force", false, "Redo runs whose artifacts already exist")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, err = runner.Run(cmd.Context(), cfg, runner.Options{
		Dir:   rootFlags.dir,
		Jobs:  runFlags.jobs,
		Force: runFlags.force,
	})
	return err
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "List every run the config expands to",
	Long: `Plan expands the experiment sweep into its full set of concrete runs
and prints one line per run with the artifact paths the batch will use.
The order is deterministic: parameters are fixed lexicographically and
the run index varies innermost.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	total := 0
	for _, exp := range cfg.Experiments {
		for _, comb := range exp.Combinations() {
			fmt.Fprintf(out, "%s %s -> %s\n",
				exp.Name, comb.String(), exp.ResultPath(rootFlags.dir, comb))
			total++
		}
	}
	fmt.Fprintf(out, "# %d runs\n", total)
	return nil
}

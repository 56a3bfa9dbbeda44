package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fbaseval/internal/aggregate"
	"fbaseval/internal/format"
)

var showFlags struct {
	in       string
	markdown bool
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Render an aggregated table for reading",
	Long: `Show pretty-prints an aggregated CSV table produced by the aggregate
stage. Unknown statistics render as "-" so they stay distinguishable
from measured zeros.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	f := showCmd.Flags()
	f.StringVarP(&showFlags.in, "in", "i", "-", "Aggregated table to read (\"-\" for stdin)")
	f.BoolVar(&showFlags.markdown, "markdown", false, "Emit a Markdown table instead of box drawing")
}

func runShow(cmd *cobra.Command, args []string) error {
	in, err := openInput(showFlags.in)
	if err != nil {
		return err
	}
	defer in.Close()

	s, rows, err := aggregate.ReadTable(in)
	if err != nil {
		return err
	}

	mode := format.ASCII
	if showFlags.markdown {
		mode = format.Markdown
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.Table(s, rows, mode))
	return nil
}

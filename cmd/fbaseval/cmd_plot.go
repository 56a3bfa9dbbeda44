package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"fbaseval/internal/aggregate"
	"fbaseval/internal/chart"
)

var plotFlags struct {
	in     string
	outDir string
	format string
	width  float64
	height float64
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render aggregated statistics as grouped bar charts",
	Long: `Plot reads an aggregated CSV table and renders one bar chart per
experiment and first-parameter value: one bar group per remaining
parameter value, three bars per group, with error whiskers spanning
the observed min/max around each mean. Charts that fail to render are
logged and skipped so one bad group never sinks the batch.`,
	Args: cobra.NoArgs,
	RunE: runPlot,
}

func init() {
	f := plotCmd.Flags()
	f.StringVarP(&plotFlags.in, "in", "i", "-", "Aggregated table to read (\"-\" for stdin)")
	f.StringVarP(&plotFlags.outDir, "out-dir", "O", ".", "Directory for chart files")
	f.StringVar(&plotFlags.format, "format", "png", "Image format: png, svg or pdf")
	f.Float64Var(&plotFlags.width, "width", 6, "Chart width in inches")
	f.Float64Var(&plotFlags.height, "height", 4, "Chart height in inches")
}

func runPlot(cmd *cobra.Command, args []string) error {
	in, err := openInput(plotFlags.in)
	if err != nil {
		return err
	}
	defer in.Close()

	s, rows, err := aggregate.ReadTable(in)
	if err != nil {
		return err
	}

	files, err := chart.Render(s, rows, chart.Options{
		Dir:    plotFlags.outDir,
		Format: plotFlags.format,
		Width:  vg.Length(plotFlags.width) * vg.Inch,
		Height: vg.Length(plotFlags.height) * vg.Inch,
	})
	if err != nil {
		return err
	}

	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}

// Package format renders the aggregated statistics table for terminals,
// as fixed-width ASCII or GitHub-flavoured Markdown.
package format

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"fbaseval/internal/aggregate"
	"fbaseval/internal/metrics"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// Table renders the aggregated rows under the schema's column order.
// Unknown measurements render as a dash so they read as "not measured"
// rather than zero.
func Table(s aggregate.Schema, rows []aggregate.Row, mode Mode) string {
	w := table.NewWriter()
	if mode == ASCII {
		w.SetStyle(table.StyleLight)
	}

	headerCols := append(s.Header(), "runs")
	header := make(table.Row, len(headerCols))
	for i, c := range headerCols {
		header[i] = c
	}
	w.AppendHeader(header)

	numeric := make([]table.ColumnConfig, 0, 8)
	for i := len(s.ParamNames) + 2; i <= len(headerCols); i++ {
		numeric = append(numeric, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	w.SetColumnConfigs(numeric)

	for _, r := range rows {
		row := table.Row{r.Experiment}
		for _, v := range r.Params {
			row = append(row, v)
		}
		row = append(row,
			formatFloat(r.QuorumMean),
			cell(r.Blocking.Min), cell(r.Blocking.Max), cell(r.Blocking.Mean),
			cell(r.Intersection.Min), cell(r.Intersection.Max), cell(r.Intersection.Mean),
			r.Samples,
		)
		w.AppendRow(row)
	}

	if mode == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

func cell(s metrics.Stat) string {
	if !s.Valid {
		return "-"
	}
	return formatFloat(s.Float64)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

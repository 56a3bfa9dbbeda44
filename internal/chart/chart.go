// Package chart renders the aggregated statistics as grouped bar charts:
// one file per (experiment, first-parameter value), one bar group per
// second-parameter value, with asymmetric error whiskers spanning the
// observed min/max around each mean.
package chart

import (
	"fmt"
	"image/color"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"fbaseval/internal/aggregate"
	"fbaseval/internal/logging"
	"fbaseval/internal/metrics"
)

// slotsPerGroup is the x-axis layout: three bars plus one gap per group.
const slotsPerGroup = 4

// Options controls chart output.
type Options struct {
	Dir    string
	Format string // image extension, default "png"
	Width  vg.Length
	Height vg.Length
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = "png"
	}
	if o.Width == 0 {
		o.Width = 6 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 4 * vg.Inch
	}
	return o
}

// series describes one of the three bars per group.
type series struct {
	name  string
	color color.RGBA
	value func(aggregate.Row) metrics.Stat
}

var allSeries = []series{
	{"blocking set mean", color.RGBA{R: 255, G: 99, B: 132, A: 255},
		func(r aggregate.Row) metrics.Stat { return r.Blocking.Mean }},
	{"intersection mean", color.RGBA{R: 54, G: 162, B: 235, A: 255},
		func(r aggregate.Row) metrics.Stat { return r.Intersection.Mean }},
	{"quorum count mean", color.RGBA{R: 255, G: 205, B: 86, A: 255},
		func(r aggregate.Row) metrics.Stat { return metrics.Known(r.QuorumMean) }},
}

// whiskers returns the asymmetric error extents for one bar, or zero
// widths where no spread is tracked or the mean itself is unknown.
func whiskers(r aggregate.Row, i int) (low, high float64) {
	var b metrics.Bounds
	switch i {
	case 0:
		b = r.Blocking
	case 1:
		b = r.Intersection
	default:
		return 0, 0 // quorum count: no min/max tracked, plain bar
	}
	if !b.Mean.Valid || !b.Min.Valid || !b.Max.Valid {
		return 0, 0
	}
	return b.Mean.Float64 - b.Min.Float64, b.Max.Float64 - b.Mean.Float64
}

// Render writes one chart per (experiment, first-parameter value) pair and
// returns the paths written. Sub-groups without rows are skipped with a
// diagnostic; a failed chart degrades to a diagnostic, not a batch error.
func Render(s aggregate.Schema, rows []aggregate.Row, opts Options) ([]string, error) {
	logger := logging.New("plot")
	opts = opts.withDefaults()

	if len(s.ParamNames) == 0 {
		return nil, fmt.Errorf("schema has no parameters to group by")
	}

	var written []string
	for _, key := range subGroups(rows) {
		group := filterGroup(rows, key)
		if len(group) == 0 {
			logger.Warn("empty sub-group, skipping", "experiment", key.experiment, "p1", key.p1)
			continue
		}

		name := fmt.Sprintf("plot_%s_%s%s.%s", key.experiment, s.ParamNames[0], key.p1, opts.Format)
		path := filepath.Join(opts.Dir, name)
		if err := renderOne(s, group, key, path, opts); err != nil {
			logger.Error("chart failed", "path", path, "error", err)
			continue
		}
		written = append(written, path)
	}
	return written, nil
}

type groupKey struct {
	experiment string
	p1         string
}

// subGroups lists the distinct (experiment, p1-value) pairs in row order,
// which Aggregate already sorted.
func subGroups(rows []aggregate.Row) []groupKey {
	var keys []groupKey
	seen := make(map[groupKey]bool)
	for _, r := range rows {
		k := groupKey{experiment: r.Experiment, p1: r.Params[0]}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

func filterGroup(rows []aggregate.Row, key groupKey) []aggregate.Row {
	var out []aggregate.Row
	for _, r := range rows {
		if r.Experiment == key.experiment && r.Params[0] == key.p1 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lessNumeric(p2Value(out[i]), p2Value(out[j]))
	})
	return out
}

// p2Value is the x-axis grouping value; a single-parameter sweep charts
// everything in one group labeled by the first parameter.
func p2Value(r aggregate.Row) string {
	if len(r.Params) > 1 {
		return r.Params[1]
	}
	return r.Params[0]
}

func lessNumeric(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}

// errorPoints feeds plotter.NewYErrorBars: bar centers with asymmetric
// extents.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

func renderOne(s aggregate.Schema, group []aggregate.Row, key groupKey, path string, opts Options) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s=%s)", key.experiment, s.ParamNames[0], key.p1)
	p.Y.Label.Text = "set size / count"
	if len(s.ParamNames) > 1 {
		p.X.Label.Text = s.ParamNames[1]
	}

	// Each second-parameter value owns a slot group of three bars. The
	// bars live in data coordinates so the error whiskers line up exactly:
	// each series gets a sparse value vector with zero-height bars in the
	// other series' slots.
	total := len(group) * slotsPerGroup
	for si, sr := range allSeries {
		values := make(plotter.Values, total)
		points := errorPoints{}
		for gi, row := range group {
			stat := sr.value(row)
			slot := gi*slotsPerGroup + si

			// A fully-unknown mean charts as zero to keep the chart
			// rectangular; the CSV keeps the real distinction.
			if stat.Valid {
				values[slot] = stat.Float64
			}

			low, high := whiskers(row, si)
			points.XYs = append(points.XYs, plotter.XY{X: float64(slot), Y: values[slot]})
			points.YErrors = append(points.YErrors, struct{ Low, High float64 }{Low: low, High: high})
		}

		bars, err := plotter.NewBarChart(values, vg.Points(18))
		if err != nil {
			return fmt.Errorf("bar chart: %w", err)
		}
		bars.Color = sr.color
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(sr.name, bars)

		errBars, err := plotter.NewYErrorBars(points)
		if err != nil {
			return fmt.Errorf("error bars: %w", err)
		}
		p.Add(errBars)
	}

	ticks := make([]plot.Tick, len(group))
	for gi, row := range group {
		ticks[gi] = plot.Tick{Value: float64(gi*slotsPerGroup + 1), Label: p2Value(row)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Min = -1
	p.X.Max = float64(total)
	p.Legend.Top = true

	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// Package aggregate reduces repeated runs of the same parameter
// combination to summary statistics and serializes the result as a
// delimited table. Unknown measurements are skipped when reducing and
// serialized as empty fields, never as zero.
package aggregate

import (
	"fmt"
	"sort"
	"strconv"

	"fbaseval/internal/logging"
	"fbaseval/internal/metrics"
	"fbaseval/internal/sweep"
)

// Schema fixes the parameter column set and order for one batch. It is
// threaded through aggregation, serialization and charting so independent
// batches with different parameter names never interfere.
type Schema struct {
	ParamNames []string
}

// NewSchema builds a schema from a set of parameter names, sorted.
func NewSchema(names []string) Schema {
	seen := make(map[string]bool)
	var sorted []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			sorted = append(sorted, n)
		}
	}
	sort.Strings(sorted)
	return Schema{ParamNames: sorted}
}

// metricColumns is the fixed tail of the aggregated table header.
var metricColumns = []string{
	"total_quorum_mean",
	"blocking_set_min", "blocking_set_max", "blocking_set_mean",
	"intersection_min", "intersection_max", "intersection_mean",
}

// Header returns the aggregated table's column names: experiment_name,
// the sorted parameter names, then the metric columns.
func (s Schema) Header() []string {
	header := append([]string{"experiment_name"}, s.ParamNames...)
	return append(header, metricColumns...)
}

// Row is one (experiment, parameter values) group reduced across its runs.
type Row struct {
	Experiment   string
	Params       []string // values aligned with Schema.ParamNames
	QuorumMean   float64
	Blocking     metrics.Bounds
	Intersection metrics.Bounds
	Samples      int
}

// Aggregate groups the rows by (experiment, parameter values) and reduces
// each group: arithmetic mean of the quorum count and of the *mean fields,
// group-wise min/max of the *min/*max fields, run indices discarded.
// Groups with fewer than two rows are reported and excluded; a spread
// statistic needs at least two samples. Output rows are ordered by
// experiment name, then parameter values (numeric-aware).
func Aggregate(s Schema, rows []metrics.Row) []Row {
	logger := logging.New("aggregate")

	type group struct {
		experiment string
		params     []string
		rows       []metrics.Row
	}

	groups := make(map[string]*group)
	for _, r := range rows {
		params := s.paramValues(r.Params)
		key := r.Experiment
		for _, v := range params {
			key += "\x00" + v
		}
		g, ok := groups[key]
		if !ok {
			g = &group{experiment: r.Experiment, params: params}
			groups[key] = g
		}
		g.rows = append(g.rows, r)
	}

	out := make([]Row, 0, len(groups))
	for _, g := range groups {
		if len(g.rows) < 2 {
			logger.Warn("group has too few runs for a spread statistic, excluding",
				"experiment", g.experiment, "params", fmt.Sprint(g.params), "runs", len(g.rows))
			continue
		}
		out = append(out, reduce(g.experiment, g.params, g.rows))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Experiment != out[j].Experiment {
			return out[i].Experiment < out[j].Experiment
		}
		for k := range out[i].Params {
			if out[i].Params[k] != out[j].Params[k] {
				return lessValue(out[i].Params[k], out[j].Params[k])
			}
		}
		return false
	})

	return out
}

func (s Schema) paramValues(params []sweep.ParamValue) []string {
	values := make([]string, len(s.ParamNames))
	for i, name := range s.ParamNames {
		for _, p := range params {
			if p.Name == name {
				values[i] = string(p.Value)
				break
			}
		}
	}
	return values
}

func reduce(experiment string, params []string, rows []metrics.Row) Row {
	quorumSum := 0.0
	for _, r := range rows {
		quorumSum += r.QuorumCount
	}

	pick := func(f func(metrics.Row) metrics.Stat) []metrics.Stat {
		stats := make([]metrics.Stat, len(rows))
		for i, r := range rows {
			stats[i] = f(r)
		}
		return stats
	}

	return Row{
		Experiment: experiment,
		Params:     params,
		QuorumMean: quorumSum / float64(len(rows)),
		Blocking: metrics.Bounds{
			Min:  reduceMin(pick(func(r metrics.Row) metrics.Stat { return r.Blocking.Min })),
			Max:  reduceMax(pick(func(r metrics.Row) metrics.Stat { return r.Blocking.Max })),
			Mean: reduceMean(pick(func(r metrics.Row) metrics.Stat { return r.Blocking.Mean })),
		},
		Intersection: metrics.Bounds{
			Min:  reduceMin(pick(func(r metrics.Row) metrics.Stat { return r.Intersection.Min })),
			Max:  reduceMax(pick(func(r metrics.Row) metrics.Stat { return r.Intersection.Max })),
			Mean: reduceMean(pick(func(r metrics.Row) metrics.Stat { return r.Intersection.Mean })),
		},
		Samples: len(rows),
	}
}

// The reducers skip unknown inputs; the result is unknown only when every
// input was unknown. This matches how the measurements were produced: a
// run whose intersection mean could not be determined contributes its
// known min/max but nothing to the mean.

func reduceMin(stats []metrics.Stat) metrics.Stat {
	out := metrics.Unknown
	for _, s := range stats {
		if s.Valid && (!out.Valid || s.Float64 < out.Float64) {
			out = s
		}
	}
	return out
}

func reduceMax(stats []metrics.Stat) metrics.Stat {
	out := metrics.Unknown
	for _, s := range stats {
		if s.Valid && (!out.Valid || s.Float64 > out.Float64) {
			out = s
		}
	}
	return out
}

func reduceMean(stats []metrics.Stat) metrics.Stat {
	sum, n := 0.0, 0
	for _, s := range stats {
		if s.Valid {
			sum += s.Float64
			n++
		}
	}
	if n == 0 {
		return metrics.Unknown
	}
	return metrics.Known(sum / float64(n))
}

// lessValue compares two parameter values numerically when both parse as
// numbers, lexicographically otherwise.
func lessValue(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}

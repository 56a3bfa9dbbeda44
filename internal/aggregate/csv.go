package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"fbaseval/internal/metrics"
	"fbaseval/internal/sweep"
)

// rowColumns is the fixed tail of the per-run row table header.
var rowColumns = []string{
	"total_quorum_count",
	"blocking_set_min", "blocking_set_max", "blocking_set_mean",
	"intersection_min", "intersection_max", "intersection_mean",
	"run",
}

func formatStat(s metrics.Stat) string {
	if !s.Valid {
		return ""
	}
	return strconv.FormatFloat(s.Float64, 'g', -1, 64)
}

func parseStat(field string) (metrics.Stat, error) {
	if field == "" {
		return metrics.Unknown, nil
	}
	f, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return metrics.Unknown, err
	}
	return metrics.Known(f), nil
}

// WriteRows serializes per-run metric rows as CSV: experiment_name, the
// schema's parameter columns, the metric columns, then the run index.
func WriteRows(w io.Writer, s Schema, rows []metrics.Row) error {
	cw := csv.NewWriter(w)

	header := append([]string{"experiment_name"}, s.ParamNames...)
	if err := cw.Write(append(header, rowColumns...)); err != nil {
		return err
	}

	for _, r := range rows {
		record := append([]string{r.Experiment}, s.paramValues(r.Params)...)
		record = append(record,
			strconv.FormatFloat(r.QuorumCount, 'g', -1, 64),
			formatStat(r.Blocking.Min), formatStat(r.Blocking.Max), formatStat(r.Blocking.Mean),
			formatStat(r.Intersection.Min), formatStat(r.Intersection.Max), formatStat(r.Intersection.Mean),
			strconv.Itoa(r.Run),
		)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadRows parses a per-run row table written by WriteRows, recovering the
// schema from the header.
func ReadRows(r io.Reader) (Schema, []metrics.Row, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return Schema{}, nil, fmt.Errorf("read header: %w", err)
	}
	paramNames, err := splitHeader(header, rowColumns)
	if err != nil {
		return Schema{}, nil, err
	}
	s := Schema{ParamNames: paramNames}

	var rows []metrics.Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return s, nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := metrics.Row{Experiment: record[0]}
		for i, name := range paramNames {
			row.Params = append(row.Params, sweep.ParamValue{Name: name, Value: sweep.Value(record[1+i])})
		}

		m := record[1+len(paramNames):]
		if row.QuorumCount, err = strconv.ParseFloat(m[0], 64); err != nil {
			return s, nil, fmt.Errorf("line %d: quorum count: %w", line, err)
		}
		if row.Blocking, err = parseBounds(m[1], m[2], m[3]); err != nil {
			return s, nil, fmt.Errorf("line %d: %w", line, err)
		}
		if row.Intersection, err = parseBounds(m[4], m[5], m[6]); err != nil {
			return s, nil, fmt.Errorf("line %d: %w", line, err)
		}
		if row.Run, err = strconv.Atoi(m[7]); err != nil {
			return s, nil, fmt.Errorf("line %d: run: %w", line, err)
		}

		rows = append(rows, row)
	}
	return s, rows, nil
}

// WriteTable serializes the aggregated table. Unknown values become empty
// fields so they stay distinguishable from measured zeros.
func WriteTable(w io.Writer, s Schema, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(s.Header()); err != nil {
		return err
	}
	for _, r := range rows {
		record := append([]string{r.Experiment}, r.Params...)
		record = append(record,
			strconv.FormatFloat(r.QuorumMean, 'g', -1, 64),
			formatStat(r.Blocking.Min), formatStat(r.Blocking.Max), formatStat(r.Blocking.Mean),
			formatStat(r.Intersection.Min), formatStat(r.Intersection.Max), formatStat(r.Intersection.Mean),
		)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTable parses an aggregated table written by WriteTable.
func ReadTable(r io.Reader) (Schema, []Row, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return Schema{}, nil, fmt.Errorf("read header: %w", err)
	}
	paramNames, err := splitHeader(header, metricColumns)
	if err != nil {
		return Schema{}, nil, err
	}
	s := Schema{ParamNames: paramNames}

	var rows []Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return s, nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := Row{
			Experiment: record[0],
			Params:     append([]string(nil), record[1:1+len(paramNames)]...),
		}

		m := record[1+len(paramNames):]
		if row.QuorumMean, err = strconv.ParseFloat(m[0], 64); err != nil {
			return s, nil, fmt.Errorf("line %d: quorum mean: %w", line, err)
		}
		if row.Blocking, err = parseBounds(m[1], m[2], m[3]); err != nil {
			return s, nil, fmt.Errorf("line %d: %w", line, err)
		}
		if row.Intersection, err = parseBounds(m[4], m[5], m[6]); err != nil {
			return s, nil, fmt.Errorf("line %d: %w", line, err)
		}

		rows = append(rows, row)
	}
	return s, rows, nil
}

func parseBounds(min, max, mean string) (metrics.Bounds, error) {
	var b metrics.Bounds
	var err error
	if b.Min, err = parseStat(min); err != nil {
		return b, fmt.Errorf("min: %w", err)
	}
	if b.Max, err = parseStat(max); err != nil {
		return b, fmt.Errorf("max: %w", err)
	}
	if b.Mean, err = parseStat(mean); err != nil {
		return b, fmt.Errorf("mean: %w", err)
	}
	return b, nil
}

// splitHeader validates that the header ends with the expected metric
// columns and returns the parameter names between experiment_name and the
// metric tail.
func splitHeader(header, tail []string) ([]string, error) {
	if len(header) < 1+len(tail) || header[0] != "experiment_name" {
		return nil, fmt.Errorf("unrecognized table header %v", header)
	}
	params := header[1 : len(header)-len(tail)]
	got := header[len(header)-len(tail):]
	for i, want := range tail {
		if got[i] != want {
			return nil, fmt.Errorf("unexpected column %q, want %q", got[i], want)
		}
	}
	return append([]string(nil), params...), nil
}

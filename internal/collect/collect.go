// Package collect walks a batch's expected analyzer artifacts and turns
// each one into a per-run metric row. Missing or unparseable artifacts
// degrade that single row, never the batch.
package collect

import (
	"fbaseval/internal/logging"
	"fbaseval/internal/metrics"
	"fbaseval/internal/report"
	"fbaseval/internal/sweep"
)

// Rows parses every expected artifact of the config found in dir. Each
// run's file is opened, read and closed before the next one. Failed runs
// are logged on the side channel and omitted; partial results are normal.
func Rows(cfg sweep.Config, dir string) []metrics.Row {
	logger := logging.New("collect")

	var rows []metrics.Row
	for _, exp := range cfg.Experiments {
		for _, comb := range exp.Combinations() {
			path := exp.ResultPath(dir, comb)

			rec, err := report.ParseFile(path)
			if err != nil {
				logger.Warn("skipping run", "path", path, "error", err.Error())
				continue
			}

			summary, err := metrics.Extract(rec)
			if err != nil {
				logger.Warn("skipping run", "path", path, "error", err.Error())
				continue
			}

			rows = append(rows, metrics.Row{
				Experiment:   exp.Name,
				Params:       comb.Params,
				Run:          comb.Run,
				QuorumCount:  summary.QuorumCount,
				Blocking:     summary.Blocking,
				Intersection: summary.Intersection,
			})
		}
	}

	logger.Info("collected", "rows", len(rows))
	return rows
}

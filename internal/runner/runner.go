// Package runner drives the external collaborators: the topology
// simulator and the analyzer, both opaque executables whose stdout is the
// entire contract. One run produces a graph artifact and an analyzer
// report artifact per parameter combination.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"fbaseval/internal/logging"
	"fbaseval/internal/sweep"
)

// Options controls a batch execution.
type Options struct {
	Dir   string // artifact directory
	Jobs  int    // max concurrent runs; <=1 means strictly sequential
	Force bool   // redo runs whose artifacts already exist
}

// Result counts the outcome of a batch. Failed runs degrade to missing
// artifacts; they never abort the batch.
type Result struct {
	Completed int
	Skipped   int
	Failed    int
}

// Run executes every combination of every experiment in the config.
// The only batch-level error is an unusable artifact directory; per-run
// failures are logged and counted.
func Run(ctx context.Context, cfg sweep.Config, opts Options) (Result, error) {
	logger := logging.New("run")

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return Result{}, fmt.Errorf("create artifact dir: %w", err)
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	var completed, skipped, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, exp := range cfg.Experiments {
		for _, comb := range exp.Combinations() {
			g.Go(func() error {
				resultPath := exp.ResultPath(opts.Dir, comb)
				if !opts.Force {
					if _, err := os.Stat(resultPath); err == nil {
						skipped.Add(1)
						return nil
					}
				}

				if err := runOne(ctx, cfg, exp, comb, opts.Dir); err != nil {
					logger.Warn("run failed",
						"experiment", exp.Name, "combination", comb.String(), "error", err.Error())
					failed.Add(1)
					return nil
				}
				completed.Add(1)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{
		Completed: int(completed.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
	}
	logger.Info("batch finished",
		"completed", res.Completed, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

// runOne simulates one topology and analyzes it. Each artifact file is
// opened, written and closed before the next command starts.
func runOne(ctx context.Context, cfg sweep.Config, exp sweep.Experiment, comb sweep.Combination, dir string) error {
	graphPath := exp.GraphPath(dir, comb)
	if err := runCommand(ctx, comb.Expand(exp.Sim), graphPath); err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	analyze := cfg.Analyzer + " " + graphPath
	if err := runCommand(ctx, analyze, exp.ResultPath(dir, comb)); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return nil
}

// runCommand runs one shell command with stdout captured to outPath.
// The output file only appears on success so half-written artifacts never
// poison a later collect.
func runCommand(ctx context.Context, command, outPath string) error {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%q: %w (stderr: %s)", command, err, bytes.TrimSpace(stderr.Bytes()))
	}

	if err := os.WriteFile(outPath, stdout.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

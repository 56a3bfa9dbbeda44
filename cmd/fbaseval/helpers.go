package main

import (
	"fmt"
	"io"
	"os"

	"fbaseval/internal/sweep"
)

func loadConfig() (sweep.Config, error) {
	cfg, err := sweep.Load(rootFlags.config)
	if err != nil {
		return sweep.Config{}, fmt.Errorf("load config: %w\n\nPoint --config at an experiment sweep file, e.g.:\n  fbaseval plan --config experiments.yaml", err)
	}
	return cfg, nil
}

// openOutput returns the primary data output: stdout for "-" or empty,
// otherwise the named file. The caller closes it.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

// openInput returns the primary data input: stdin for "-", otherwise the
// named file. The caller closes it.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

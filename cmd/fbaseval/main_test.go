package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestPlan_ListsEveryRun(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "experiments.yaml")
	cfg := `
runs: 2
analyzer: "fbas_analyzer ${graph}"
experiments:
  - name: random-g
    sim: "gen -k ${k} -n ${n}"
    parameters:
      k: [2, 4]
      n: [10]
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	out := execute(t, "plan", "--config", cfgPath, "--dir", dir)

	if !strings.Contains(out, "# 4 runs") {
		t.Errorf("plan output missing total:\n%s", out)
	}
	want := filepath.Join(dir, "random-g_k2_n10_r1.result.out")
	if !strings.Contains(out, want) {
		t.Errorf("plan output missing %s:\n%s", want, out)
	}
}

func TestShow_RendersAggregatedTable(t *testing.T) {
	dir := t.TempDir()
	tablePath := filepath.Join(dir, "agg.csv")
	table := "experiment_name,k,n,total_quorum_mean," +
		"blocking_set_min,blocking_set_max,blocking_set_mean," +
		"intersection_min,intersection_max,intersection_mean\n" +
		"random-g,4,10,5,2,4,3,,,\n"
	if err := os.WriteFile(tablePath, []byte(table), 0644); err != nil {
		t.Fatal(err)
	}

	out := execute(t, "show", "--in", tablePath)

	if !strings.Contains(out, "random-g") {
		t.Errorf("table missing experiment name:\n%s", out)
	}
	if !strings.Contains(out, "-") {
		t.Errorf("unknown intersection should render as dash:\n%s", out)
	}
}

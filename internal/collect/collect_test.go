package collect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fbaseval/internal/aggregate"
	"fbaseval/internal/metrics"
	"fbaseval/internal/sweep"
)

func writeArtifact(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func testConfig() sweep.Config {
	return sweep.Config{
		Experiments: []sweep.Experiment{{
			Name: "random-g",
			Parameters: map[string][]sweep.Value{
				"k": {"4"},
				"n": {"10"},
			},
			Runs: 2,
		}},
	}
}

func TestRows_EndToEnd(t *testing.T) {
	// Two runs of random-g at (k=4, n=10) with blocking-set bounds
	// (2,2,2.0) and (4,4,4.0): after aggregation blocking_set_min=2,
	// blocking_set_max=4, blocking_set_mean=3.0.
	dir := t.TempDir()
	writeArtifact(t, dir, "random-g_k4_n10_r0.result.out",
		"has_quorum_intersection: true",
		"minimal_quorums: [5, 4, 4, 4.0, 5]",
		"minimal_blocking_sets: [10, 2, 2, 2.0]",
		"minimal_intersections: [10, 3, 3, 3.0]",
	)
	writeArtifact(t, dir, "random-g_k4_n10_r1.result.out",
		"has_quorum_intersection: true",
		"minimal_quorums: [5, 4, 4, 4.0, 5]",
		"minimal_blocking_sets: [10, 4, 4, 4.0]",
		"minimal_intersections: [10, 3, 3, 3.0]",
	)

	cfg := testConfig()
	rows := Rows(cfg, dir)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	s := aggregate.NewSchema(cfg.ParameterNames())
	agg := aggregate.Aggregate(s, rows)
	if len(agg) != 1 {
		t.Fatalf("groups = %d, want 1", len(agg))
	}

	got := agg[0].Blocking
	want := metrics.KnownBounds(2, 4, 3.0)
	if got != want {
		t.Errorf("blocking = %+v, want %+v", got, want)
	}
	if agg[0].QuorumMean != 5 {
		t.Errorf("quorum mean = %g, want 5", agg[0].QuorumMean)
	}
}

func TestRows_MissingFileDegradesRow(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "random-g_k4_n10_r0.result.out",
		"minimal_quorums: [2, [0, 0, 1, 1]]",
		"minimal_blocking_sets: [1, 1, 1, 1.0]",
	)
	// r1 artifact missing entirely.

	rows := Rows(testConfig(), dir)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (missing run omitted)", len(rows))
	}
	if rows[0].Run != 0 {
		t.Errorf("surviving run = %d, want 0", rows[0].Run)
	}
}

func TestRows_UnextractableRecordDegradesRow(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "random-g_k4_n10_r0.result.out",
		"minimal_quorums: [2, [0, 0, 1, 1]]",
		"minimal_blocking_sets: [1, 1, 1, 1.0]",
	)
	// r1 exists but lacks required labels.
	writeArtifact(t, dir, "random-g_k4_n10_r1.result.out",
		"exit_reason: 'timeout'",
	)

	rows := Rows(testConfig(), dir)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (unextractable run omitted)", len(rows))
	}
}

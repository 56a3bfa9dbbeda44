package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fbaseval/internal/aggregate"
	"fbaseval/internal/metrics"
)

func testRow(exp, k, n string) aggregate.Row {
	return aggregate.Row{
		Experiment:   exp,
		Params:       []string{k, n},
		QuorumMean:   5,
		Blocking:     metrics.KnownBounds(2, 4, 3),
		Intersection: metrics.KnownBounds(1, 2, 1.5),
		Samples:      4,
	}
}

func TestRender_FileNaming(t *testing.T) {
	dir := t.TempDir()
	s := aggregate.NewSchema([]string{"k", "n"})
	rows := []aggregate.Row{
		testRow("random-g", "4", "10"),
		testRow("random-g", "4", "20"),
		testRow("random-g", "10", "10"),
		testRow("smallworld", "4", "20"),
	}

	written, err := Render(s, rows, Options{Dir: dir})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var names []string
	for _, p := range written {
		names = append(names, filepath.Base(p))
	}
	want := []string{
		"plot_random-g_k4.png",
		"plot_random-g_k10.png",
		"plot_smallworld_k4.png",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("chart files (-want +got):\n%s", diff)
	}

	for _, p := range written {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("missing chart file %s: %v", p, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("chart file %s is empty", p)
		}
	}
}

func TestRender_UnknownIntersectionChartsAsZero(t *testing.T) {
	dir := t.TempDir()
	s := aggregate.NewSchema([]string{"k", "n"})

	r := testRow("x", "4", "10")
	r.Intersection = metrics.Bounds{} // fully unknown
	rows := []aggregate.Row{r}

	written, err := Render(s, rows, Options{Dir: dir})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("charts = %d, want 1 (unknown substitutes zero, no gap)", len(written))
	}
}

func TestWhiskers(t *testing.T) {
	r := testRow("x", "4", "10")

	low, high := whiskers(r, 0)
	if low != 1 || high != 1 {
		t.Errorf("blocking whiskers = (%g, %g), want (1, 1)", low, high)
	}

	low, high = whiskers(r, 1)
	if low != 0.5 || high != 0.5 {
		t.Errorf("intersection whiskers = (%g, %g), want (0.5, 0.5)", low, high)
	}

	// The quorum count bar has no spread tracked: zero-width whiskers.
	low, high = whiskers(r, 2)
	if low != 0 || high != 0 {
		t.Errorf("quorum whiskers = (%g, %g), want (0, 0)", low, high)
	}

	// Partially-unknown bounds must not produce a misleading whisker.
	r.Intersection.Mean = metrics.Unknown
	low, high = whiskers(r, 1)
	if low != 0 || high != 0 {
		t.Errorf("unknown-mean whiskers = (%g, %g), want (0, 0)", low, high)
	}
}

package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fbaseval/internal/metrics"
	"fbaseval/internal/sweep"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRow(run int) metrics.Row {
	return metrics.Row{
		Experiment: "random-g",
		Params: []sweep.ParamValue{
			{Name: "k", Value: "4"},
			{Name: "n", Value: "10"},
		},
		Run:         run,
		QuorumCount: 5,
		Blocking:    metrics.KnownBounds(2, 2, 2.0),
		Intersection: metrics.Bounds{
			Min: metrics.Known(1),
			Max: metrics.Known(3),
			// Mean unknown: must round-trip as NULL, not 0.
		},
	}
}

func TestPutRow_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := []metrics.Row{testRow(0), testRow(1)}
	for _, r := range want {
		if err := s.PutRow(r); err != nil {
			t.Fatalf("PutRow: %v", err)
		}
	}

	got, err := s.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
}

func TestPutRow_ReplacesOnRecollect(t *testing.T) {
	s := openTestStore(t)

	first := testRow(0)
	if err := s.PutRow(first); err != nil {
		t.Fatalf("PutRow: %v", err)
	}

	second := first
	second.QuorumCount = 9
	second.Intersection = metrics.KnownBounds(1, 1, 1)
	if err := s.PutRow(second); err != nil {
		t.Fatalf("PutRow (replace): %v", err)
	}

	got, err := s.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1 (replaced, not duplicated)", len(got))
	}
	if diff := cmp.Diff(second, got[0]); diff != "" {
		t.Errorf("replaced row (-want +got):\n%s", diff)
	}
}

func TestDeleteExperiment(t *testing.T) {
	s := openTestStore(t)

	other := testRow(0)
	other.Experiment = "smallworld"
	for _, r := range []metrics.Row{testRow(0), testRow(1), other} {
		if err := s.PutRow(r); err != nil {
			t.Fatalf("PutRow: %v", err)
		}
	}

	if err := s.DeleteExperiment("random-g"); err != nil {
		t.Fatalf("DeleteExperiment: %v", err)
	}

	got, err := s.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(got) != 1 || got[0].Experiment != "smallworld" {
		t.Errorf("rows after delete = %+v", got)
	}
}

func TestOpen_Reopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.PutRow(testRow(0)); err != nil {
		t.Fatalf("PutRow: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("rows after reopen = %d, want 1", len(got))
	}
}

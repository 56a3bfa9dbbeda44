package report

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fbaseval/internal/logging"
)

func TestParseLiteral(t *testing.T) {
	cases := []struct {
		in   string
		want Value
	}{
		{"42", int64(42)},
		{"-3", int64(-3)},
		{"2.5", float64(2.5)},
		{"1e3", float64(1000)},
		{"true", true},
		{"True", true},
		{"false", false},
		{"False", false},
		{`"hello"`, "hello"},
		{`'it\'s'`, "it's"},
		{"[]", []Value{}},
		{"[1, 2, 3]", []Value{int64(1), int64(2), int64(3)}},
		{"(3,)", []Value{int64(3)}},
		{"[2, [0, 0, 1, 1]]", []Value{int64(2), []Value{int64(0), int64(0), int64(1), int64(1)}}},
		{"(4, 8, (2, 4, 2.5), [0, 0, 3, 0, 1])", []Value{
			int64(4), int64(8),
			[]Value{int64(2), int64(4), float64(2.5)},
			[]Value{int64(0), int64(0), int64(3), int64(0), int64(1)},
		}},
	}

	for _, tc := range cases {
		got, err := ParseLiteral(tc.in)
		if err != nil {
			t.Errorf("ParseLiteral(%q): %v", tc.in, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseLiteral(%q) (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestParseLiteral_Errors(t *testing.T) {
	for _, in := range []string{"", "[1, 2", "tru", "1 2", "foo", `"open`, "[1;2]"} {
		if _, err := ParseLiteral(in); err == nil {
			t.Errorf("ParseLiteral(%q): expected error", in)
		}
	}
}

func TestParse(t *testing.T) {
	raw := strings.Join([]string{
		"has_quorum_intersection: true",
		"minimal_quorums: [2, [0, 0, 1, 1]]",
		"minimal_blocking_sets: [3, 2, 2, 2.0]",
		"top_tier: [1, 4, 8]",
	}, "\n")

	rec, err := Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if v, ok := rec["has_quorum_intersection"].(bool); !ok || !v {
		t.Errorf("has_quorum_intersection = %v", rec["has_quorum_intersection"])
	}
	if _, ok := rec["minimal_quorums"].([]Value); !ok {
		t.Errorf("minimal_quorums = %T", rec["minimal_quorums"])
	}
	if got := len(rec["top_tier"].([]Value)); got != 3 {
		t.Errorf("top_tier len = %d", got)
	}
}

func TestParse_SkipsBadLines(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(slog.LevelDebug, "text", &buf)

	raw := strings.Join([]string{
		"no separator here",
		"bad_value: not-a-literal",
		"good: 7",
		"", // blank lines are fine
	}, "\n")

	rec, err := Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(rec) != 1 {
		t.Errorf("record size = %d, want 1 (bad lines skipped)", len(rec))
	}
	if v, ok := rec["good"].(int64); !ok || v != 7 {
		t.Errorf("good = %v", rec["good"])
	}
	if !strings.Contains(buf.String(), "skipping") {
		t.Errorf("expected skip diagnostics on the side channel, got: %s", buf.String())
	}
}

func TestNumber(t *testing.T) {
	if f, ok := Number(int64(3)); !ok || f != 3 {
		t.Errorf("Number(int64) = %v, %v", f, ok)
	}
	if f, ok := Number(2.5); !ok || f != 2.5 {
		t.Errorf("Number(float64) = %v, %v", f, ok)
	}
	if _, ok := Number("nope"); ok {
		t.Error("Number(string) should not convert")
	}
}

package metrics

import (
	"errors"
	"fmt"

	"fbaseval/internal/report"
)

// Labels the extractor reads. The analyzer emitted two generations of
// set-summary shapes; both are supported (see decodeSetSummary).
const (
	labelQuorums       = "minimal_quorums"
	labelBlockingSets  = "minimal_blocking_sets"
	labelIntersections = "minimal_intersections"
	labelHasQI         = "has_quorum_intersection"
	labelTopTier       = "top_tier"
	labelTopTierSize   = "top_tier_size"
)

// ErrMissingLabel marks a record that lacks a required entry for which no
// fallback exists. The caller logs and skips that run.
var ErrMissingLabel = errors.New("required label missing")

// setSummary is the decoded form of one minimal_* entry.
type setSummary struct {
	count     float64
	bounds    Bounds
	histogram []int // nil for the flat legacy shape
	raw       []report.Value
}

// Extract derives all metrics from one record. Quorum and blocking-set
// entries are required; intersection bounds always produce a value, falling
// back to histogram-derived estimates or unknown (see intersectionBounds).
func Extract(rec report.Record) (Summary, error) {
	quorums, err := requireSetSummary(rec, labelQuorums)
	if err != nil {
		return Summary{}, err
	}

	blocking, err := requireSetSummary(rec, labelBlockingSets)
	if err != nil {
		return Summary{}, err
	}

	intersection, err := intersectionBounds(rec, quorums)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		QuorumCount:  quorums.count,
		Blocking:     blocking.bounds,
		Intersection: intersection,
	}, nil
}

func requireSetSummary(rec report.Record, label string) (setSummary, error) {
	v, ok := rec[label]
	if !ok {
		return setSummary{}, fmt.Errorf("%w: %s", ErrMissingLabel, label)
	}
	s, err := decodeSetSummary(v)
	if err != nil {
		return setSummary{}, fmt.Errorf("%s: %w", label, err)
	}
	return s, nil
}

// decodeSetSummary dispatches on the shape of a minimal_* entry:
//
//	[count, [h0, h1, ...], ...]     histogram shape
//	[count, min, max, mean, ...]    flat legacy shape
//
// discriminated by whether element 1 is a list.
func decodeSetSummary(v report.Value) (setSummary, error) {
	seq, ok := v.([]report.Value)
	if !ok {
		return setSummary{}, fmt.Errorf("expected a list, got %T", v)
	}
	if len(seq) < 2 {
		return setSummary{}, fmt.Errorf("expected at least 2 elements, got %d", len(seq))
	}

	count, ok := report.Number(seq[0])
	if !ok {
		return setSummary{}, fmt.Errorf("count is not a number: %v", seq[0])
	}

	if histSeq, ok := seq[1].([]report.Value); ok {
		hist, err := decodeHistogram(histSeq)
		if err != nil {
			return setSummary{}, err
		}
		bounds, err := histogramBounds(hist, count)
		if err != nil {
			return setSummary{}, err
		}
		return setSummary{count: count, bounds: bounds, histogram: hist, raw: seq}, nil
	}

	if len(seq) < 4 {
		return setSummary{}, fmt.Errorf("flat shape needs [count, min, max, mean], got %d elements", len(seq))
	}
	var nums [3]float64
	for i := 1; i <= 3; i++ {
		n, ok := report.Number(seq[i])
		if !ok {
			return setSummary{}, fmt.Errorf("element %d is not a number: %v", i, seq[i])
		}
		nums[i-1] = n
	}
	return setSummary{
		count:  count,
		bounds: KnownBounds(nums[0], nums[1], nums[2]),
		raw:    seq,
	}, nil
}

func decodeHistogram(seq []report.Value) ([]int, error) {
	hist := make([]int, len(seq))
	for i, v := range seq {
		n, ok := report.Number(v)
		if !ok || n != float64(int(n)) || n < 0 {
			return nil, fmt.Errorf("histogram bucket %d is not a non-negative integer: %v", i, v)
		}
		hist[i] = int(n)
	}
	return hist, nil
}

// histogramBounds derives (min, max, mean) from a per-size histogram:
// min is the first non-zero bucket index, max the last bucket index, mean
// the size-weighted average. The bucket sum must equal the declared count.
func histogramBounds(hist []int, count float64) (Bounds, error) {
	sum := 0
	weighted := 0
	min := -1
	for size, n := range hist {
		sum += n
		weighted += size * n
		if n > 0 && min < 0 {
			min = size
		}
	}
	if float64(sum) != count {
		return Bounds{}, fmt.Errorf("histogram sums to %d but count is %g", sum, count)
	}
	if sum == 0 {
		return KnownBounds(0, 0, 0), nil
	}
	return KnownBounds(float64(min), float64(len(hist)-1), float64(weighted)/count), nil
}

package metrics

import (
	"fmt"

	"fbaseval/internal/report"
)

// intersectionBounds resolves the minimal-intersection size spread through
// three tiers, in order:
//
//  1. The record states the system has no quorum intersection: the minimal
//     intersecting set is empty, bounds are exactly (0, 0, 0.0).
//  2. Direct minimal_intersections data is present: decode it like any
//     other set summary.
//  3. No direct data (the computation was skipped as too expensive):
//     estimate conservative bounds from the quorum size histogram alone.
//     These bounds may be partially or fully unknown; unknown is never
//     collapsed to zero.
func intersectionBounds(rec report.Record, quorums setSummary) (Bounds, error) {
	if hasQI, ok := rec[labelHasQI].(bool); ok && !hasQI {
		return KnownBounds(0, 0, 0), nil
	}

	if v, ok := rec[labelIntersections]; ok {
		s, err := decodeSetSummary(v)
		if err != nil {
			return Bounds{}, fmt.Errorf("%s: %w", labelIntersections, err)
		}
		return s.bounds, nil
	}

	return estimateFromHistogram(rec, quorums), nil
}

// estimateFromHistogram derives theoretical intersection bounds from the
// quorum size histogram. With fewer than two minimal quorums no two-quorum
// intersection is defined and everything stays unknown. Otherwise the two
// smallest quorums (with multiplicity) give the lower bound via inclusion-
// exclusion over the top tier, and the two largest give the upper bound:
// two distinct minimal quorums cannot contain one another, so their
// intersection is strictly smaller than either.
func estimateFromHistogram(rec report.Record, quorums setSummary) Bounds {
	hist := quorums.histogram
	if hist == nil || quorums.count < 2 {
		return Bounds{}
	}

	floor := 0.0
	if hasQI, ok := rec[labelHasQI].(bool); ok && hasQI {
		floor = 1
	}

	smallest := append([]int(nil), hist...)
	s1 := firstNonZero(smallest)
	smallest[s1]--
	s2 := firstNonZero(smallest)

	lower := floor
	if ttn, ok := topTierSize(rec, quorums); ok {
		if v := float64(s1 + s2 - ttn); v > lower {
			lower = v
		}
	}

	largest := append([]int(nil), hist...)
	l1 := lastNonZero(largest)
	largest[l1]--
	l2 := lastNonZero(largest)
	upper := float64(l2 - 1)

	bounds := Bounds{Min: Known(lower), Max: Known(upper)}
	if lower == upper {
		// Fully determined; any other spread would fabricate precision.
		bounds.Mean = Known(lower)
	}
	return bounds
}

// topTierSize finds the sample-space bound: an explicit top_tier_size
// number, the length of a top_tier list, or the element following the
// histogram in the minimal_quorums entry (the analyzer's describe shape
// carries the distinct-node count there).
func topTierSize(rec report.Record, quorums setSummary) (int, bool) {
	if v, ok := rec[labelTopTierSize]; ok {
		if n, ok := report.Number(v); ok {
			return int(n), true
		}
	}
	if v, ok := rec[labelTopTier]; ok {
		if seq, ok := v.([]report.Value); ok {
			return len(seq), true
		}
	}
	if len(quorums.raw) >= 3 {
		if n, ok := report.Number(quorums.raw[2]); ok {
			return int(n), true
		}
	}
	return 0, false
}

func firstNonZero(hist []int) int {
	for i, n := range hist {
		if n > 0 {
			return i
		}
	}
	return 0
}

func lastNonZero(hist []int) int {
	for i := len(hist) - 1; i >= 0; i-- {
		if hist[i] > 0 {
			return i
		}
	}
	return 0
}

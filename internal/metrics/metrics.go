// Package metrics derives the per-run measurements of interest from a
// parsed analyzer record: minimal quorum count, blocking-set size bounds
// and intersection size bounds. Every derivation tolerates missing or
// differently-shaped source fields; when direct intersection data is
// absent, theoretical bounds are estimated from the quorum size histogram.
package metrics

import (
	"database/sql"

	"fbaseval/internal/sweep"
)

// Stat is a numeric measurement that may be unknown. Unknown is distinct
// from zero: a system without quorum intersection measures 0, a skipped
// computation measures nothing. The sql.NullFloat64 representation scans
// straight in and out of the run store.
type Stat = sql.NullFloat64

// Known wraps a measured value.
func Known(v float64) Stat {
	return Stat{Float64: v, Valid: true}
}

// Unknown is the absent-measurement sentinel.
var Unknown Stat

// Bounds is a (min, max, mean) size spread. Any component may be unknown.
type Bounds struct {
	Min  Stat
	Max  Stat
	Mean Stat
}

// KnownBounds builds a fully-measured spread.
func KnownBounds(min, max, mean float64) Bounds {
	return Bounds{Min: Known(min), Max: Known(max), Mean: Known(mean)}
}

// Summary is everything extracted from one analyzer record.
type Summary struct {
	QuorumCount  float64
	Blocking     Bounds
	Intersection Bounds
}

// Row is one aggregable per-run measurement.
type Row struct {
	Experiment   string
	Params       []sweep.ParamValue
	Run          int
	QuorumCount  float64
	Blocking     Bounds
	Intersection Bounds
}

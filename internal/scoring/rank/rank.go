// Package rank implements cohort-relative normalization: mid-rank percentile
// ranking and z-scores. A percentile or z-score is only meaningful against a
// specific, fully materialized cohort snapshot; callers must not mutate a
// cohort while ranks are being computed from it.
package rank

import (
	"math"
	"sort"
)

// Cohort holds a sorted snapshot of one metric across a cohort, ready for
// repeated percentile queries. Read-only once built.
type Cohort struct {
	sorted []float64
	mean   float64
	stdev  float64
}

// NewCohort copies and sorts the given values, dropping non-finite entries.
func NewCohort(values []float64) *Cohort {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sorted = append(sorted, v)
	}
	sort.Float64s(sorted)

	c := &Cohort{sorted: sorted}
	n := float64(len(sorted))
	if n == 0 {
		return c
	}
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	c.mean = sum / n
	var ss float64
	for _, v := range sorted {
		d := v - c.mean
		ss += d * d
	}
	c.stdev = math.Sqrt(ss / n)
	return c
}

// Size reports the number of usable cohort members.
func (c *Cohort) Size() int { return len(c.sorted) }

// Mean returns the cohort mean.
func (c *Cohort) Mean() float64 { return c.mean }

// Stdev returns the population standard deviation.
func (c *Cohort) Stdev() float64 { return c.stdev }

// Percentile returns v's standing in [0,100] under the mid-rank convention:
// with L values strictly less and E values exactly equal (v itself included),
// the percentile is 100*(L+(E-1)/2)/(N-1). Exact ties therefore receive
// identical percentiles regardless of insertion order. Cohorts of one or
// fewer members return the neutral 50.
func (c *Cohort) Percentile(v float64) float64 {
	n := len(c.sorted)
	if n <= 1 {
		return 50
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 50
	}

	less := sort.SearchFloat64s(c.sorted, v)
	eq := sort.SearchFloat64s(c.sorted, math.Nextafter(v, math.Inf(1))) - less
	if eq < 1 {
		// v is not a cohort member; count it once for the mid-rank term.
		eq = 1
	}

	p := 100 * (float64(less) + float64(eq-1)/2) / float64(n-1)
	return clamp(p, 0, 100)
}

// Z returns v's deviation from the cohort mean in standard deviation units.
// The denominator is floored at 1 so degenerate cohorts yield small, finite
// deviations instead of dividing by zero.
func (c *Cohort) Z(v float64) float64 {
	if len(c.sorted) == 0 {
		return 0
	}
	sd := c.stdev
	if sd < 1 {
		sd = 1
	}
	return (v - c.mean) / sd
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

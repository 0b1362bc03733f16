// Package calibrate maps cohort percentiles onto the bounded display scale
// and assigns tier labels from the configured cutoff ladder.
package calibrate

import (
	"math"

	"github.com/rosterlab/scout-cli/internal/model"
	"github.com/rosterlab/scout-cli/internal/scoring/params"
)

// DisplayScale maps a 0-100 percentile to the integer 1-99 rating scale
// through a smoothstep-style curve, 0.75*P + 0.25*(3P^2 - 2P^3). Mid-range
// values compress toward the middle band while the tails stay separable.
func DisplayScale(percentile float64) int {
	p := percentile / 100
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	curved := 0.75*p + 0.25*(3*p*p-2*p*p*p)
	score := int(math.Round(1 + curved*98))
	if score < 1 {
		score = 1
	}
	if score > 99 {
		score = 99
	}
	return score
}

// TierFor returns the label of the first tier whose cutoff the composite
// meets. Tiers are validated to be strictly descending at load time.
func TierFor(composite float64, tiers []params.Tier) string {
	for _, t := range tiers {
		if composite >= t.Min {
			return t.Label
		}
	}
	if len(tiers) == 0 {
		return ""
	}
	return tiers[len(tiers)-1].Label
}

// TierDistribution reports the observed share of a cohort per tier label.
// Purely descriptive: the curve never enforces the configured targets.
func TierDistribution(results []model.CompositeResult) map[string]float64 {
	if len(results) == 0 {
		return map[string]float64{}
	}
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Tier]++
	}
	dist := make(map[string]float64, len(counts))
	for label, n := range counts {
		dist[label] = float64(n) / float64(len(results))
	}
	return dist
}

// Package lens applies the football-sense pass: a fixed rule set that spots
// statistically implausible pillar combinations after percentile mapping.
// Corrective rules scale one pillar down by a fixed multiplier; informational
// rules only annotate. Rules are independent and cumulative. The lens is a
// pure function: the input pillar set is never mutated, and the returned copy
// is clamped to [0,100].
package lens

import (
	"fmt"

	"github.com/rosterlab/scout-cli/internal/model"
)

// Result pairs the adjusted pillar copy with the issues that fired. The
// caller owns both the original and the adjusted set for auditability.
type Result struct {
	Pillars model.PillarScores
	Issues  []model.LensIssue
}

// rule is one positional plausibility check. Corrective rules name the
// pillar they scale and a multiplier in [0.88, 0.92].
type rule struct {
	name       string
	detail     string
	positions  []model.Position // nil = all positions
	fires      func(p model.PillarScores) bool
	corrective bool
	pillar     model.PillarName
	multiplier float64
}

var rules = []rule{
	{
		name:      "td_spike_low_volume",
		detail:    "efficiency far ahead of volume; likely touchdown-dependent outlier",
		positions: []model.Position{model.PositionWR, model.PositionTE},
		fires: func(p model.PillarScores) bool {
			return p[model.PillarVolume] < 40 && p[model.PillarEfficiency] > 85
		},
		corrective: true,
		pillar:     model.PillarEfficiency,
		multiplier: 0.90,
	},
	{
		name:      "high_volume_low_efficiency",
		detail:    "heavy usage with poor per-play results; volume likely sticky, efficiency likely noise",
		positions: []model.Position{model.PositionWR, model.PositionTE},
		fires: func(p model.PillarScores) bool {
			return p[model.PillarVolume] >= 70 && p[model.PillarEfficiency] <= 35
		},
	},
	{
		name:      "committee_efficiency_mirage",
		detail:    "elite efficiency on a committee workload rarely survives more carries",
		positions: []model.Position{model.PositionRB},
		fires: func(p model.PillarScores) bool {
			return p[model.PillarVolume] < 35 && p[model.PillarEfficiency] > 80
		},
		corrective: true,
		pillar:     model.PillarEfficiency,
		multiplier: 0.88,
	},
	{
		name:      "volume_dependent_back",
		detail:    "workhorse usage with bottom-tier efficiency; production is scheme-propped",
		positions: []model.Position{model.PositionRB},
		fires: func(p model.PillarScores) bool {
			return p[model.PillarVolume] >= 85 && p[model.PillarEfficiency] <= 30
		},
	},
	{
		name:      "fragile_efficiency_profile",
		detail:    "elite passing efficiency with an unstable profile; regression candidate",
		positions: []model.Position{model.PositionQB},
		fires: func(p model.PillarScores) bool {
			return p[model.PillarEfficiency] > 85 && p[model.PillarStability] < 40
		},
		corrective: true,
		pillar:     model.PillarEfficiency,
		multiplier: 0.92,
	},
}

// Apply evaluates the rule set for one player and returns the adjusted
// pillar copy plus issue annotations. gamesPlayed drives the small-sample
// flag; the polarization flag fires when any pillar >= 90 while another
// <= 30 on the same player.
func Apply(pillars model.PillarScores, position model.Position, gamesPlayed int) Result {
	adjusted := pillars.Clone()
	var issues []model.LensIssue

	for _, r := range rules {
		if !appliesTo(r, position) {
			continue
		}
		// Rules evaluate against the caller's pillar values, not values
		// already adjusted by earlier rules, so rule order is irrelevant.
		if !r.fires(pillars) {
			continue
		}
		issue := model.LensIssue{
			Rule:       r.name,
			Detail:     r.detail,
			Corrective: r.corrective,
		}
		if r.corrective {
			issue.Pillar = r.pillar
			issue.Multiplier = r.multiplier
			adjusted[r.pillar] = adjusted[r.pillar] * r.multiplier
		}
		issues = append(issues, issue)
	}

	if hi, lo, polarized := polarization(pillars); polarized {
		issues = append(issues, model.LensIssue{
			Rule:   "polarized_profile",
			Detail: fmt.Sprintf("pillar spread too wide to trust (%s >= 90, %s <= 30)", hi, lo),
		})
	}
	if gamesPlayed < 3 {
		issues = append(issues, model.LensIssue{
			Rule:   "small_sample",
			Detail: fmt.Sprintf("only %d games played; treat every pillar as provisional", gamesPlayed),
		})
	}

	for name, v := range adjusted {
		adjusted[name] = clamp(v, 0, 100)
	}
	return Result{Pillars: adjusted, Issues: issues}
}

func appliesTo(r rule, position model.Position) bool {
	if len(r.positions) == 0 {
		return true
	}
	for _, p := range r.positions {
		if p == position {
			return true
		}
	}
	return false
}

func polarization(p model.PillarScores) (hi, lo model.PillarName, ok bool) {
	for hiName, hiVal := range p {
		if hiVal < 90 {
			continue
		}
		for loName, loVal := range p {
			if loName != hiName && loVal <= 30 {
				return hiName, loName, true
			}
		}
	}
	return "", "", false
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

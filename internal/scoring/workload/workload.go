// Package workload computes the rolling-window recent-form score,
// independently of the season-long composite. The window is the anchor week
// plus up to three trailing weeks, intersected with the data actually
// present; eligibility thresholds scale with window length so a one-week
// window does not demand full-season volume.
package workload

import (
	"math"
	"sort"

	"github.com/rosterlab/scout-cli/internal/model"
	"github.com/rosterlab/scout-cli/internal/scoring/params"
	"github.com/rosterlab/scout-cli/internal/scoring/rank"
)

// maxWindow bounds the trailing window in weeks.
const maxWindow = 4

// Scorer computes workload snapshots for one position cohort at a time.
type Scorer struct {
	params *params.Params
}

// New returns a Scorer bound to a parameter document.
func New(p *params.Params) *Scorer {
	return &Scorer{params: p}
}

// Score aggregates the trailing window for every player present in rows and
// returns one snapshot per player, eligible or not, sorted by score
// descending. rollingWeeks is clamped to [1, 4].
func (s *Scorer) Score(rows []model.PlayerWeek, position model.Position, anchorWeek, rollingWeeks int) []model.WorkloadSnapshot {
	wp := s.params.Positions[position].Workload

	if rollingWeeks < 1 {
		rollingWeeks = 1
	}
	if rollingWeeks > maxWindow {
		rollingWeeks = maxWindow
	}
	firstWeek := anchorWeek - rollingWeeks + 1

	type agg struct {
		snap   model.WorkloadSnapshot
		counts map[string]int
	}
	byPlayer := make(map[string]*agg)
	order := make([]string, 0, 32)

	for _, row := range rows {
		if row.Position != position || row.Week < firstWeek || row.Week > anchorWeek {
			continue
		}
		a, ok := byPlayer[row.PlayerID]
		if !ok {
			a = &agg{
				snap: model.WorkloadSnapshot{
					PlayerID:    row.PlayerID,
					Name:        row.Name,
					Team:        row.Team,
					Position:    position,
					AnchorWeek:  anchorWeek,
					WindowWeeks: rollingWeeks,
					Totals:      make(map[string]float64),
					Averages:    make(map[string]float64),
				},
				counts: make(map[string]int),
			}
			byPlayer[row.PlayerID] = a
			order = append(order, row.PlayerID)
		}
		a.snap.Games++
		a.snap.Team = row.Team
		a.snap.WeeksUsed = append(a.snap.WeeksUsed, row.Week)
		for name, v := range row.Metrics {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			a.snap.Totals[name] += v
			a.counts[name]++
		}
	}
	if len(byPlayer) == 0 {
		return []model.WorkloadSnapshot{}
	}

	// Position- and window-scaled eligibility threshold, floored at the
	// position minimum.
	threshold := wp.BaseThreshold * float64(min(rollingWeeks, maxWindow)) / maxWindow
	if threshold < wp.MinThreshold {
		threshold = wp.MinThreshold
	}

	snaps := make([]*model.WorkloadSnapshot, 0, len(byPlayer))
	for _, id := range order {
		a := byPlayer[id]
		sort.Ints(a.snap.WeeksUsed)
		for name, total := range a.snap.Totals {
			a.snap.Averages[name] = total / float64(a.counts[name])
		}

		a.snap.Workload = blendTotals(a.snap.Totals, wp.WorkloadMetrics)
		a.snap.Threshold = threshold
		a.snap.Eligible = a.snap.Workload >= threshold
		a.snap.Confidence = confidence(a.snap.Games, a.snap.Workload, threshold)
		snaps = append(snaps, &a.snap)
	}

	// Route-weight redistribution: when the route metric is entirely absent
	// from the cohort window, its role weight spreads across the rest.
	roleWeights := wp.RoleWeights
	if wp.RouteMetric != "" && metricAbsentEverywhere(snaps, wp.RouteMetric) {
		roleWeights = redistribute(roleWeights, wp.RouteMetric)
	}

	// Opportunity and conversion are percentile-ranked independently; role
	// is the weighted share blend, likewise ranked within the cohort.
	opp := make([]float64, len(snaps))
	role := make([]float64, len(snaps))
	conv := make([]float64, len(snaps))
	for i, snap := range snaps {
		opp[i] = blendTotals(snap.Totals, wp.OpportunityMetrics)
		role[i] = blendAverages(snap.Averages, roleWeights)
		if len(wp.ConversionMetrics) > 0 {
			conv[i] = blendAverages(snap.Averages, wp.ConversionMetrics)
		}
	}
	oppCohort := rank.NewCohort(opp)
	roleCohort := rank.NewCohort(role)
	convCohort := rank.NewCohort(conv)

	out := make([]model.WorkloadSnapshot, len(snaps))
	for i, snap := range snaps {
		snap.Opportunity = oppCohort.Percentile(opp[i])
		snap.Role = roleCohort.Percentile(role[i])
		if len(wp.ConversionMetrics) > 0 {
			snap.Conversion = convCohort.Percentile(conv[i])
		}
		snap.Score = math.Round((wp.OpportunityShare*snap.Opportunity+
			wp.RoleShare*snap.Role+
			wp.ConversionShare*snap.Conversion)*10) / 10
		out[i] = *snap
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// confidence tiers the snapshot: HIGH needs a full window of games and
// workload well clear of the threshold; LOW applies to thin windows or
// sub-threshold volume; MED is everything between.
func confidence(games int, workload, threshold float64) model.Confidence {
	if games <= 2 || workload < threshold {
		return model.ConfidenceLow
	}
	if games >= 4 && workload >= 1.5*threshold {
		return model.ConfidenceHigh
	}
	return model.ConfidenceMed
}

func blendTotals(totals map[string]float64, fws []params.FeatureWeight) float64 {
	var sum float64
	for _, fw := range fws {
		sum += fw.Weight * totals[fw.Metric]
	}
	return sum
}

func blendAverages(averages map[string]float64, fws []params.FeatureWeight) float64 {
	var sum float64
	for _, fw := range fws {
		sum += fw.Weight * averages[fw.Metric]
	}
	return sum
}

func metricAbsentEverywhere(snaps []*model.WorkloadSnapshot, metric string) bool {
	for _, s := range snaps {
		if _, ok := s.Totals[metric]; ok {
			return false
		}
	}
	return true
}

// redistribute removes the named metric from the weight set and scales the
// remaining weights so they sum to the original total.
func redistribute(fws []params.FeatureWeight, metric string) []params.FeatureWeight {
	var removed, kept float64
	out := make([]params.FeatureWeight, 0, len(fws))
	for _, fw := range fws {
		if fw.Metric == metric {
			removed += fw.Weight
			continue
		}
		kept += fw.Weight
		out = append(out, fw)
	}
	if removed == 0 || kept == 0 {
		return out
	}
	scale := (kept + removed) / kept
	for i := range out {
		out[i].Weight *= scale
	}
	return out
}

// Package delta reconciles the season-long calibrated composite against the
// rolling-window workload score for the same cohort and classifies the
// divergence into a bounded directional signal. The percentile delta drives
// display; the z-score delta drives ranking and classification.
package delta

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/rosterlab/scout-cli/internal/model"
	"github.com/rosterlab/scout-cli/internal/scoring/rank"
)

// ErrQuarterbackExcluded rejects QB cohorts: no conversion pillar exists for
// the position yet, so a divergence signal would be built on half a score.
// This is a documented, deliberate gap.
var ErrQuarterbackExcluded = eris.New("delta: quarterbacks are excluded until a conversion pillar exists")

// Classification thresholds of the hybrid rule.
const (
	zDeltaThreshold       = 1.0
	displayDeltaThreshold = 20.0
)

// Reconcile joins fusion results against workload snapshots by player ID
// within one position and returns one DeltaRecord per player present on both
// sides, sorted by z-delta magnitude descending.
func Reconcile(fusionScores []model.CompositeResult, workloadScores []model.WorkloadSnapshot) ([]model.DeltaRecord, error) {
	for _, f := range fusionScores {
		if f.Position == model.PositionQB {
			return nil, ErrQuarterbackExcluded
		}
	}
	for _, w := range workloadScores {
		if w.Position == model.PositionQB {
			return nil, ErrQuarterbackExcluded
		}
	}
	if len(fusionScores) == 0 || len(workloadScores) == 0 {
		return []model.DeltaRecord{}, nil
	}

	// Cohort statistics per side, each against its own cohort.
	fusionVals := make([]float64, len(fusionScores))
	for i, f := range fusionScores {
		fusionVals[i] = f.Composite
	}
	workloadVals := make([]float64, len(workloadScores))
	byID := make(map[string]model.WorkloadSnapshot, len(workloadScores))
	for i, w := range workloadScores {
		workloadVals[i] = w.Score
		byID[w.PlayerID] = w
	}
	fusionCohort := rank.NewCohort(fusionVals)
	workloadCohort := rank.NewCohort(workloadVals)

	records := make([]model.DeltaRecord, 0, len(fusionScores))
	for _, f := range fusionScores {
		w, ok := byID[f.PlayerID]
		if !ok {
			continue
		}

		rec := model.DeltaRecord{
			PlayerID:       f.PlayerID,
			Name:           f.Name,
			Team:           f.Team,
			Position:       f.Position,
			FusionScore:    f.Composite,
			WorkloadScore:  w.Score,
			FusionPctile:   fusionCohort.Percentile(f.Composite),
			WorkloadPctile: workloadCohort.Percentile(w.Score),
			FusionZ:        fusionCohort.Z(f.Composite),
			WorkloadZ:      workloadCohort.Z(w.Score),
			Confidence:     w.Confidence,
		}
		rec.DisplayDelta = rec.FusionPctile - rec.WorkloadPctile
		rec.ZDelta = rec.FusionZ - rec.WorkloadZ
		rec.Strength = max(math.Abs(rec.ZDelta), math.Abs(rec.DisplayDelta)/displayDeltaThreshold)
		rec.Direction = classify(rec.ZDelta, rec.DisplayDelta, rec.Confidence)
		rec.Rationale = rationale(rec)

		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if math.Abs(records[i].ZDelta) != math.Abs(records[j].ZDelta) {
			return math.Abs(records[i].ZDelta) > math.Abs(records[j].ZDelta)
		}
		return records[i].PlayerID < records[j].PlayerID
	})
	return records, nil
}

// classify applies the hybrid rule: the z-delta path always qualifies, the
// display-delta path only with non-LOW workload confidence.
func classify(zDelta, displayDelta float64, confidence model.Confidence) model.Direction {
	switch {
	case zDelta >= zDeltaThreshold,
		displayDelta >= displayDeltaThreshold && confidence != model.ConfidenceLow:
		return model.DirectionBuyLow
	case zDelta <= -zDeltaThreshold,
		displayDelta <= -displayDeltaThreshold && confidence != model.ConfidenceLow:
		return model.DirectionSellHigh
	default:
		return model.DirectionNeutral
	}
}

func rationale(rec model.DeltaRecord) string {
	switch rec.Direction {
	case model.DirectionBuyLow:
		if rec.Strength >= 1.5 {
			return fmt.Sprintf("season-long profile (%.0fth pct) towers over recent usage (%.0fth pct); market is pricing the cold stretch", rec.FusionPctile, rec.WorkloadPctile)
		}
		return fmt.Sprintf("season-long profile ahead of recent usage by %.0f percentile points; modest discount window", rec.DisplayDelta)
	case model.DirectionSellHigh:
		if rec.Strength >= 1.5 {
			return fmt.Sprintf("recent usage (%.0fth pct) far outruns the season-long profile (%.0fth pct); production unlikely to hold", rec.WorkloadPctile, rec.FusionPctile)
		}
		return fmt.Sprintf("recent usage ahead of season-long profile by %.0f percentile points; value peak likely near", -rec.DisplayDelta)
	default:
		return "season-long and recent-form scores agree within noise"
	}
}

// WeekFetcher supplies both cohorts for one anchor week. Each week's cohort
// statistics must come from that week's own cohort, so trend computation
// fetches and folds weeks one at a time.
type WeekFetcher func(ctx context.Context, anchorWeek int) ([]model.CompositeResult, []model.WorkloadSnapshot, error)

// Trend reconciles a run of anchor weeks sequentially and returns the
// ordered per-week records. Weeks never share cohort statistics and no
// accumulator exists beyond the returned list.
func Trend(ctx context.Context, fetch WeekFetcher, weeks []int) ([]model.WeekDelta, error) {
	out := make([]model.WeekDelta, 0, len(weeks))
	for _, week := range weeks {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "delta: trend canceled")
		}
		fusionScores, workloadScores, err := fetch(ctx, week)
		if err != nil {
			return nil, eris.Wrapf(err, "delta: fetch week %d", week)
		}
		records, err := Reconcile(fusionScores, workloadScores)
		if err != nil {
			return nil, eris.Wrapf(err, "delta: week %d", week)
		}
		out = append(out, model.WeekDelta{Week: week, Records: records})
	}
	return out, nil
}

package delta

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterlab/scout-cli/internal/model"
)

func composite(id string, score float64) model.CompositeResult {
	return model.CompositeResult{
		PlayerID:  id,
		Name:      "Player " + id,
		Team:      "KC",
		Position:  model.PositionWR,
		Composite: score,
	}
}

func snapshot(id string, score float64, conf model.Confidence) model.WorkloadSnapshot {
	return model.WorkloadSnapshot{
		PlayerID:   id,
		Name:       "Player " + id,
		Position:   model.PositionWR,
		Score:      score,
		Confidence: conf,
	}
}

func TestReconcile_ExcludesQuarterbacks(t *testing.T) {
	qb := composite("qb-1", 80)
	qb.Position = model.PositionQB

	_, err := Reconcile([]model.CompositeResult{qb}, nil)
	require.ErrorIs(t, err, ErrQuarterbackExcluded)

	qbSnap := snapshot("qb-1", 60, model.ConfidenceHigh)
	qbSnap.Position = model.PositionQB
	_, err = Reconcile([]model.CompositeResult{composite("wr-1", 70)}, []model.WorkloadSnapshot{qbSnap})
	require.ErrorIs(t, err, ErrQuarterbackExcluded)
}

func TestReconcile_EmptyCohorts(t *testing.T) {
	records, err := Reconcile(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReconcile_ZDeltaClassification(t *testing.T) {
	fusion := []model.CompositeResult{
		composite("cold", 90), // season-long star, recent ghost
		composite("wr-2", 60),
		composite("wr-3", 55),
		composite("wr-4", 50),
		composite("hot", 45), // season-long afterthought, recent riser
	}
	workload := []model.WorkloadSnapshot{
		snapshot("cold", 20, model.ConfidenceHigh),
		snapshot("wr-2", 60, model.ConfidenceHigh),
		snapshot("wr-3", 55, model.ConfidenceMed),
		snapshot("wr-4", 50, model.ConfidenceMed),
		snapshot("hot", 65, model.ConfidenceHigh),
	}

	records, err := Reconcile(fusion, workload)
	require.NoError(t, err)
	require.Len(t, records, 5)

	byID := make(map[string]model.DeltaRecord)
	for _, rec := range records {
		byID[rec.PlayerID] = rec
	}

	cold := byID["cold"]
	assert.Equal(t, model.DirectionBuyLow, cold.Direction)
	assert.GreaterOrEqual(t, cold.ZDelta, 1.0)
	assert.Equal(t, 100.0, cold.FusionPctile)
	assert.Equal(t, 0.0, cold.WorkloadPctile)
	assert.NotEmpty(t, cold.Rationale)

	hot := byID["hot"]
	assert.Equal(t, model.DirectionSellHigh, hot.Direction)
	assert.LessOrEqual(t, hot.ZDelta, -1.0)

	assert.Equal(t, model.DirectionNeutral, byID["wr-2"].Direction)
	assert.Equal(t, "season-long and recent-form scores agree within noise", byID["wr-2"].Rationale)

	// Sorted by z-delta magnitude descending; the two extremes lead.
	assert.InDelta(t, math.Abs(records[0].ZDelta), math.Abs(byID["cold"].ZDelta), 1e-9)
	for i := 1; i < len(records); i++ {
		assert.GreaterOrEqual(t, math.Abs(records[i-1].ZDelta), math.Abs(records[i].ZDelta))
	}
}

func TestReconcile_DisplayPathNeedsConfidence(t *testing.T) {
	// Scores clumped within a point: the z denominator floor keeps every
	// z-delta under 1, so only the percentile-gap path can classify.
	build := func(conf model.Confidence) ([]model.CompositeResult, []model.WorkloadSnapshot) {
		fusion := []model.CompositeResult{
			composite("gap", 50.5),
			composite("wr-2", 50.4),
			composite("wr-3", 50.3),
			composite("wr-4", 50.2),
			composite("wr-5", 50.1),
		}
		workload := []model.WorkloadSnapshot{
			snapshot("gap", 50.1, conf),
			snapshot("wr-2", 50.2, model.ConfidenceHigh),
			snapshot("wr-3", 50.3, model.ConfidenceHigh),
			snapshot("wr-4", 50.4, model.ConfidenceHigh),
			snapshot("wr-5", 50.5, model.ConfidenceHigh),
		}
		return fusion, workload
	}

	fusion, workload := build(model.ConfidenceMed)
	records, err := Reconcile(fusion, workload)
	require.NoError(t, err)

	var gap model.DeltaRecord
	for _, rec := range records {
		if rec.PlayerID == "gap" {
			gap = rec
		}
	}
	assert.Less(t, math.Abs(gap.ZDelta), 1.0)
	assert.GreaterOrEqual(t, gap.DisplayDelta, 20.0)
	assert.Equal(t, model.DirectionBuyLow, gap.Direction)

	// The same gap with LOW workload confidence stays neutral.
	fusion, workload = build(model.ConfidenceLow)
	records, err = Reconcile(fusion, workload)
	require.NoError(t, err)
	for _, rec := range records {
		if rec.PlayerID == "gap" {
			assert.Equal(t, model.DirectionNeutral, rec.Direction)
		}
	}
}

func TestReconcile_JoinsByPlayerID(t *testing.T) {
	fusion := []model.CompositeResult{
		composite("both", 70),
		composite("fusion-only", 60),
	}
	workload := []model.WorkloadSnapshot{
		snapshot("both", 55, model.ConfidenceMed),
		snapshot("workload-only", 45, model.ConfidenceMed),
	}

	records, err := Reconcile(fusion, workload)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "both", records[0].PlayerID)
	assert.Equal(t, model.ConfidenceMed, records[0].Confidence)
}

func TestTrend_FoldsWeeksInOrder(t *testing.T) {
	fusion := []model.CompositeResult{composite("wr-1", 70), composite("wr-2", 50)}
	workload := []model.WorkloadSnapshot{
		snapshot("wr-1", 60, model.ConfidenceMed),
		snapshot("wr-2", 55, model.ConfidenceMed),
	}

	var fetched []int
	fetch := func(ctx context.Context, anchorWeek int) ([]model.CompositeResult, []model.WorkloadSnapshot, error) {
		fetched = append(fetched, anchorWeek)
		return fusion, workload, nil
	}

	folds, err := Trend(context.Background(), fetch, []int{4, 5, 6})
	require.NoError(t, err)
	require.Len(t, folds, 3)

	assert.Equal(t, []int{4, 5, 6}, fetched)
	for i, wk := range []int{4, 5, 6} {
		assert.Equal(t, wk, folds[i].Week)
		assert.Len(t, folds[i].Records, 2)
	}
}

func TestTrend_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetch := func(ctx context.Context, anchorWeek int) ([]model.CompositeResult, []model.WorkloadSnapshot, error) {
		t.Fatal("fetch must not run after cancellation")
		return nil, nil, nil
	}

	_, err := Trend(ctx, fetch, []int{4, 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrend_PropagatesWeekError(t *testing.T) {
	qb := composite("qb-1", 80)
	qb.Position = model.PositionQB

	fetch := func(ctx context.Context, anchorWeek int) ([]model.CompositeResult, []model.WorkloadSnapshot, error) {
		return []model.CompositeResult{qb}, nil, nil
	}

	_, err := Trend(context.Background(), fetch, []int{4})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuarterbackExcluded)
}

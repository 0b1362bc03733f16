package fusion

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterlab/scout-cli/internal/model"
	"github.com/rosterlab/scout-cli/internal/scoring/params"
	"github.com/rosterlab/scout-cli/internal/scoring/regression"
)

func testParams() *params.Params {
	return &params.Params{
		MinFitRows: 150,
		Positions: map[model.Position]params.PositionParams{
			model.PositionWR: {
				Pillars: map[model.PillarName][]params.FeatureWeight{
					model.PillarVolume:     {{Metric: "targets", Weight: 1}},
					model.PillarEfficiency: {{Metric: "yprr", Weight: 1}},
					model.PillarStability:  {{Metric: "consistency", Weight: 1}},
					model.PillarContext:    {{Metric: "market_value", Weight: 1}},
				},
				Baselines: map[string]float64{"yprr": 1.5},
				Regression: params.RegressionParams{
					Target:   "fpts_pg_next",
					Features: []string{"targets"},
					Fallback: params.FallbackCoeffs{
						Intercept: 2,
						Weights:   map[string]float64{"targets": 1},
					},
				},
			},
		},
		ModeWeights: map[model.Mode]map[model.PillarName]float64{
			model.ModeDynasty: {
				model.PillarVolume:     0.4,
				model.PillarEfficiency: 0.3,
				model.PillarStability:  0.2,
				model.PillarContext:    0.1,
			},
			model.ModeRedraft: {
				model.PillarVolume:     0.5,
				model.PillarEfficiency: 0.4,
				model.PillarStability:  0.1,
			},
		},
		Tiers: []params.Tier{
			{Label: "elite", Min: 90},
			{Label: "starter", Min: 60},
			{Label: "depth", Min: 0},
		},
		Guardrails: params.Guardrails{
			RookieMaxAge:      23,
			RookieMaxSamples:  8,
			RookieVolumeCap:   80,
			MarketCap:         80,
			VeteranMinAge:     27,
			VeteranMinSamples: 30,
		},
		Floors: params.Floors{
			Elite:   88,
			TopTier: 82,
			Veteran: 65,
			Players: []params.FloorEntry{
				{PlayerID: "wr-legend", Tier: "elite"},
				{Name: "Old Guard Jr.", Tier: "top_tier"},
			},
		},
	}
}

func newComposer(t *testing.T) *Composer {
	t.Helper()
	p := testParams()
	return New(p, regression.NewCache(regression.NewTrainer(p)))
}

// wrCohort builds six receivers with targets spread 10..60 and everything
// else identical, so the volume pillar lands on 0/20/40/60/80/100 and the
// other pillars sit at the neutral 50.
func wrCohort() []model.PlayerRow {
	rows := make([]model.PlayerRow, 6)
	for i := range rows {
		rows[i] = model.PlayerRow{
			PlayerID: fmt.Sprintf("wr-%03d", i),
			Name:     fmt.Sprintf("Receiver %d", i),
			Team:     "KC",
			Position: model.PositionWR,
			Age:      25,
			Games:    5,
			Samples:  20,
			Metrics: map[string]float64{
				"targets":      float64(10 * (i + 1)),
				"yprr":         2.0,
				"market_value": 5.0,
			},
		}
	}
	return rows
}

func TestCompose_OrderedAndBounded(t *testing.T) {
	c := newComposer(t)
	results := c.Compose(wrCohort(), model.PositionWR, model.ModeDynasty, Options{})
	require.Len(t, results, 6)

	for i, r := range results {
		assert.Equal(t, i+1, r.Rank)
		assert.GreaterOrEqual(t, r.Composite, 0.0)
		assert.LessOrEqual(t, r.Composite, 100.0)
		assert.GreaterOrEqual(t, r.Overall, 1)
		assert.LessOrEqual(t, r.Overall, 99)
		assert.NotEmpty(t, r.Tier)
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].Composite, r.Composite)
		}
	}
	// Heaviest target load ranks first.
	assert.Equal(t, "wr-005", results[0].PlayerID)

	// Stability has no data anywhere in the cohort, so it drops out of the
	// blend: (0.4*100 + 0.3*50 + 0.1*50) / 0.8.
	assert.Equal(t, 75.0, results[0].Composite)
	assert.NotContains(t, results[0].Pillars, model.PillarStability)
}

func TestCompose_EmptyCohort(t *testing.T) {
	c := newComposer(t)
	assert.Empty(t, c.Compose(nil, model.PositionWR, model.ModeDynasty, Options{}))
}

func TestCompose_BaselineSubstitution(t *testing.T) {
	c := newComposer(t)

	rows := wrCohort()[:3]
	rows[0].Metrics["yprr"] = 0.5
	delete(rows[1].Metrics, "yprr") // substitutes the 1.5 baseline
	rows[2].Metrics["yprr"] = 2.5

	results := c.Compose(rows, model.PositionWR, model.ModeDynasty, Options{})
	require.Len(t, results, 3)

	byID := make(map[string]model.CompositeResult)
	for _, r := range results {
		byID[r.PlayerID] = r
	}

	// The missing value pulls toward the position average, not the bottom.
	assert.Equal(t, 50.0, byID["wr-001"].Pillars[model.PillarEfficiency])
	assert.Equal(t, 0.0, byID["wr-000"].Pillars[model.PillarEfficiency])
	assert.Equal(t, 100.0, byID["wr-002"].Pillars[model.PillarEfficiency])
}

func TestCompose_RookieVolumeCap(t *testing.T) {
	c := newComposer(t)

	rows := wrCohort()
	rows[5].Age = 22
	rows[5].Samples = 4

	results := c.Compose(rows, model.PositionWR, model.ModeDynasty, Options{Debug: true})
	require.Len(t, results, 6)

	capped := results[0]
	require.Equal(t, "wr-005", capped.PlayerID)
	assert.Equal(t, 80.0, capped.Pillars[model.PillarVolume])
	assert.Equal(t, 65.0, capped.Composite)
	require.NotNil(t, capped.Breakdown)
	assert.True(t, capped.Breakdown.RookieCapApplied)

	// An established player with the same usage keeps the full pillar.
	uncapped := c.Compose(wrCohort(), model.PositionWR, model.ModeDynasty, Options{Debug: true})
	assert.Equal(t, 100.0, uncapped[0].Pillars[model.PillarVolume])
	require.NotNil(t, uncapped[0].Breakdown)
	assert.False(t, uncapped[0].Breakdown.RookieCapApplied)
}

func TestCompose_MarketCap(t *testing.T) {
	c := newComposer(t)

	rows := wrCohort()
	for i := range rows {
		rows[i].Metrics["market_value"] = float64(i + 1)
	}

	results := c.Compose(rows, model.PositionWR, model.ModeDynasty, Options{Debug: true})
	top := results[0]
	require.Equal(t, "wr-005", top.PlayerID)

	// Context would rank 100th percentile; the cap holds it at 80.
	assert.Equal(t, 80.0, top.Pillars[model.PillarContext])
	require.NotNil(t, top.Breakdown)
	assert.True(t, top.Breakdown.MarketCapApplied)
}

func TestCompose_ProvenEliteFloorByID(t *testing.T) {
	c := newComposer(t)

	rows := wrCohort()
	rows[0].PlayerID = "wr-legend"

	results := c.Compose(rows, model.PositionWR, model.ModeDynasty, Options{Debug: true})

	var legend model.CompositeResult
	for _, r := range results {
		if r.PlayerID == "wr-legend" {
			legend = r
		}
	}

	// The weakest stat line in the cohort still floors at the elite value.
	assert.Equal(t, 88.0, legend.Composite)
	assert.Contains(t, legend.Badges, "proven_elite")
	require.NotNil(t, legend.Breakdown)
	assert.Equal(t, "elite", legend.Breakdown.FloorApplied)
	assert.Equal(t, 88.0, legend.Breakdown.FloorValue)
	assert.Less(t, legend.Breakdown.PreFloorScore, 88.0)
}

func TestCompose_FloorByNormalizedName(t *testing.T) {
	c := newComposer(t)

	rows := wrCohort()
	rows[0].Name = "OLD GUARD"

	results := c.Compose(rows, model.PositionWR, model.ModeDynasty, Options{})

	var old model.CompositeResult
	for _, r := range results {
		if r.PlayerID == "wr-000" {
			old = r
		}
	}
	assert.Equal(t, 82.0, old.Composite)
	assert.Contains(t, old.Badges, "proven_elite")
}

func TestCompose_VeteranFloor(t *testing.T) {
	c := newComposer(t)

	rows := wrCohort()
	rows[0].Age = 30
	rows[0].Samples = 40

	results := c.Compose(rows, model.PositionWR, model.ModeDynasty, Options{})

	var vet model.CompositeResult
	for _, r := range results {
		if r.PlayerID == "wr-000" {
			vet = r
		}
	}
	assert.Equal(t, 65.0, vet.Composite)
	assert.Contains(t, vet.Badges, "established_vet")
}

func TestCompose_TieBreakByPlayerID(t *testing.T) {
	c := newComposer(t)

	rows := wrCohort()[:3]
	for i := range rows {
		rows[i].Metrics["targets"] = 30
	}

	results := c.Compose(rows, model.PositionWR, model.ModeDynasty, Options{})
	require.Len(t, results, 3)

	assert.Equal(t, "wr-000", results[0].PlayerID)
	assert.Equal(t, "wr-001", results[1].PlayerID)
	assert.Equal(t, "wr-002", results[2].PlayerID)
	assert.Equal(t, results[0].Composite, results[2].Composite)
}

func TestCompose_DebugBreakdown(t *testing.T) {
	c := newComposer(t)

	plain := c.Compose(wrCohort(), model.PositionWR, model.ModeDynasty, Options{})
	for _, r := range plain {
		assert.Nil(t, r.Breakdown)
	}

	debug := c.Compose(wrCohort(), model.PositionWR, model.ModeDynasty, Options{Debug: true})
	for _, r := range debug {
		require.NotNil(t, r.Breakdown)
		assert.Equal(t, model.CoeffSourceFallback, r.Breakdown.CoeffSource)

		var sum float64
		for _, w := range r.Breakdown.WeightsUsed {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		// Stability never scored, so its weight is not part of the blend.
		assert.NotContains(t, r.Breakdown.WeightsUsed, model.PillarStability)
	}
}

func TestCompose_Badges(t *testing.T) {
	c := newComposer(t)

	rows := wrCohort()
	rows[5].Games = 2

	results := c.Compose(rows, model.PositionWR, model.ModeDynasty, Options{})
	top := results[0]
	require.Equal(t, "wr-005", top.PlayerID)

	assert.Contains(t, top.Badges, "alpha_usage")
	assert.Contains(t, top.Badges, "small_sample")
	assert.NotContains(t, results[3].Badges, "alpha_usage")
}

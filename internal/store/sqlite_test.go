package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterlab/scout-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleWeeks() []model.PlayerWeek {
	return []model.PlayerWeek{
		{
			PlayerID: "00-0034857", Name: "Alpha Receiver", Team: "DAL", Position: model.PositionWR,
			Season: 2025, Week: 1, Age: 25,
			Metrics: map[string]float64{"targets": 11, "routes": 34, "yprr": 2.4, "fantasy_points": 18.3},
		},
		{
			PlayerID: "00-0034857", Name: "Alpha Receiver", Team: "DAL", Position: model.PositionWR,
			Season: 2025, Week: 2, Age: 25,
			Metrics: map[string]float64{"targets": 8, "routes": 31, "yprr": 1.9, "fantasy_points": 12.1},
		},
		{
			PlayerID: "00-0036120", Name: "Beta Back", Team: "SF", Position: model.PositionRB,
			Season: 2025, Week: 1, Age: 24,
			Metrics: map[string]float64{"carries": 19, "targets": 4, "fantasy_points": 15.7},
		},
	}
}

func TestSQLite_ImportAndListWeeks(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	n, err := st.ImportWeeks(ctx, sampleWeeks())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	weeks, err := st.ListWeeks(ctx, WeekFilter{Season: 2025, Position: model.PositionWR})
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, "00-0034857", weeks[0].PlayerID)
	assert.Equal(t, 1, weeks[0].Week)
	assert.InDelta(t, 2.4, weeks[0].Metrics["yprr"], 1e-9)
}

func TestSQLite_ImportWeeks_UpsertReplacesRow(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.ImportWeeks(ctx, sampleWeeks())
	require.NoError(t, err)

	// Re-import week 1 with corrected stats.
	corrected := sampleWeeks()[0]
	corrected.Metrics["targets"] = 12
	_, err = st.ImportWeeks(ctx, []model.PlayerWeek{corrected})
	require.NoError(t, err)

	weeks, err := st.ListWeeks(ctx, WeekFilter{Season: 2025, Position: model.PositionWR, ToWeek: 1})
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.InDelta(t, 12, weeks[0].Metrics["targets"], 1e-9)
}

func TestSQLite_ListWeeks_WindowBounds(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.ImportWeeks(ctx, sampleWeeks())
	require.NoError(t, err)

	weeks, err := st.ListWeeks(ctx, WeekFilter{Season: 2025, FromWeek: 2, ToWeek: 2})
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, 2, weeks[0].Week)
}

func TestSQLite_ListWeeks_EmptySeason(t *testing.T) {
	st := newTestSQLiteStore(t)

	weeks, err := st.ListWeeks(context.Background(), WeekFilter{Season: 2019})
	require.NoError(t, err)
	assert.Empty(t, weeks)
}

func TestSQLite_Seasons(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rows := sampleWeeks()
	rows[2].Season = 2024
	_, err := st.ImportWeeks(ctx, rows)
	require.NoError(t, err)

	seasons, err := st.Seasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025}, seasons)
}

func TestSQLite_SaveAndListScores(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	results := []model.CompositeResult{
		{
			PlayerID: "00-0034857", Name: "Alpha Receiver", Team: "DAL",
			Position: model.PositionWR, Age: 25, Mode: model.ModeDynasty,
			Pillars:   model.PillarScores{model.PillarVolume: 88.5, model.PillarEfficiency: 72.0},
			Composite: 84.3, Overall: 91, Tier: "elite", Rank: 1,
			Breakdown: &model.Breakdown{RookieCapApplied: false},
		},
		{
			PlayerID: "00-0037777", Name: "Gamma Receiver", Team: "MIA",
			Position: model.PositionWR, Age: 23, Mode: model.ModeDynasty,
			Pillars:   model.PillarScores{model.PillarVolume: 60.0},
			Composite: 61.0, Overall: 64, Tier: "starter", Rank: 2,
		},
	}

	require.NoError(t, st.SaveScores(ctx, 2025, 6, results))

	snaps, err := st.ListScores(ctx, ScoreFilter{Season: 2025, Week: 6, Position: model.PositionWR})
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	assert.Equal(t, 1, snaps[0].Result.Rank)
	assert.Equal(t, "Alpha Receiver", snaps[0].Result.Name)
	assert.InDelta(t, 88.5, snaps[0].Result.Pillars[model.PillarVolume], 1e-9)
	require.NotNil(t, snaps[0].Result.Breakdown)
	assert.Nil(t, snaps[1].Result.Breakdown)
}

func TestSQLite_ListScores_ModeFilter(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	dynasty := []model.CompositeResult{{
		PlayerID: "00-0034857", Name: "Alpha Receiver", Position: model.PositionWR,
		Mode: model.ModeDynasty, Pillars: model.PillarScores{}, Composite: 80, Overall: 85, Tier: "elite", Rank: 1,
	}}
	redraft := []model.CompositeResult{{
		PlayerID: "00-0034857", Name: "Alpha Receiver", Position: model.PositionWR,
		Mode: model.ModeRedraft, Pillars: model.PillarScores{}, Composite: 75, Overall: 80, Tier: "high_end", Rank: 1,
	}}
	require.NoError(t, st.SaveScores(ctx, 2025, 6, dynasty))
	require.NoError(t, st.SaveScores(ctx, 2025, 6, redraft))

	snaps, err := st.ListScores(ctx, ScoreFilter{Season: 2025, Week: 6, Mode: model.ModeRedraft})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, model.ModeRedraft, snaps[0].Result.Mode)
}

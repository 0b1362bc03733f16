package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterlab/scout-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_ImportWeeks_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	n, err := s.ImportWeeks(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ImportWeeks_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_player_weeks"}, playerWeekColumns).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "player_weeks"`).WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	weeks := []model.PlayerWeek{
		{PlayerID: "00-0034857", Name: "Alpha Receiver", Position: model.PositionWR, Season: 2025, Week: 1,
			Metrics: map[string]float64{"targets": 11}},
		{PlayerID: "00-0034857", Name: "Alpha Receiver", Position: model.PositionWR, Season: 2025, Week: 2,
			Metrics: map[string]float64{"targets": 8}},
	}
	n, err := s.ImportWeeks(context.Background(), weeks)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListWeeks_BuildsFilteredQuery(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"player_id", "name", "team", "position", "season", "week", "age", "metrics"}).
		AddRow("00-0034857", "Alpha Receiver", "DAL", "WR", 2025, 3, 25, []byte(`{"targets":9}`))

	mock.ExpectQuery(`SELECT player_id, name, team, position, season, week, age, metrics FROM player_weeks WHERE season = \$1 AND position = \$2 AND week >= \$3 AND week <= \$4`).
		WithArgs(2025, "WR", 1, 4).
		WillReturnRows(rows)

	weeks, err := s.ListWeeks(context.Background(), WeekFilter{
		Season: 2025, Position: model.PositionWR, FromWeek: 1, ToWeek: 4,
	})
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, model.PositionWR, weeks[0].Position)
	assert.InDelta(t, 9, weeks[0].Metrics["targets"], 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveScores_CopiesRows(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"score_snapshots"}, scoreSnapshotColumns).WillReturnResult(1)

	results := []model.CompositeResult{{
		PlayerID: "00-0034857", Name: "Alpha Receiver", Position: model.PositionWR,
		Mode: model.ModeDynasty, Pillars: model.PillarScores{model.PillarVolume: 88.5},
		Composite: 84.3, Overall: 91, Tier: "elite", Rank: 1,
	}}
	require.NoError(t, s.SaveScores(context.Background(), 2025, 6, results))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListScores_ScansSnapshot(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	created := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	breakdown := []byte(`{"rookie_cap_applied":true}`)
	rows := pgxmock.NewRows([]string{
		"id", "season", "week", "position", "mode", "player_id", "name", "team", "age",
		"composite", "overall", "tier", "rank", "pillars", "breakdown", "created_at",
	}).AddRow(
		"snap-1", 2025, 6, "WR", "dynasty", "00-0034857", "Alpha Receiver", "DAL", 25,
		84.3, 91, "elite", 1, []byte(`{"volume":88.5}`), &breakdown, created,
	)

	mock.ExpectQuery(`SELECT id, season, week, position, mode`).
		WithArgs(2025, 6, "WR", 500).
		WillReturnRows(rows)

	snaps, err := s.ListScores(context.Background(), ScoreFilter{Season: 2025, Week: 6, Position: model.PositionWR})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "snap-1", snaps[0].ID)
	assert.Equal(t, 1, snaps[0].Result.Rank)
	require.NotNil(t, snaps[0].Result.Breakdown)
	assert.True(t, snaps[0].Result.Breakdown.RookieCapApplied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Seasons(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"season"}).AddRow(2024).AddRow(2025)
	mock.ExpectQuery(`SELECT DISTINCT season FROM player_weeks`).WillReturnRows(rows)

	seasons, err := s.Seasons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025}, seasons)
	assert.NoError(t, mock.ExpectationsWereMet())
}

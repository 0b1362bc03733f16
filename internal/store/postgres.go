package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/rosterlab/scout-cli/internal/db"
	"github.com/rosterlab/scout-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"list_seasons": `SELECT DISTINCT season FROM player_weeks ORDER BY season`,
	"insert_score": `INSERT INTO score_snapshots
		(id, season, week, position, mode, player_id, name, team, age, composite, overall, tier, rank, pillars, breakdown, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need direct
// query access (e.g., the regression trainer).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS player_weeks (
	player_id   TEXT NOT NULL,
	name        TEXT NOT NULL,
	team        TEXT NOT NULL DEFAULT '',
	position    TEXT NOT NULL,
	season      INTEGER NOT NULL,
	week        INTEGER NOT NULL,
	age         INTEGER NOT NULL DEFAULT 0,
	metrics     JSONB NOT NULL,
	imported_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (player_id, season, week)
);

CREATE INDEX IF NOT EXISTS idx_player_weeks_season_week ON player_weeks(season, week);
CREATE INDEX IF NOT EXISTS idx_player_weeks_position ON player_weeks(position);

CREATE TABLE IF NOT EXISTS score_snapshots (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	season     INTEGER NOT NULL,
	week       INTEGER NOT NULL,
	position   TEXT NOT NULL,
	mode       TEXT NOT NULL,
	player_id  TEXT NOT NULL,
	name       TEXT NOT NULL,
	team       TEXT NOT NULL DEFAULT '',
	age        INTEGER NOT NULL DEFAULT 0,
	composite  DOUBLE PRECISION NOT NULL,
	overall    INTEGER NOT NULL,
	tier       TEXT NOT NULL,
	rank       INTEGER NOT NULL,
	pillars    JSONB NOT NULL,
	breakdown  JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_score_snapshots_season_week ON score_snapshots(season, week);
CREATE INDEX IF NOT EXISTS idx_score_snapshots_player ON score_snapshots(player_id);
CREATE INDEX IF NOT EXISTS idx_score_snapshots_position_mode ON score_snapshots(position, mode);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

var playerWeekColumns = []string{
	"player_id", "name", "team", "position", "season", "week", "age", "metrics", "imported_at",
}

// ImportWeeks upserts weekly stat rows. Re-importing a week replaces the
// existing line for that player so corrected stat feeds win.
func (s *PostgresStore) ImportWeeks(ctx context.Context, weeks []model.PlayerWeek) (int64, error) {
	if len(weeks) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(weeks))
	for _, w := range weeks {
		metricsJSON, err := json.Marshal(w.Metrics)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: marshal metrics for %s week %d", w.PlayerID, w.Week)
		}
		rows = append(rows, []any{
			w.PlayerID, w.Name, w.Team, string(w.Position), w.Season, w.Week, w.Age, metricsJSON, now,
		})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "player_weeks",
		Columns:      playerWeekColumns,
		ConflictKeys: []string{"player_id", "season", "week"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: import weeks")
	}
	return n, nil
}

func (s *PostgresStore) ListWeeks(ctx context.Context, filter WeekFilter) ([]model.PlayerWeek, error) {
	query := `SELECT player_id, name, team, position, season, week, age, metrics FROM player_weeks WHERE season = $1`
	args := []any{filter.Season}
	argIdx := 2

	if filter.Position != "" {
		query += fmt.Sprintf(` AND position = $%d`, argIdx)
		args = append(args, string(filter.Position))
		argIdx++
	}
	if filter.FromWeek > 0 {
		query += fmt.Sprintf(` AND week >= $%d`, argIdx)
		args = append(args, filter.FromWeek)
		argIdx++
	}
	if filter.ToWeek > 0 {
		query += fmt.Sprintf(` AND week <= $%d`, argIdx)
		args = append(args, filter.ToWeek)
		argIdx++
	}
	query += ` ORDER BY week ASC, player_id ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list weeks")
	}
	defer rows.Close()

	var weeks []model.PlayerWeek
	for rows.Next() {
		var w model.PlayerWeek
		var pos string
		var metricsJSON []byte
		if err := rows.Scan(&w.PlayerID, &w.Name, &w.Team, &pos, &w.Season, &w.Week, &w.Age, &metricsJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan week")
		}
		w.Position = model.Position(pos)
		if err := json.Unmarshal(metricsJSON, &w.Metrics); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal metrics for %s", w.PlayerID)
		}
		weeks = append(weeks, w)
	}
	return weeks, eris.Wrap(rows.Err(), "postgres: list weeks iterate")
}

func (s *PostgresStore) Seasons(ctx context.Context) ([]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT season FROM player_weeks ORDER BY season`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list seasons")
	}
	defer rows.Close()

	var seasons []int
	for rows.Next() {
		var season int
		if err := rows.Scan(&season); err != nil {
			return nil, eris.Wrap(err, "postgres: scan season")
		}
		seasons = append(seasons, season)
	}
	return seasons, eris.Wrap(rows.Err(), "postgres: list seasons iterate")
}

var scoreSnapshotColumns = []string{
	"id", "season", "week", "position", "mode", "player_id", "name", "team", "age",
	"composite", "overall", "tier", "rank", "pillars", "breakdown", "created_at",
}

// SaveScores appends one snapshot row per result via COPY.
func (s *PostgresStore) SaveScores(ctx context.Context, season, week int, results []model.CompositeResult) error {
	if len(results) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(results))
	for _, r := range results {
		pillarsJSON, err := json.Marshal(r.Pillars)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal pillars for %s", r.PlayerID)
		}
		var breakdownJSON []byte
		if r.Breakdown != nil {
			breakdownJSON, err = json.Marshal(r.Breakdown)
			if err != nil {
				return eris.Wrapf(err, "postgres: marshal breakdown for %s", r.PlayerID)
			}
		}
		rows = append(rows, []any{
			uuid.New().String(), season, week, string(r.Position), string(r.Mode),
			r.PlayerID, r.Name, r.Team, r.Age,
			r.Composite, r.Overall, r.Tier, r.Rank, pillarsJSON, breakdownJSON, now,
		})
	}

	if _, err := db.CopyFrom(ctx, s.pool, "score_snapshots", scoreSnapshotColumns, rows); err != nil {
		return eris.Wrap(err, "postgres: save scores")
	}
	return nil
}

func (s *PostgresStore) ListScores(ctx context.Context, filter ScoreFilter) ([]ScoreSnapshot, error) {
	query := `SELECT id, season, week, position, mode, player_id, name, team, age,
	                 composite, overall, tier, rank, pillars, breakdown, created_at
	          FROM score_snapshots WHERE season = $1 AND week = $2`
	args := []any{filter.Season, filter.Week}
	argIdx := 3

	if filter.Position != "" {
		query += fmt.Sprintf(` AND position = $%d`, argIdx)
		args = append(args, string(filter.Position))
		argIdx++
	}
	if filter.Mode != "" {
		query += fmt.Sprintf(` AND mode = $%d`, argIdx)
		args = append(args, string(filter.Mode))
		argIdx++
	}
	query += ` ORDER BY created_at DESC, rank ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scores")
	}
	defer rows.Close()

	var snaps []ScoreSnapshot
	for rows.Next() {
		var snap ScoreSnapshot
		var pos, mode string
		var pillarsJSON []byte
		var breakdownJSON *[]byte
		if err := rows.Scan(&snap.ID, &snap.Season, &snap.Week, &pos, &mode,
			&snap.Result.PlayerID, &snap.Result.Name, &snap.Result.Team, &snap.Result.Age,
			&snap.Result.Composite, &snap.Result.Overall, &snap.Result.Tier, &snap.Result.Rank,
			&pillarsJSON, &breakdownJSON, &snap.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan score")
		}
		snap.Result.Position = model.Position(pos)
		snap.Result.Mode = model.Mode(mode)
		if err := json.Unmarshal(pillarsJSON, &snap.Result.Pillars); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal pillars")
		}
		if breakdownJSON != nil && len(*breakdownJSON) > 0 {
			snap.Result.Breakdown = &model.Breakdown{}
			if err := json.Unmarshal(*breakdownJSON, snap.Result.Breakdown); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal breakdown")
			}
		}
		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "postgres: list scores iterate")
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/rosterlab/scout-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS player_weeks (
	player_id   TEXT NOT NULL,
	name        TEXT NOT NULL,
	team        TEXT NOT NULL DEFAULT '',
	position    TEXT NOT NULL,
	season      INTEGER NOT NULL,
	week        INTEGER NOT NULL,
	age         INTEGER NOT NULL DEFAULT 0,
	metrics     TEXT NOT NULL,
	imported_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (player_id, season, week)
);

CREATE INDEX IF NOT EXISTS idx_player_weeks_season_week ON player_weeks(season, week);
CREATE INDEX IF NOT EXISTS idx_player_weeks_position ON player_weeks(position);

CREATE TABLE IF NOT EXISTS score_snapshots (
	id         TEXT PRIMARY KEY,
	season     INTEGER NOT NULL,
	week       INTEGER NOT NULL,
	position   TEXT NOT NULL,
	mode       TEXT NOT NULL,
	player_id  TEXT NOT NULL,
	name       TEXT NOT NULL,
	team       TEXT NOT NULL DEFAULT '',
	age        INTEGER NOT NULL DEFAULT 0,
	composite  REAL NOT NULL,
	overall    INTEGER NOT NULL,
	tier       TEXT NOT NULL,
	rank       INTEGER NOT NULL,
	pillars    TEXT NOT NULL,
	breakdown  TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_score_snapshots_season_week ON score_snapshots(season, week);
CREATE INDEX IF NOT EXISTS idx_score_snapshots_player ON score_snapshots(player_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ImportWeeks(ctx context.Context, weeks []model.PlayerWeek) (int64, error) {
	if len(weeks) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO player_weeks (player_id, name, team, position, season, week, age, metrics, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (player_id, season, week) DO UPDATE SET
		   name = excluded.name, team = excluded.team, position = excluded.position,
		   age = excluded.age, metrics = excluded.metrics, imported_at = excluded.imported_at`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare import")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	var n int64
	for _, w := range weeks {
		metricsJSON, err := json.Marshal(w.Metrics)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: marshal metrics for %s week %d", w.PlayerID, w.Week)
		}
		if _, err := stmt.ExecContext(ctx,
			w.PlayerID, w.Name, w.Team, string(w.Position), w.Season, w.Week, w.Age, string(metricsJSON), now,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: import week for %s", w.PlayerID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit import")
	}
	return n, nil
}

func (s *SQLiteStore) ListWeeks(ctx context.Context, filter WeekFilter) ([]model.PlayerWeek, error) {
	query := `SELECT player_id, name, team, position, season, week, age, metrics FROM player_weeks WHERE season = ?`
	args := []any{filter.Season}

	if filter.Position != "" {
		query += ` AND position = ?`
		args = append(args, string(filter.Position))
	}
	if filter.FromWeek > 0 {
		query += ` AND week >= ?`
		args = append(args, filter.FromWeek)
	}
	if filter.ToWeek > 0 {
		query += ` AND week <= ?`
		args = append(args, filter.ToWeek)
	}
	query += ` ORDER BY week ASC, player_id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list weeks")
	}
	defer rows.Close()

	var weeks []model.PlayerWeek
	for rows.Next() {
		var w model.PlayerWeek
		var pos, metricsJSON string
		if err := rows.Scan(&w.PlayerID, &w.Name, &w.Team, &pos, &w.Season, &w.Week, &w.Age, &metricsJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan week")
		}
		w.Position = model.Position(pos)
		if err := json.Unmarshal([]byte(metricsJSON), &w.Metrics); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal metrics for %s", w.PlayerID)
		}
		weeks = append(weeks, w)
	}
	return weeks, eris.Wrap(rows.Err(), "sqlite: list weeks iterate")
}

func (s *SQLiteStore) Seasons(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT season FROM player_weeks ORDER BY season`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list seasons")
	}
	defer rows.Close()

	var seasons []int
	for rows.Next() {
		var season int
		if err := rows.Scan(&season); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan season")
		}
		seasons = append(seasons, season)
	}
	return seasons, eris.Wrap(rows.Err(), "sqlite: list seasons iterate")
}

func (s *SQLiteStore) SaveScores(ctx context.Context, season, week int, results []model.CompositeResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO score_snapshots
		 (id, season, week, position, mode, player_id, name, team, age, composite, overall, tier, rank, pillars, breakdown, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare save scores")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range results {
		pillarsJSON, err := json.Marshal(r.Pillars)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal pillars for %s", r.PlayerID)
		}
		var breakdownJSON any
		if r.Breakdown != nil {
			b, err := json.Marshal(r.Breakdown)
			if err != nil {
				return eris.Wrapf(err, "sqlite: marshal breakdown for %s", r.PlayerID)
			}
			breakdownJSON = string(b)
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), season, week, string(r.Position), string(r.Mode),
			r.PlayerID, r.Name, r.Team, r.Age,
			r.Composite, r.Overall, r.Tier, r.Rank, string(pillarsJSON), breakdownJSON, now,
		); err != nil {
			return eris.Wrapf(err, "sqlite: save score for %s", r.PlayerID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit save scores")
}

func (s *SQLiteStore) ListScores(ctx context.Context, filter ScoreFilter) ([]ScoreSnapshot, error) {
	query := `SELECT id, season, week, position, mode, player_id, name, team, age,
	                 composite, overall, tier, rank, pillars, breakdown, created_at
	          FROM score_snapshots WHERE season = ? AND week = ?`
	args := []any{filter.Season, filter.Week}

	if filter.Position != "" {
		query += ` AND position = ?`
		args = append(args, string(filter.Position))
	}
	if filter.Mode != "" {
		query += ` AND mode = ?`
		args = append(args, string(filter.Mode))
	}
	query += ` ORDER BY created_at DESC, rank ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(` LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scores")
	}
	defer rows.Close()

	var snaps []ScoreSnapshot
	for rows.Next() {
		var snap ScoreSnapshot
		var pos, mode, pillarsJSON string
		var breakdownJSON sql.NullString
		if err := rows.Scan(&snap.ID, &snap.Season, &snap.Week, &pos, &mode,
			&snap.Result.PlayerID, &snap.Result.Name, &snap.Result.Team, &snap.Result.Age,
			&snap.Result.Composite, &snap.Result.Overall, &snap.Result.Tier, &snap.Result.Rank,
			&pillarsJSON, &breakdownJSON, &snap.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan score")
		}
		snap.Result.Position = model.Position(pos)
		snap.Result.Mode = model.Mode(mode)
		if err := json.Unmarshal([]byte(pillarsJSON), &snap.Result.Pillars); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal pillars")
		}
		if breakdownJSON.Valid && breakdownJSON.String != "" {
			snap.Result.Breakdown = &model.Breakdown{}
			if err := json.Unmarshal([]byte(breakdownJSON.String), snap.Result.Breakdown); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal breakdown")
			}
		}
		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "sqlite: list scores iterate")
}

package store

import (
	"context"
	"time"

	"github.com/rosterlab/scout-cli/internal/model"
)

// WeekFilter specifies criteria for listing weekly stat rows.
type WeekFilter struct {
	Season   int            `json:"season"`
	Position model.Position `json:"position,omitempty"`
	FromWeek int            `json:"from_week,omitempty"` // inclusive; 0 means no lower bound
	ToWeek   int            `json:"to_week,omitempty"`   // inclusive; 0 means no upper bound
}

// ScoreFilter specifies criteria for listing saved score snapshots.
type ScoreFilter struct {
	Season   int            `json:"season"`
	Week     int            `json:"week"`
	Position model.Position `json:"position,omitempty"`
	Mode     model.Mode     `json:"mode,omitempty"`
	Limit    int            `json:"limit,omitempty"`
}

// ScoreSnapshot is one persisted composite score row. Snapshots are
// append-only; re-scoring the same week produces a new batch.
type ScoreSnapshot struct {
	ID        string                `json:"id"`
	Season    int                   `json:"season"`
	Week      int                   `json:"week"`
	CreatedAt time.Time             `json:"created_at"`
	Result    model.CompositeResult `json:"result"`
}

// Store defines the persistence interface for weekly stats and score history.
type Store interface {
	// Weekly stats
	ImportWeeks(ctx context.Context, weeks []model.PlayerWeek) (int64, error)
	ListWeeks(ctx context.Context, filter WeekFilter) ([]model.PlayerWeek, error)
	Seasons(ctx context.Context) ([]int, error)

	// Score history
	SaveScores(ctx context.Context, season, week int, results []model.CompositeResult) error
	ListScores(ctx context.Context, filter ScoreFilter) ([]ScoreSnapshot, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

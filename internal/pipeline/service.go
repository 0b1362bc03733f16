// Package pipeline wires the store and scoring engines into the operations
// exposed by the CLI and the HTTP API.
package pipeline

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rosterlab/scout-cli/internal/model"
	"github.com/rosterlab/scout-cli/internal/scoring/delta"
	"github.com/rosterlab/scout-cli/internal/scoring/fusion"
	"github.com/rosterlab/scout-cli/internal/scoring/params"
	"github.com/rosterlab/scout-cli/internal/scoring/regression"
	"github.com/rosterlab/scout-cli/internal/scoring/workload"
	"github.com/rosterlab/scout-cli/internal/store"
)

// Service coordinates the store and the scoring engines. Safe for concurrent
// use; regression coefficients are cached after the first fit.
type Service struct {
	store        store.Store
	params       *params.Params
	trainer      *regression.Trainer
	coeffs       *regression.Cache
	workload     *workload.Scorer
	rollingWeeks int

	mu      sync.Mutex
	trained map[int]bool // seasons whose coefficients have been fit
}

// New builds a Service. rollingWeeks controls the recent-form window and is
// clamped by the workload scorer.
func New(st store.Store, p *params.Params, rollingWeeks int) *Service {
	trainer := regression.NewTrainer(p)
	return &Service{
		store:        st,
		params:       p,
		trainer:      trainer,
		coeffs:       regression.NewCache(trainer),
		workload:     workload.New(p),
		rollingWeeks: rollingWeeks,
		trained:      make(map[int]bool),
	}
}

// ScoreRequest identifies one cohort scoring run.
type ScoreRequest struct {
	Season   int            `json:"season"`
	Week     int            `json:"week"`
	Position model.Position `json:"position"`
	Mode     model.Mode     `json:"mode"`
	Debug    bool           `json:"debug,omitempty"`
}

// ScoreWeek scores a position cohort on season-to-date data through the
// given week.
func (s *Service) ScoreWeek(ctx context.Context, req ScoreRequest) ([]model.CompositeResult, error) {
	weeks, err := s.store.ListWeeks(ctx, store.WeekFilter{
		Season:   req.Season,
		Position: req.Position,
		ToWeek:   req.Week,
	})
	if err != nil {
		return nil, err
	}
	if len(weeks) == 0 {
		return nil, eris.Errorf("pipeline: no stat rows for %s season %d through week %d", req.Position, req.Season, req.Week)
	}

	if err := s.ensureCoeffs(ctx, req.Season); err != nil {
		// Fallback coefficients still produce a projection; scoring proceeds.
		zap.L().Warn("coefficient fit unavailable, using fallback",
			zap.Int("season", req.Season),
			zap.Error(err))
	}

	rows := model.AggregateWeeks(weeks, s.params.SumMetricSet())
	composer := fusion.New(s.params, s.coeffs)
	return composer.Compose(rows, req.Position, req.Mode, fusion.Options{Debug: req.Debug}), nil
}

// Workload computes rolling-window recent-form snapshots for a position
// cohort anchored at the given week.
func (s *Service) Workload(ctx context.Context, season, anchorWeek int, position model.Position) ([]model.WorkloadSnapshot, error) {
	weeks, err := s.store.ListWeeks(ctx, store.WeekFilter{
		Season:   season,
		Position: position,
		ToWeek:   anchorWeek,
	})
	if err != nil {
		return nil, err
	}
	if len(weeks) == 0 {
		return nil, eris.Errorf("pipeline: no stat rows for %s season %d through week %d", position, season, anchorWeek)
	}
	return s.workload.Score(weeks, position, anchorWeek, s.rollingWeeks), nil
}

// Delta reconciles the season-long composite against the recent-form score
// for one anchor week.
func (s *Service) Delta(ctx context.Context, season, anchorWeek int, position model.Position, mode model.Mode) ([]model.DeltaRecord, error) {
	if position == model.PositionQB {
		return nil, delta.ErrQuarterbackExcluded
	}

	scores, err := s.ScoreWeek(ctx, ScoreRequest{Season: season, Week: anchorWeek, Position: position, Mode: mode})
	if err != nil {
		return nil, err
	}
	snaps, err := s.Workload(ctx, season, anchorWeek, position)
	if err != nil {
		return nil, err
	}
	return delta.Reconcile(scores, snaps)
}

// Trend folds Delta over the trailing n anchor weeks ending at anchorWeek.
func (s *Service) Trend(ctx context.Context, season, anchorWeek, n int, position model.Position, mode model.Mode) ([]model.WeekDelta, error) {
	if n < 1 {
		n = 1
	}
	var weeks []int
	for w := anchorWeek - n + 1; w <= anchorWeek; w++ {
		if w >= 1 {
			weeks = append(weeks, w)
		}
	}

	fetch := func(ctx context.Context, week int) ([]model.CompositeResult, []model.WorkloadSnapshot, error) {
		scores, err := s.ScoreWeek(ctx, ScoreRequest{Season: season, Week: week, Position: position, Mode: mode})
		if err != nil {
			return nil, nil, err
		}
		snaps, err := s.Workload(ctx, season, week, position)
		if err != nil {
			return nil, nil, err
		}
		return scores, snaps, nil
	}
	return delta.Trend(ctx, fetch, weeks)
}

// Train fits regression coefficients for every position from the stored
// season and returns them keyed by position.
func (s *Service) Train(ctx context.Context, season int) (map[model.Position]model.Coeffs, error) {
	rows, err := s.trainingRows(ctx, season)
	if err != nil {
		return nil, err
	}
	if err := s.coeffs.Refresh(rows); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.trained[season] = true
	s.mu.Unlock()

	out := make(map[model.Position]model.Coeffs, len(model.Positions))
	for _, pos := range model.Positions {
		out[pos] = s.coeffs.For(pos)
	}
	return out, nil
}

// SaveScores persists a scored cohort as an append-only snapshot batch.
func (s *Service) SaveScores(ctx context.Context, season, week int, results []model.CompositeResult) error {
	return s.store.SaveScores(ctx, season, week, results)
}

// ensureCoeffs fits coefficients once per season, preferring the most recent
// completed season in the store as training data.
func (s *Service) ensureCoeffs(ctx context.Context, season int) error {
	s.mu.Lock()
	done := s.trained[season]
	s.mu.Unlock()
	if done {
		return nil
	}

	trainSeason := season
	seasons, err := s.store.Seasons(ctx)
	if err != nil {
		return err
	}
	for _, sn := range seasons {
		if sn < season && (trainSeason == season || sn > trainSeason) {
			trainSeason = sn
		}
	}

	rows, err := s.trainingRows(ctx, trainSeason)
	if err != nil {
		return err
	}
	if err := s.coeffs.Refresh(rows); err != nil {
		return err
	}

	s.mu.Lock()
	s.trained[season] = true
	s.mu.Unlock()
	return nil
}

// trainingRows builds regression inputs from one season: features are the
// first-half aggregate, the target is mean fantasy points per game over the
// remaining weeks. Players without second-half appearances get no target and
// are skipped by the fitter.
func (s *Service) trainingRows(ctx context.Context, season int) ([]model.TrainingRow, error) {
	weeks, err := s.store.ListWeeks(ctx, store.WeekFilter{Season: season})
	if err != nil {
		return nil, err
	}
	if len(weeks) == 0 {
		return nil, eris.Errorf("pipeline: no stat rows for season %d", season)
	}

	maxWeek := 0
	for _, w := range weeks {
		if w.Week > maxWeek {
			maxWeek = w.Week
		}
	}
	splitWeek := maxWeek / 2
	if splitWeek < 1 {
		splitWeek = 1
	}

	var firstHalf []model.PlayerWeek
	targetSum := make(map[string]float64)
	targetGames := make(map[string]int)
	for _, w := range weeks {
		if w.Week <= splitWeek {
			firstHalf = append(firstHalf, w)
			continue
		}
		if pts, ok := w.Metrics["fpts"]; ok {
			targetSum[w.PlayerID] += pts
			targetGames[w.PlayerID]++
		}
	}

	rows := model.AggregateWeeks(firstHalf, s.params.SumMetricSet())
	out := make([]model.TrainingRow, 0, len(rows))
	for _, r := range rows {
		tr := model.TrainingRow{PlayerRow: r}
		if g := targetGames[r.PlayerID]; g > 0 {
			t := targetSum[r.PlayerID] / float64(g)
			tr.Target = &t
		}
		out = append(out, tr)
	}
	return out, nil
}

package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterlab/scout-cli/internal/model"
)

func TestLoad_DefaultsWhenPathEmpty(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)

	for _, pos := range model.Positions {
		assert.Contains(t, p.Positions, pos)
	}
	assert.Contains(t, p.ModeWeights, model.ModeDynasty)
	assert.Contains(t, p.ModeWeights, model.ModeRedraft)
	assert.NotEmpty(t, p.Tiers)
}

func TestLoad_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"custom\"\nmin_fit_rows: 200\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", p.Version)
	assert.Equal(t, 200, p.MinFitRows)
	// Everything not overridden keeps the built-in defaults.
	assert.Contains(t, p.Positions, model.PositionWR)
	assert.NotEmpty(t, p.Floors.Players)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tiers: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Params)
		wantMsg string
	}{
		{
			name:    "zero fit floor",
			mutate:  func(p *Params) { p.MinFitRows = 0 },
			wantMsg: "min_fit_rows",
		},
		{
			name:    "missing position",
			mutate:  func(p *Params) { delete(p.Positions, model.PositionTE) },
			wantMsg: "missing position block for TE",
		},
		{
			name: "empty pillar table",
			mutate: func(p *Params) {
				pp := p.Positions[model.PositionWR]
				pp.Pillars[model.PillarVolume] = nil
				p.Positions[model.PositionWR] = pp
			},
			wantMsg: "pillar volume has no features",
		},
		{
			name: "missing regression target",
			mutate: func(p *Params) {
				pp := p.Positions[model.PositionRB]
				pp.Regression.Target = ""
				p.Positions[model.PositionRB] = pp
			},
			wantMsg: "regression has no target",
		},
		{
			name: "workload shares off",
			mutate: func(p *Params) {
				pp := p.Positions[model.PositionWR]
				pp.Workload.OpportunityShare = 0.9
				p.Positions[model.PositionWR] = pp
			},
			wantMsg: "workload shares",
		},
		{
			name: "min threshold above base",
			mutate: func(p *Params) {
				pp := p.Positions[model.PositionWR]
				pp.Workload.MinThreshold = pp.Workload.BaseThreshold + 1
				p.Positions[model.PositionWR] = pp
			},
			wantMsg: "min_threshold exceeds base_threshold",
		},
		{
			name:    "missing mode weights",
			mutate:  func(p *Params) { delete(p.ModeWeights, model.ModeRedraft) },
			wantMsg: "missing mode weights for redraft",
		},
		{
			name: "non-descending tiers",
			mutate: func(p *Params) {
				p.Tiers = []Tier{{Label: "a", Min: 50}, {Label: "b", Min: 50}}
			},
			wantMsg: "strictly descending",
		},
		{
			name: "floor entry without identity",
			mutate: func(p *Params) {
				p.Floors.Players = append(p.Floors.Players, FloorEntry{Tier: "elite"})
			},
			wantMsg: "neither player_id nor name",
		},
		{
			name: "floor entry bad tier",
			mutate: func(p *Params) {
				p.Floors.Players = append(p.Floors.Players, FloorEntry{PlayerID: "x", Tier: "legend"})
			},
			wantMsg: "unknown tier",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Default()
			tc.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestSumMetricSet(t *testing.T) {
	p := &Params{SumMetrics: []string{"targets", "fpts"}}
	set := p.SumMetricSet()
	assert.True(t, set["targets"])
	assert.True(t, set["fpts"])
	assert.False(t, set["yprr"])
}

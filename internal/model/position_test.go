package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Position
		wantErr bool
	}{
		{name: "uppercase", in: "WR", want: PositionWR},
		{name: "lowercase", in: "rb", want: PositionRB},
		{name: "padded", in: "  te ", want: PositionTE},
		{name: "kicker rejected", in: "K", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePosition(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseMode(t *testing.T) {
	got, err := ParseMode(" Dynasty ")
	require.NoError(t, err)
	assert.Equal(t, ModeDynasty, got)

	got, err = ParseMode("REDRAFT")
	require.NoError(t, err)
	assert.Equal(t, ModeRedraft, got)

	_, err = ParseMode("keeper")
	require.Error(t, err)
}

func TestPlayerRowMetric(t *testing.T) {
	row := PlayerRow{Metrics: map[string]float64{
		"targets": 9,
		"yprr":    math.NaN(),
		"epa":     math.Inf(-1),
	}}

	v, ok := row.Metric("targets")
	assert.True(t, ok)
	assert.Equal(t, 9.0, v)

	_, ok = row.Metric("yprr")
	assert.False(t, ok)
	_, ok = row.Metric("epa")
	assert.False(t, ok)
	_, ok = row.Metric("routes")
	assert.False(t, ok)
}

func TestPillarScoresClone(t *testing.T) {
	orig := PillarScores{PillarVolume: 80, PillarEfficiency: 60}
	cp := orig.Clone()
	cp[PillarVolume] = 10

	assert.Equal(t, 80.0, orig[PillarVolume])
	assert.Equal(t, 10.0, cp[PillarVolume])
}

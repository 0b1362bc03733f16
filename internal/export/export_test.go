package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/rosterlab/scout-cli/internal/model"
)

func sampleResults() []model.CompositeResult {
	return []model.CompositeResult{
		{
			PlayerID: "00-0034857", Name: "Alpha Receiver", Team: "DAL",
			Position: model.PositionWR, Age: 25, Mode: model.ModeDynasty,
			Pillars: model.PillarScores{
				model.PillarVolume:     88.5,
				model.PillarEfficiency: 72.0,
				model.PillarRole:       91.2,
			},
			Composite: 84.3, Overall: 91, Tier: "elite", Rank: 1,
			Badges: []string{"elite", "proven_floor"},
		},
		{
			PlayerID: "00-0036120", Name: "Beta Back", Team: "SF",
			Position: model.PositionRB, Age: 24, Mode: model.ModeDynasty,
			Pillars:   model.PillarScores{model.PillarVolume: 70.0},
			Composite: 65.0, Overall: 68, Tier: "starter", Rank: 1,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResults()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "rank", records[0][0])
	assert.Equal(t, "volume", records[0][11])

	wr := records[1]
	assert.Equal(t, "1", wr[0])
	assert.Equal(t, "Alpha Receiver", wr[2])
	assert.Equal(t, "84.3", wr[7])
	assert.Equal(t, "elite|proven_floor", wr[10])
	assert.Equal(t, "88.5", wr[11])

	// Missing pillar renders as an empty cell, not zero.
	rb := records[2]
	assert.Equal(t, "", rb[12])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}

func TestWriteXLSX_SheetPerPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.xlsx")
	require.NoError(t, WriteXLSX(path, sampleResults()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)

	// Sheets follow position order: RB before WR.
	assert.Equal(t, "RB", f.Sheets[0].Name)
	assert.Equal(t, "WR", f.Sheets[1].Name)

	wrSheet := f.Sheets[1]
	require.Len(t, wrSheet.Rows, 2)
	assert.Equal(t, "Alpha Receiver", wrSheet.Rows[1].Cells[2].String())
}

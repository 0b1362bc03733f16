// Package export writes scored cohorts to CSV and XLSX files.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rosterlab/scout-cli/internal/model"
)

// pillarOrder fixes the column layout for both formats.
var pillarOrder = []model.PillarName{
	model.PillarVolume,
	model.PillarEfficiency,
	model.PillarRole,
	model.PillarStability,
	model.PillarContext,
}

func header() []string {
	cols := []string{"rank", "player_id", "name", "team", "position", "mode", "age", "composite", "overall", "tier", "badges"}
	for _, p := range pillarOrder {
		cols = append(cols, string(p))
	}
	return cols
}

func record(r model.CompositeResult) []string {
	rec := []string{
		strconv.Itoa(r.Rank),
		r.PlayerID,
		r.Name,
		r.Team,
		string(r.Position),
		string(r.Mode),
		strconv.Itoa(r.Age),
		fmt.Sprintf("%.1f", r.Composite),
		strconv.Itoa(r.Overall),
		r.Tier,
		strings.Join(r.Badges, "|"),
	}
	for _, p := range pillarOrder {
		if v, ok := r.Pillars[p]; ok {
			rec = append(rec, fmt.Sprintf("%.1f", v))
		} else {
			rec = append(rec, "")
		}
	}
	return rec
}

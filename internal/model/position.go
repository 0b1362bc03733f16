// Package model defines the core value types exchanged between the scoring
// engines, the store, and the presentation layer. All types are plain value
// snapshots: each batch computation builds fresh records from its input rows
// and never mutates a record after the originating request completes.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Position is the fixed position enum. All scoring is cohort-relative within
// a single position.
type Position string

const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
)

// Positions lists every supported position in display order.
var Positions = []Position{PositionQB, PositionRB, PositionWR, PositionTE}

// ParsePosition validates a position string. Unknown positions are rejected
// before any scoring work begins.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE:
		return p, nil
	}
	return "", eris.Errorf("model: unknown position %q", s)
}

// Mode selects the scoring horizon: season-long asset value versus
// current-season production.
type Mode string

const (
	ModeDynasty Mode = "dynasty"
	ModeRedraft Mode = "redraft"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeDynasty, ModeRedraft:
		return m, nil
	}
	return "", eris.Errorf("model: unknown mode %q", s)
}

// PillarName identifies one named sub-score contributing to a composite.
type PillarName string

const (
	PillarVolume     PillarName = "volume"
	PillarEfficiency PillarName = "efficiency"
	PillarRole       PillarName = "role"
	PillarStability  PillarName = "stability"
	PillarContext    PillarName = "context"
)

// PillarNames lists every pillar in fusion order.
var PillarNames = []PillarName{
	PillarVolume, PillarEfficiency, PillarRole, PillarStability, PillarContext,
}

// PillarScores maps pillar name to its 0-100 score. A pillar absent from the
// map had no contributing data for the cohort and is excluded from both the
// numerator and the denominator of the composite blend.
type PillarScores map[PillarName]float64

// Clone returns an independent copy. Transformations on pillar scores always
// operate on a copy so callers keep both the original and the adjusted set.
func (p PillarScores) Clone() PillarScores {
	cp := make(PillarScores, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}

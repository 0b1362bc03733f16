package model

// Breakdown carries the intermediate components behind a composite score.
// It is part of the output contract, not optional instrumentation: consumers
// must be able to reconstruct why a guardrail or floor fired.
type Breakdown struct {
	RawPillars       PillarScores           `json:"raw_pillars"`
	AdjustedPillars  PillarScores           `json:"adjusted_pillars"`
	WeightsUsed      map[PillarName]float64 `json:"weights_used"`
	RookieCapApplied bool                   `json:"rookie_cap_applied"`
	MarketCapApplied bool                   `json:"market_cap_applied"`
	FloorApplied     string                 `json:"floor_applied,omitempty"` // elite, top_tier, veteran
	FloorValue       float64                `json:"floor_value,omitempty"`
	PreFloorScore    float64                `json:"pre_floor_score,omitempty"`
	CoeffSource      CoeffSource            `json:"coeff_source,omitempty"`
	Issues           []LensIssue            `json:"issues,omitempty"`
}

// LensIssue is one rule firing from the football-sense lens.
type LensIssue struct {
	Rule       string     `json:"rule"`
	Detail     string     `json:"detail"`
	Corrective bool       `json:"corrective"`
	Pillar     PillarName `json:"pillar,omitempty"`     // pillar adjusted, corrective rules only
	Multiplier float64    `json:"multiplier,omitempty"` // applied scale, corrective rules only
}

// CompositeResult is one player's final scored output within a cohort.
// Invariants: 0 <= Composite <= 100; Rank is a dense 1-based ordering by
// composite descending, ties broken by raw volume then player ID.
type CompositeResult struct {
	PlayerID  string       `json:"player_id"`
	Name      string       `json:"name"`
	Team      string       `json:"team"`
	Position  Position     `json:"position"`
	Age       int          `json:"age"`
	Mode      Mode         `json:"mode"`
	Pillars   PillarScores `json:"pillars"`
	Composite float64      `json:"composite"`
	Overall   int          `json:"overall"` // calibrated 1-99 display rating
	Tier      string       `json:"tier"`
	Rank      int          `json:"rank"`
	Badges    []string     `json:"badges,omitempty"`
	Breakdown *Breakdown   `json:"breakdown,omitempty"` // populated on debug requests
}

package model

// Direction is the bounded divergence signal from reconciling a season-long
// composite against a recent-workload score.
type Direction string

const (
	DirectionBuyLow   Direction = "BUY_LOW"
	DirectionSellHigh Direction = "SELL_HIGH"
	DirectionNeutral  Direction = "NEUTRAL"
)

// DeltaRecord joins one player's calibrated fusion score with their workload
// score. Percentiles and z-scores are each computed within that side's own
// cohort; DisplayDelta drives presentation while ZDelta drives ranking.
type DeltaRecord struct {
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Team     string   `json:"team"`
	Position Position `json:"position"`

	FusionScore    float64 `json:"fusion_score"`
	WorkloadScore  float64 `json:"workload_score"`
	FusionPctile   float64 `json:"fusion_pctile"`
	WorkloadPctile float64 `json:"workload_pctile"`
	FusionZ        float64 `json:"fusion_z"`
	WorkloadZ      float64 `json:"workload_z"`

	DisplayDelta float64 `json:"display_delta"` // fusion pctile - workload pctile
	ZDelta       float64 `json:"z_delta"`       // fusion z - workload z
	Strength     float64 `json:"strength"`

	Direction  Direction  `json:"direction"`
	Confidence Confidence `json:"confidence"` // carried from the workload side
	Rationale  string     `json:"rationale"`
}

// WeekDelta is one anchor week's reconciliation inside a trend fold.
type WeekDelta struct {
	Week    int           `json:"week"`
	Records []DeltaRecord `json:"records"`
}

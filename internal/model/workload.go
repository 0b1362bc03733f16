package model

// Confidence tiers a workload snapshot by how much signal backs it.
type Confidence string

const (
	ConfidenceHigh Confidence = "HIGH"
	ConfidenceMed  Confidence = "MED"
	ConfidenceLow  Confidence = "LOW"
)

// WorkloadSnapshot is one player's rolling-window recent-form record,
// independent of the season-long composite.
type WorkloadSnapshot struct {
	PlayerID    string             `json:"player_id"`
	Name        string             `json:"name"`
	Team        string             `json:"team"`
	Position    Position           `json:"position"`
	AnchorWeek  int                `json:"anchor_week"`
	WindowWeeks int                `json:"window_weeks"`
	WeeksUsed   []int              `json:"weeks_used"`
	Games       int                `json:"games"`
	Totals      map[string]float64 `json:"totals"`
	Averages    map[string]float64 `json:"averages"`

	// Workload is the position-scaled volume measure checked against the
	// eligibility threshold.
	Workload  float64 `json:"workload"`
	Threshold float64 `json:"threshold"`
	Eligible  bool    `json:"eligible"`

	Opportunity float64    `json:"opportunity"`
	Role        float64    `json:"role"`
	Conversion  float64    `json:"conversion"` // zero for QB until a conversion pillar exists
	Score       float64    `json:"score"`
	Confidence  Confidence `json:"confidence"`
}

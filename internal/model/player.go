package model

import "math"

// PlayerWeek is one athlete's statistical line for a single week, as produced
// by the external ETL/import layer. Metrics is keyed by canonical metric name
// (targets, routes, yprr, epa_per_play, ...); a missing key means the metric
// was not observed that week.
type PlayerWeek struct {
	PlayerID string             `json:"player_id"`
	Name     string             `json:"name"`
	Team     string             `json:"team"`
	Position Position           `json:"position"`
	Season   int                `json:"season"`
	Week     int                `json:"week"`
	Age      int                `json:"age"`
	Metrics  map[string]float64 `json:"metrics"`
}

// PlayerRow is one athlete's aggregated statistics for a period: either
// season-to-date or a rolling window. It is an immutable snapshot consumed
// read-only by the scoring engines.
type PlayerRow struct {
	PlayerID string             `json:"player_id"`
	Name     string             `json:"name"`
	Team     string             `json:"team"`
	Position Position           `json:"position"`
	Age      int                `json:"age"`
	Games    int                `json:"games"`
	Weeks    []int              `json:"weeks,omitempty"` // weeks present in the aggregate
	Samples  int                `json:"samples"`         // historical weekly samples backing the row
	Metrics  map[string]float64 `json:"metrics"`
}

// Metric returns the named metric and whether it is present and finite.
// Non-finite values are treated as missing so that NaN inputs fall through
// to baseline substitution rather than poisoning a cohort.
func (r PlayerRow) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// TrainingRow pairs an aggregated row with its regression target (typically
// next-period fantasy points per game). A nil target disqualifies the row
// from fitting.
type TrainingRow struct {
	PlayerRow
	Target *float64 `json:"target,omitempty"`
}

package params

import "github.com/rosterlab/scout-cli/internal/model"

// Default returns the built-in analytical configuration. It is the reference
// document overridden by a params YAML file when one is supplied.
func Default() *Params {
	return &Params{
		Version:    "2026.1",
		MinFitRows: 150,

		Positions: map[model.Position]PositionParams{
			model.PositionWR: {
				Pillars: map[model.PillarName][]FeatureWeight{
					model.PillarVolume: {
						{Metric: "targets", Weight: 0.40},
						{Metric: "routes", Weight: 0.20},
						{Metric: "target_share", Weight: 0.25},
						{Metric: "red_zone_targets", Weight: 0.15},
					},
					model.PillarEfficiency: {
						{Metric: "yprr", Weight: 0.35},
						{Metric: "tprr", Weight: 0.20},
						{Metric: "epa_per_target", Weight: 0.20},
						{Metric: "catch_rate", Weight: 0.10},
						{Metric: "projected_ppg", Weight: 0.15},
					},
					model.PillarRole: {
						{Metric: "air_yards_share", Weight: 0.40},
						{Metric: "snap_share", Weight: 0.35},
						{Metric: "adot", Weight: 0.25},
					},
					model.PillarStability: {
						{Metric: "consistency", Weight: 0.50},
						{Metric: "snap_share", Weight: 0.30},
						{Metric: "games", Weight: 0.20},
					},
					model.PillarContext: {
						{Metric: "market_value", Weight: 0.60},
						{Metric: "team_pass_rate", Weight: 0.25},
						{Metric: "offense_pace", Weight: 0.15},
					},
				},
				Baselines: map[string]float64{
					"targets": 52, "routes": 310, "target_share": 0.17,
					"red_zone_targets": 7, "yprr": 1.55, "tprr": 0.185,
					"epa_per_target": 0.22, "catch_rate": 0.64,
					"projected_ppg": 10.5, "air_yards_share": 0.24,
					"snap_share": 0.72, "adot": 10.8, "consistency": 0.45,
					"games": 13, "market_value": 42, "team_pass_rate": 0.58,
					"offense_pace": 27.5,
				},
				Regression: RegressionParams{
					Target: "fpts_pg_next",
					Features: []string{
						"targets", "target_share", "yprr", "air_yards_share",
						"red_zone_targets", "snap_share",
					},
					Fallback: FallbackCoeffs{
						Intercept: 1.8,
						Weights: map[string]float64{
							"targets": 0.055, "target_share": 21.0, "yprr": 2.4,
							"air_yards_share": 6.5, "red_zone_targets": 0.24,
							"snap_share": 3.1,
						},
					},
				},
				Workload: WorkloadParams{
					BaseThreshold: 20, MinThreshold: 6,
					WorkloadMetrics: []FeatureWeight{
						{Metric: "targets", Weight: 1.0},
						{Metric: "carries", Weight: 1.0},
					},
					OpportunityMetrics: []FeatureWeight{
						{Metric: "targets", Weight: 1.0},
						{Metric: "air_yards", Weight: 0.06},
						{Metric: "red_zone_targets", Weight: 1.5},
					},
					ConversionMetrics: []FeatureWeight{
						{Metric: "fpts_per_touch", Weight: 1.0},
					},
					RoleWeights: []FeatureWeight{
						{Metric: "target_share", Weight: 0.35},
						{Metric: "snap_share", Weight: 0.25},
						{Metric: "routes", Weight: 0.20},
						{Metric: "red_zone_targets", Weight: 0.10},
						{Metric: "carries", Weight: 0.10},
					},
					RouteMetric:      "routes",
					OpportunityShare: 0.60, RoleShare: 0.25, ConversionShare: 0.15,
				},
			},

			model.PositionRB: {
				Pillars: map[model.PillarName][]FeatureWeight{
					model.PillarVolume: {
						{Metric: "carries", Weight: 0.35},
						{Metric: "targets", Weight: 0.25},
						{Metric: "carry_share", Weight: 0.25},
						{Metric: "red_zone_carries", Weight: 0.15},
					},
					model.PillarEfficiency: {
						{Metric: "yards_per_carry", Weight: 0.25},
						{Metric: "yac_per_attempt", Weight: 0.25},
						{Metric: "epa_per_rush", Weight: 0.20},
						{Metric: "yprr", Weight: 0.15},
						{Metric: "projected_ppg", Weight: 0.15},
					},
					model.PillarRole: {
						{Metric: "snap_share", Weight: 0.40},
						{Metric: "route_share", Weight: 0.30},
						{Metric: "red_zone_carries", Weight: 0.30},
					},
					model.PillarStability: {
						{Metric: "consistency", Weight: 0.50},
						{Metric: "carry_share", Weight: 0.30},
						{Metric: "games", Weight: 0.20},
					},
					model.PillarContext: {
						{Metric: "market_value", Weight: 0.60},
						{Metric: "team_run_rate", Weight: 0.25},
						{Metric: "offense_pace", Weight: 0.15},
					},
				},
				Baselines: map[string]float64{
					"carries": 120, "targets": 32, "carry_share": 0.38,
					"red_zone_carries": 18, "yards_per_carry": 4.2,
					"yac_per_attempt": 2.9, "epa_per_rush": -0.03,
					"yprr": 1.05, "projected_ppg": 9.8, "snap_share": 0.52,
					"route_share": 0.42, "consistency": 0.42, "games": 13,
					"market_value": 35, "team_run_rate": 0.42,
					"offense_pace": 27.5,
				},
				Regression: RegressionParams{
					Target: "fpts_pg_next",
					Features: []string{
						"carries", "carry_share", "targets", "red_zone_carries",
						"snap_share", "yards_per_carry",
					},
					Fallback: FallbackCoeffs{
						Intercept: 2.2,
						Weights: map[string]float64{
							"carries": 0.030, "carry_share": 9.5, "targets": 0.085,
							"red_zone_carries": 0.18, "snap_share": 4.2,
							"yards_per_carry": 0.6,
						},
					},
				},
				Workload: WorkloadParams{
					BaseThreshold: 48, MinThreshold: 12,
					WorkloadMetrics: []FeatureWeight{
						{Metric: "carries", Weight: 1.0},
						{Metric: "targets", Weight: 1.0},
					},
					OpportunityMetrics: []FeatureWeight{
						{Metric: "carries", Weight: 1.0},
						{Metric: "targets", Weight: 1.6},
						{Metric: "red_zone_carries", Weight: 1.4},
					},
					ConversionMetrics: []FeatureWeight{
						{Metric: "fpts_per_touch", Weight: 1.0},
					},
					RoleWeights: []FeatureWeight{
						{Metric: "carry_share", Weight: 0.35},
						{Metric: "snap_share", Weight: 0.25},
						{Metric: "routes", Weight: 0.15},
						{Metric: "red_zone_carries", Weight: 0.15},
						{Metric: "targets", Weight: 0.10},
					},
					RouteMetric:      "routes",
					OpportunityShare: 0.60, RoleShare: 0.25, ConversionShare: 0.15,
				},
			},

			model.PositionTE: {
				Pillars: map[model.PillarName][]FeatureWeight{
					model.PillarVolume: {
						{Metric: "targets", Weight: 0.40},
						{Metric: "routes", Weight: 0.20},
						{Metric: "target_share", Weight: 0.25},
						{Metric: "red_zone_targets", Weight: 0.15},
					},
					model.PillarEfficiency: {
						{Metric: "yprr", Weight: 0.35},
						{Metric: "tprr", Weight: 0.25},
						{Metric: "epa_per_target", Weight: 0.25},
						{Metric: "projected_ppg", Weight: 0.15},
					},
					model.PillarRole: {
						{Metric: "route_share", Weight: 0.45},
						{Metric: "snap_share", Weight: 0.30},
						{Metric: "air_yards_share", Weight: 0.25},
					},
					model.PillarStability: {
						{Metric: "consistency", Weight: 0.50},
						{Metric: "snap_share", Weight: 0.30},
						{Metric: "games", Weight: 0.20},
					},
					model.PillarContext: {
						{Metric: "market_value", Weight: 0.60},
						{Metric: "team_pass_rate", Weight: 0.25},
						{Metric: "offense_pace", Weight: 0.15},
					},
				},
				Baselines: map[string]float64{
					"targets": 38, "routes": 250, "target_share": 0.13,
					"red_zone_targets": 5, "yprr": 1.15, "tprr": 0.155,
					"epa_per_target": 0.15, "projected_ppg": 7.2,
					"route_share": 0.62, "snap_share": 0.74,
					"air_yards_share": 0.14, "consistency": 0.35, "games": 13,
					"market_value": 22, "team_pass_rate": 0.58,
					"offense_pace": 27.5,
				},
				Regression: RegressionParams{
					Target: "fpts_pg_next",
					Features: []string{
						"targets", "target_share", "yprr", "route_share",
						"red_zone_targets",
					},
					Fallback: FallbackCoeffs{
						Intercept: 1.4,
						Weights: map[string]float64{
							"targets": 0.065, "target_share": 18.0, "yprr": 2.1,
							"route_share": 2.8, "red_zone_targets": 0.28,
						},
					},
				},
				Workload: WorkloadParams{
					BaseThreshold: 14, MinThreshold: 5,
					WorkloadMetrics: []FeatureWeight{
						{Metric: "targets", Weight: 1.0},
					},
					OpportunityMetrics: []FeatureWeight{
						{Metric: "targets", Weight: 1.0},
						{Metric: "red_zone_targets", Weight: 1.6},
					},
					ConversionMetrics: []FeatureWeight{
						{Metric: "fpts_per_touch", Weight: 1.0},
					},
					RoleWeights: []FeatureWeight{
						{Metric: "target_share", Weight: 0.30},
						{Metric: "route_share", Weight: 0.30},
						{Metric: "snap_share", Weight: 0.25},
						{Metric: "red_zone_targets", Weight: 0.15},
					},
					RouteMetric:      "route_share",
					OpportunityShare: 0.60, RoleShare: 0.25, ConversionShare: 0.15,
				},
			},

			model.PositionQB: {
				Pillars: map[model.PillarName][]FeatureWeight{
					model.PillarVolume: {
						{Metric: "dropbacks", Weight: 0.40},
						{Metric: "attempts", Weight: 0.30},
						{Metric: "rush_att", Weight: 0.30},
					},
					model.PillarEfficiency: {
						{Metric: "epa_per_dropback", Weight: 0.35},
						{Metric: "cpoe", Weight: 0.25},
						{Metric: "adot", Weight: 0.10},
						{Metric: "sack_rate", Weight: -0.15},
						{Metric: "projected_ppg", Weight: 0.15},
					},
					model.PillarRole: {
						{Metric: "rush_att", Weight: 0.45},
						{Metric: "red_zone_rushes", Weight: 0.30},
						{Metric: "scramble_rate", Weight: 0.25},
					},
					model.PillarStability: {
						{Metric: "consistency", Weight: 0.55},
						{Metric: "games", Weight: 0.25},
						{Metric: "sack_rate", Weight: -0.20},
					},
					model.PillarContext: {
						{Metric: "market_value", Weight: 0.60},
						{Metric: "team_pass_rate", Weight: 0.25},
						{Metric: "offense_pace", Weight: 0.15},
					},
				},
				Baselines: map[string]float64{
					"dropbacks": 420, "attempts": 380, "rush_att": 45,
					"epa_per_dropback": 0.04, "cpoe": 0.0, "adot": 7.8,
					"sack_rate": 0.065, "projected_ppg": 16.0,
					"red_zone_rushes": 8, "scramble_rate": 0.05,
					"consistency": 0.55, "games": 14, "market_value": 30,
					"team_pass_rate": 0.58, "offense_pace": 27.5,
				},
				Regression: RegressionParams{
					Target: "fpts_pg_next",
					Features: []string{
						"dropbacks", "epa_per_dropback", "cpoe", "rush_att",
						"red_zone_rushes",
					},
					Fallback: FallbackCoeffs{
						Intercept: 6.5,
						Weights: map[string]float64{
							"dropbacks": 0.012, "epa_per_dropback": 28.0,
							"cpoe": 0.45, "rush_att": 0.075,
							"red_zone_rushes": 0.22,
						},
					},
				},
				Workload: WorkloadParams{
					BaseThreshold: 120, MinThreshold: 30,
					WorkloadMetrics: []FeatureWeight{
						{Metric: "dropbacks", Weight: 1.0},
					},
					OpportunityMetrics: []FeatureWeight{
						{Metric: "dropbacks", Weight: 1.0},
						{Metric: "rush_att", Weight: 1.8},
					},
					// QB conversion is deliberately deferred until a pass
					// conversion pillar exists.
					ConversionMetrics: nil,
					RoleWeights: []FeatureWeight{
						{Metric: "snap_share", Weight: 0.40},
						{Metric: "dropbacks", Weight: 0.35},
						{Metric: "rush_att", Weight: 0.25},
					},
					RouteMetric:      "",
					OpportunityShare: 0.75, RoleShare: 0.25, ConversionShare: 0,
				},
			},
		},

		ModeWeights: map[model.Mode]map[model.PillarName]float64{
			model.ModeDynasty: {
				model.PillarVolume:     0.28,
				model.PillarEfficiency: 0.20,
				model.PillarRole:       0.15,
				model.PillarStability:  0.22,
				model.PillarContext:    0.15,
			},
			model.ModeRedraft: {
				model.PillarVolume:     0.35,
				model.PillarEfficiency: 0.25,
				model.PillarRole:       0.20,
				model.PillarStability:  0.08,
				model.PillarContext:    0.12,
			},
		},

		Tiers: []Tier{
			{Label: "elite", Min: 90, Target: 0.02},
			{Label: "stud", Min: 80, Target: 0.08},
			{Label: "starter", Min: 68, Target: 0.20},
			{Label: "flex", Min: 55, Target: 0.30},
			{Label: "depth", Min: 40, Target: 0.25},
			{Label: "replacement", Min: 0, Target: 0.15},
		},

		Guardrails: Guardrails{
			RookieMaxAge:      23,
			RookieMaxSamples:  8,
			RookieVolumeCap:   80,
			MarketCap:         80,
			VeteranMinAge:     25,
			VeteranMinSamples: 40,
		},

		Floors: Floors{
			Elite:   90,
			TopTier: 84,
			Veteran: 70,
			Players: []FloorEntry{
				{PlayerID: "00-0036900", Name: "Ja'Marr Chase", Tier: "elite"},
				{PlayerID: "00-0036322", Name: "Justin Jefferson", Tier: "elite"},
				{PlayerID: "00-0038542", Name: "Bijan Robinson", Tier: "elite"},
				{PlayerID: "00-0036358", Name: "CeeDee Lamb", Tier: "top_tier"},
				{PlayerID: "00-0039165", Name: "Puka Nacua", Tier: "top_tier"},
				// Legacy carry-over row without a stable ID; matched by
				// normalized name with a logged warning.
				{Name: "Travis Kelce", Tier: "top_tier"},
			},
		},

		SumMetrics: []string{
			"targets", "routes", "receptions", "rec_yards", "rec_tds",
			"air_yards", "red_zone_targets", "carries", "rush_yards",
			"rush_tds", "red_zone_carries", "red_zone_rushes", "rush_att",
			"dropbacks", "attempts", "pass_yards", "pass_tds", "ints", "fpts",
		},
	}
}

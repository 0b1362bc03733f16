// Package params holds the versioned analytical configuration documents:
// position-specific pillar weight tables per mode, feature lists and fallback
// regression coefficients, tier cutoffs, guardrail constants, and the curated
// proven-elite floor lists. The scoring engines are fully parameterized by a
// Params value so the documents can change without code changes. A malformed
// or incomplete document is fatal at load time; the rest of the pipeline
// assumes these invariants hold.
package params

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/rosterlab/scout-cli/internal/model"
)

// FeatureWeight is one weighted term in a linear metric blend.
type FeatureWeight struct {
	Metric string  `yaml:"metric"`
	Weight float64 `yaml:"weight"`
}

// RegressionParams configures the per-position coefficient trainer.
type RegressionParams struct {
	Target   string          `yaml:"target"`
	Features []string        `yaml:"features"`
	Fallback FallbackCoeffs  `yaml:"fallback"`
}

// FallbackCoeffs are the hand-authored coefficients substituted when the
// qualifying sample is below the fitting floor.
type FallbackCoeffs struct {
	Intercept float64            `yaml:"intercept"`
	Weights   map[string]float64 `yaml:"weights"`
}

// WorkloadParams configures the rolling-window recent-form scorer for one
// position.
type WorkloadParams struct {
	// BaseThreshold is the full-window (4-week) volume required for
	// eligibility; it scales by min(windowWeeks,4)/4 and never drops below
	// MinThreshold.
	BaseThreshold float64 `yaml:"base_threshold"`
	MinThreshold  float64 `yaml:"min_threshold"`

	// WorkloadMetrics defines the volume measure compared against the
	// threshold (summed window totals).
	WorkloadMetrics []FeatureWeight `yaml:"workload_metrics"`

	// OpportunityMetrics and ConversionMetrics build the independently
	// percentile-ranked components. ConversionMetrics is empty for QB: the
	// conversion pillar for that position is deliberately deferred.
	OpportunityMetrics []FeatureWeight `yaml:"opportunity_metrics"`
	ConversionMetrics  []FeatureWeight `yaml:"conversion_metrics"`

	// RoleWeights blends route/target/snap/red-zone/carry shares into the
	// role component. When RouteMetric is absent for the entire cohort, its
	// weight redistributes across the remaining terms.
	RoleWeights []FeatureWeight `yaml:"role_weights"`
	RouteMetric string          `yaml:"route_metric"`

	// Blend of the three components into the final workload score.
	OpportunityShare float64 `yaml:"opportunity_share"`
	RoleShare        float64 `yaml:"role_share"`
	ConversionShare  float64 `yaml:"conversion_share"`
}

// PositionParams bundles everything position-specific.
type PositionParams struct {
	Pillars    map[model.PillarName][]FeatureWeight `yaml:"pillars"`
	Baselines  map[string]float64                   `yaml:"baselines"`
	Regression RegressionParams                     `yaml:"regression"`
	Workload   WorkloadParams                       `yaml:"workload"`
}

// Tier is one cutoff in the composite tier ladder.
type Tier struct {
	Label string  `yaml:"label"`
	Min   float64 `yaml:"min"`
	// Target is the descriptive share of a cohort expected in this tier.
	// The calibration curve is deterministic and does not enforce it.
	Target float64 `yaml:"target,omitempty"`
}

// Guardrails holds the cap/floor constants applied outside the weighted
// formula.
type Guardrails struct {
	RookieMaxAge      int     `yaml:"rookie_max_age"`
	RookieMaxSamples  int     `yaml:"rookie_max_samples"`
	RookieVolumeCap   float64 `yaml:"rookie_volume_cap"`
	MarketCap         float64 `yaml:"market_cap"`
	VeteranMinAge     int     `yaml:"veteran_min_age"`
	VeteranMinSamples int     `yaml:"veteran_min_samples"`
}

// FloorEntry is one curated proven-elite player. Entries are keyed by stable
// player ID; Name is a normalized-name fallback for list rows that predate
// stable IDs and is matched with a logged warning.
type FloorEntry struct {
	PlayerID string `yaml:"player_id,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Tier     string `yaml:"tier"` // elite or top_tier
}

// Floors configures the proven-elite composite floors.
type Floors struct {
	Elite   float64      `yaml:"elite"`
	TopTier float64      `yaml:"top_tier"`
	Veteran float64      `yaml:"veteran"`
	Players []FloorEntry `yaml:"players"`
}

// Params is the complete analytical configuration document.
type Params struct {
	Version     string                                       `yaml:"version"`
	MinFitRows  int                                          `yaml:"min_fit_rows"`
	Positions   map[model.Position]PositionParams            `yaml:"positions"`
	ModeWeights map[model.Mode]map[model.PillarName]float64  `yaml:"mode_weights"`
	Tiers       []Tier                                       `yaml:"tiers"`
	Guardrails  Guardrails                                   `yaml:"guardrails"`
	Floors      Floors                                       `yaml:"floors"`
	SumMetrics  []string                                     `yaml:"sum_metrics"`
}

// SumMetricSet returns SumMetrics as a lookup set for aggregation.
func (p *Params) SumMetricSet() map[string]bool {
	set := make(map[string]bool, len(p.SumMetrics))
	for _, m := range p.SumMetrics {
		set[m] = true
	}
	return set
}

// Load reads a params document from path, layered over the built-in defaults,
// and validates it. An empty path returns validated defaults.
func Load(path string) (*Params, error) {
	p := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "params: read %s", path)
		}
		if err := yaml.Unmarshal(raw, p); err != nil {
			return nil, eris.Wrapf(err, "params: parse %s", path)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the load-bearing invariants the pipeline assumes hold.
func (p *Params) Validate() error {
	var errs []string

	if p.MinFitRows <= 0 {
		errs = append(errs, "min_fit_rows must be > 0")
	}

	for _, pos := range model.Positions {
		pp, ok := p.Positions[pos]
		if !ok {
			errs = append(errs, fmt.Sprintf("missing position block for %s", pos))
			continue
		}
		if len(pp.Pillars) == 0 {
			errs = append(errs, fmt.Sprintf("%s: no pillar weight tables", pos))
		}
		for pillar, fws := range pp.Pillars {
			if len(fws) == 0 {
				errs = append(errs, fmt.Sprintf("%s: pillar %s has no features", pos, pillar))
			}
			for _, fw := range fws {
				if fw.Metric == "" {
					errs = append(errs, fmt.Sprintf("%s: pillar %s has an unnamed metric", pos, pillar))
				}
			}
		}
		if len(pp.Regression.Features) == 0 {
			errs = append(errs, fmt.Sprintf("%s: regression has no feature list", pos))
		}
		if pp.Regression.Target == "" {
			errs = append(errs, fmt.Sprintf("%s: regression has no target", pos))
		}
		if len(pp.Regression.Fallback.Weights) == 0 {
			errs = append(errs, fmt.Sprintf("%s: missing fallback coefficients", pos))
		}
		wl := pp.Workload
		if wl.BaseThreshold <= 0 || wl.MinThreshold <= 0 {
			errs = append(errs, fmt.Sprintf("%s: workload thresholds must be > 0", pos))
		}
		if wl.MinThreshold > wl.BaseThreshold {
			errs = append(errs, fmt.Sprintf("%s: workload min_threshold exceeds base_threshold", pos))
		}
		if len(wl.WorkloadMetrics) == 0 || len(wl.OpportunityMetrics) == 0 || len(wl.RoleWeights) == 0 {
			errs = append(errs, fmt.Sprintf("%s: workload metric blends incomplete", pos))
		}
		shareSum := wl.OpportunityShare + wl.RoleShare + wl.ConversionShare
		if shareSum < 0.99 || shareSum > 1.01 {
			errs = append(errs, fmt.Sprintf("%s: workload shares sum to %.2f, want 1", pos, shareSum))
		}
		if pos != model.PositionQB && len(wl.ConversionMetrics) == 0 {
			errs = append(errs, fmt.Sprintf("%s: missing conversion metrics", pos))
		}
	}

	for _, mode := range []model.Mode{model.ModeDynasty, model.ModeRedraft} {
		weights, ok := p.ModeWeights[mode]
		if !ok {
			errs = append(errs, fmt.Sprintf("missing mode weights for %s", mode))
			continue
		}
		var sum float64
		for pillar, w := range weights {
			if w < 0 {
				errs = append(errs, fmt.Sprintf("%s: negative weight for pillar %s", mode, pillar))
			}
			sum += w
		}
		if sum <= 0 {
			errs = append(errs, fmt.Sprintf("%s: pillar weight sum must be > 0", mode))
		}
	}

	if len(p.Tiers) == 0 {
		errs = append(errs, "no tier cutoffs")
	}
	for i := 1; i < len(p.Tiers); i++ {
		if p.Tiers[i].Min >= p.Tiers[i-1].Min {
			errs = append(errs, "tier cutoffs must be strictly descending")
			break
		}
	}

	if p.Floors.Elite <= 0 || p.Floors.TopTier <= 0 || p.Floors.Veteran <= 0 {
		errs = append(errs, "floor values must be > 0")
	}
	for i, fe := range p.Floors.Players {
		if fe.PlayerID == "" && fe.Name == "" {
			errs = append(errs, fmt.Sprintf("floor entry %d has neither player_id nor name", i))
		}
		if fe.Tier != "elite" && fe.Tier != "top_tier" {
			errs = append(errs, fmt.Sprintf("floor entry %d has unknown tier %q", i, fe.Tier))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("params: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

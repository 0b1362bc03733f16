// Package fusion blends position-specific pillar scores into one calibrated
// 0-100 composite per player. It consumes aggregated rows plus regression
// coefficients and degrades through baseline substitution and guardrails
// rather than erroring: player data is inherently sparse and a batch must
// still return a usable, clearly flagged result.
package fusion

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/rosterlab/scout-cli/internal/model"
	"github.com/rosterlab/scout-cli/internal/resolve"
	"github.com/rosterlab/scout-cli/internal/scoring/calibrate"
	"github.com/rosterlab/scout-cli/internal/scoring/lens"
	"github.com/rosterlab/scout-cli/internal/scoring/params"
	"github.com/rosterlab/scout-cli/internal/scoring/rank"
	"github.com/rosterlab/scout-cli/internal/scoring/regression"
)

// projectedMetric is the synthetic metric injected from the regression
// prediction before pillar blending.
const projectedMetric = "projected_ppg"

// Options tunes one compose request.
type Options struct {
	// Debug attaches the full Breakdown to every result. The breakdown is
	// part of the auditability contract; Debug only controls whether it is
	// carried on the wire.
	Debug bool
}

// Composer computes composite scores for one cohort at a time.
type Composer struct {
	params *params.Params
	coeffs *regression.Cache
}

// New returns a Composer bound to a parameter document and coefficient cache.
func New(p *params.Params, coeffs *regression.Cache) *Composer {
	return &Composer{params: p, coeffs: coeffs}
}

// Compose scores a cohort of players for one position and mode. The returned
// slice is ordered by rank. An empty cohort short-circuits to an empty
// result; missing data never raises.
func (c *Composer) Compose(players []model.PlayerRow, position model.Position, mode model.Mode, opts Options) []model.CompositeResult {
	if len(players) == 0 {
		return []model.CompositeResult{}
	}

	pp := c.params.Positions[position]
	coeffs := c.coeffs.For(position)
	modeWeights := c.params.ModeWeights[mode]

	// Pillar combos per player, then percentile-rank each combo against the
	// cohort's own distribution of that combo.
	type playerState struct {
		row      model.PlayerRow
		raw      model.PillarScores
		adjusted model.PillarScores
		issues   []model.LensIssue
		result   model.CompositeResult
	}
	states := make([]*playerState, len(players))
	for i, row := range players {
		states[i] = &playerState{row: row, raw: model.PillarScores{}}
	}

	for _, pillar := range model.PillarNames {
		fws, configured := pp.Pillars[pillar]
		if !configured {
			continue
		}
		combos := make([]float64, len(players))
		anyObserved := false
		for i, row := range players {
			combo, observed := pillarCombo(row, fws, pp.Baselines, coeffs)
			combos[i] = combo
			anyObserved = anyObserved || observed
		}
		// A pillar with no contributing data anywhere in the cohort is
		// excluded from the composite entirely, not treated as zero.
		if !anyObserved {
			continue
		}
		cohort := rank.NewCohort(combos)
		for i := range states {
			states[i].raw[pillar] = cohort.Percentile(combos[i])
		}
	}

	for _, st := range states {
		c.applyGuardrails(st.row, st.raw, &st.result)
		lensed := lens.Apply(st.raw, position, st.row.Games)
		st.adjusted = lensed.Pillars
		st.issues = lensed.Issues

		composite, weightsUsed := fuse(st.adjusted, modeWeights)
		preFloor := composite
		floorTier, floorValue := c.floorFor(st.row)
		if floorValue > composite {
			composite = floorValue
		}
		composite = math.Round(composite*10) / 10

		st.result.PlayerID = st.row.PlayerID
		st.result.Name = st.row.Name
		st.result.Team = st.row.Team
		st.result.Position = position
		st.result.Age = st.row.Age
		st.result.Mode = mode
		st.result.Pillars = st.adjusted
		st.result.Composite = composite
		st.result.Tier = calibrate.TierFor(composite, c.params.Tiers)
		st.result.Badges = badges(st.adjusted, floorTier, st.row.Games)

		if opts.Debug {
			b := model.Breakdown{
				RawPillars:      st.raw.Clone(),
				AdjustedPillars: st.adjusted.Clone(),
				WeightsUsed:     weightsUsed,
				CoeffSource:     coeffs.Source,
				Issues:          st.issues,
			}
			if br := st.result.Breakdown; br != nil {
				b.RookieCapApplied = br.RookieCapApplied
				b.MarketCapApplied = br.MarketCapApplied
			}
			if floorValue > preFloor {
				b.FloorApplied = floorTier
				b.FloorValue = floorValue
				b.PreFloorScore = math.Round(preFloor*10) / 10
			}
			st.result.Breakdown = &b
		} else {
			st.result.Breakdown = nil
		}
	}

	// Dense 1-based rank by composite descending; ties break by raw volume
	// pillar descending, then player ID ascending.
	sort.SliceStable(states, func(i, j int) bool {
		a, b := states[i], states[j]
		if a.result.Composite != b.result.Composite {
			return a.result.Composite > b.result.Composite
		}
		if a.raw[model.PillarVolume] != b.raw[model.PillarVolume] {
			return a.raw[model.PillarVolume] > b.raw[model.PillarVolume]
		}
		return a.result.PlayerID < b.result.PlayerID
	})

	composites := make([]float64, len(states))
	for i, st := range states {
		composites[i] = st.result.Composite
	}
	compositeCohort := rank.NewCohort(composites)

	results := make([]model.CompositeResult, len(states))
	for i, st := range states {
		st.result.Rank = i + 1
		st.result.Overall = calibrate.DisplayScale(compositeCohort.Percentile(st.result.Composite))
		results[i] = st.result
	}
	return results
}

// pillarCombo computes one player's weighted metric blend for a pillar.
// Missing metrics substitute the position baseline so absent data pulls the
// player toward the position average, not the bottom of the distribution.
// observed reports whether any real (non-baseline) value contributed.
func pillarCombo(row model.PlayerRow, fws []params.FeatureWeight, baselines map[string]float64, coeffs model.Coeffs) (combo float64, observed bool) {
	for _, fw := range fws {
		v, present := row.Metric(fw.Metric)
		if !present && fw.Metric == projectedMetric {
			if pred := regression.Predict(row, coeffs); pred != nil {
				v, present = *pred, true
			}
		}
		if !present {
			v = baselines[fw.Metric]
		} else {
			observed = true
		}
		combo += fw.Weight * v
	}
	return combo, observed
}

// applyGuardrails caps pillars ahead of fusion: the rookie cap bounds the
// volume pillar for thin-sample young players, and the market pillar is
// always capped to keep valuation feedback loops out of the composite.
func (c *Composer) applyGuardrails(row model.PlayerRow, pillars model.PillarScores, result *model.CompositeResult) {
	g := c.params.Guardrails
	var b model.Breakdown

	if v, ok := pillars[model.PillarVolume]; ok {
		if row.Age > 0 && row.Age <= g.RookieMaxAge && row.Samples < g.RookieMaxSamples && v > g.RookieVolumeCap {
			pillars[model.PillarVolume] = g.RookieVolumeCap
			b.RookieCapApplied = true
		}
	}
	if v, ok := pillars[model.PillarContext]; ok && v > g.MarketCap {
		pillars[model.PillarContext] = g.MarketCap
		b.MarketCapApplied = true
	}

	if b.RookieCapApplied || b.MarketCapApplied {
		result.Breakdown = &b
	}
}

// fuse blends pillars with mode weights, normalizing by the weights of the
// pillars actually present so missing pillars drop out of numerator and
// denominator alike.
func fuse(pillars model.PillarScores, modeWeights map[model.PillarName]float64) (float64, map[model.PillarName]float64) {
	var num, den float64
	used := make(map[model.PillarName]float64, len(pillars))
	for _, pillar := range model.PillarNames {
		score, ok := pillars[pillar]
		if !ok {
			continue
		}
		w := modeWeights[pillar]
		if w <= 0 {
			continue
		}
		num += w * score
		den += w
		used[pillar] = w
	}
	if den == 0 {
		return 0, used
	}
	// Report effective (renormalized) weights.
	for pillar, w := range used {
		used[pillar] = w / den
	}
	return num / den, used
}

// floorFor returns the strongest floor the player qualifies for: the curated
// elite/top-tier lists by stable ID (normalized-name fallback for legacy
// entries), then the moderate veteran floor.
func (c *Composer) floorFor(row model.PlayerRow) (tier string, value float64) {
	f := c.params.Floors
	for _, entry := range f.Players {
		matched := false
		if entry.PlayerID != "" {
			matched = entry.PlayerID == row.PlayerID
		} else if entry.Name != "" && resolve.NormalizeName(entry.Name) == resolve.NormalizeName(row.Name) {
			matched = true
			zap.L().Warn("fusion: floor matched by normalized name, list entry has no stable id",
				zap.String("player", row.Name),
				zap.String("player_id", row.PlayerID),
			)
		}
		if !matched {
			continue
		}
		switch entry.Tier {
		case "elite":
			return "elite", f.Elite
		case "top_tier":
			return "top_tier", f.TopTier
		}
	}

	g := c.params.Guardrails
	if row.Age >= g.VeteranMinAge && row.Samples >= g.VeteranMinSamples {
		return "veteran", f.Veteran
	}
	return "", 0
}

func badges(pillars model.PillarScores, floorTier string, games int) []string {
	var out []string
	if pillars[model.PillarVolume] >= 90 {
		out = append(out, "alpha_usage")
	}
	if pillars[model.PillarEfficiency] >= 90 {
		out = append(out, "per_play_elite")
	}
	if pillars[model.PillarStability] >= 85 {
		out = append(out, "bankable")
	}
	switch floorTier {
	case "elite", "top_tier":
		out = append(out, "proven_elite")
	case "veteran":
		out = append(out, "established_vet")
	}
	if games > 0 && games < 3 {
		out = append(out, "small_sample")
	}
	return out
}

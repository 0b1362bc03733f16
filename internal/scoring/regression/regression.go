// Package regression fits per-position coefficients with a single
// closed-form ordinary-least-squares solve. It is not an iterative
// optimizer: features are standardized, the normal equations are solved via
// a ridge-stabilized Gauss-Jordan inversion, and the coefficients are mapped
// back to the original feature scale. Below the qualifying-sample floor the
// trainer substitutes the hand-authored fallback coefficients wholesale; it
// never partially fits.
package regression

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rosterlab/scout-cli/internal/model"
	"github.com/rosterlab/scout-cli/internal/scoring/params"
)

const (
	ridge      = 1e-6
	stdevFloor = 1e-9
)

// Trainer fits and serves Coeffs for the configured positions.
type Trainer struct {
	params *params.Params
}

// NewTrainer returns a Trainer bound to a parameter document.
func NewTrainer(p *params.Params) *Trainer {
	return &Trainer{params: p}
}

// Fit trains coefficients for one position from historical rows. Rows are
// filtered to the position, a non-nil target, and a complete feature set;
// if fewer than the configured floor remain the fallback Coeffs for the
// position are returned with Samples == 0 and a fallback source marker.
func (t *Trainer) Fit(rows []model.TrainingRow, position model.Position) (model.Coeffs, error) {
	pp, ok := t.params.Positions[position]
	if !ok {
		return model.Coeffs{}, eris.Errorf("regression: no parameters for position %s", position)
	}
	features := pp.Regression.Features

	var xs [][]float64
	var ys []float64
	for _, row := range rows {
		if row.Position != position || row.Target == nil {
			continue
		}
		vec := make([]float64, len(features))
		complete := true
		for i, f := range features {
			v, present := row.Metric(f)
			if !present {
				complete = false
				break
			}
			vec[i] = v
		}
		if !complete {
			continue
		}
		xs = append(xs, vec)
		ys = append(ys, *row.Target)
	}

	if len(xs) < t.params.MinFitRows {
		zap.L().Info("regression: sample below fitting floor, using fallback",
			zap.String("position", string(position)),
			zap.Int("qualifying_rows", len(xs)),
			zap.Int("floor", t.params.MinFitRows),
		)
		return t.Fallback(position), nil
	}

	coeffs, err := solve(xs, ys, features)
	if err != nil {
		return model.Coeffs{}, eris.Wrapf(err, "regression: fit %s", position)
	}
	coeffs.Position = position

	zap.L().Info("regression: fit complete",
		zap.String("position", string(position)),
		zap.Int("samples", coeffs.Samples),
		zap.Float64("r2", coeffs.R2),
	)
	return coeffs, nil
}

// Fallback returns the hand-authored coefficients for a position.
func (t *Trainer) Fallback(position model.Position) model.Coeffs {
	pp := t.params.Positions[position]
	weights := make(map[string]float64, len(pp.Regression.Fallback.Weights))
	for k, v := range pp.Regression.Fallback.Weights {
		weights[k] = v
	}
	return model.Coeffs{
		Position:  position,
		Intercept: pp.Regression.Fallback.Intercept,
		Weights:   weights,
		Features:  append([]string(nil), pp.Regression.Features...),
		Samples:   0,
		Source:    model.CoeffSourceFallback,
	}
}

// Predict evaluates coeffs against one row. It returns nil when any required
// feature is missing: the trainer never imputes at prediction time; baseline
// substitution is the composer's job.
func Predict(row model.PlayerRow, coeffs model.Coeffs) *float64 {
	sum := coeffs.Intercept
	for _, f := range coeffs.Features {
		v, present := row.Metric(f)
		if !present {
			return nil
		}
		sum += coeffs.Weights[f] * v
	}
	return &sum
}

// solve runs the standardized closed-form fit.
func solve(xs [][]float64, ys []float64, features []string) (model.Coeffs, error) {
	n := len(xs)
	p := len(features)

	// Column means and standard deviations.
	means := make([]float64, p)
	stds := make([]float64, p)
	for j := 0; j < p; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += xs[i][j]
		}
		means[j] = sum / float64(n)
		var ss float64
		for i := 0; i < n; i++ {
			d := xs[i][j] - means[j]
			ss += d * d
		}
		stds[j] = math.Sqrt(ss / float64(n))
		if stds[j] < stdevFloor {
			stds[j] = stdevFloor
		}
	}

	var ySum float64
	for _, y := range ys {
		ySum += y
	}
	yMean := ySum / float64(n)

	// Z'Z and Z'y on standardized columns and centered target.
	ztz := make([][]float64, p)
	for j := range ztz {
		ztz[j] = make([]float64, p)
	}
	zty := make([]float64, p)
	for i := 0; i < n; i++ {
		yc := ys[i] - yMean
		for j := 0; j < p; j++ {
			zj := (xs[i][j] - means[j]) / stds[j]
			zty[j] += zj * yc
			for k := j; k < p; k++ {
				zk := (xs[i][k] - means[k]) / stds[k]
				ztz[j][k] += zj * zk
			}
		}
	}
	for j := 0; j < p; j++ {
		for k := 0; k < j; k++ {
			ztz[j][k] = ztz[k][j]
		}
		ztz[j][j] += ridge * float64(n)
	}

	inv, err := invert(ztz)
	if err != nil {
		return model.Coeffs{}, err
	}

	betaStd := make([]float64, p)
	for j := 0; j < p; j++ {
		for k := 0; k < p; k++ {
			betaStd[j] += inv[j][k] * zty[k]
		}
	}

	// Un-standardize back to the original feature scale.
	weights := make(map[string]float64, p)
	intercept := yMean
	for j, f := range features {
		b := betaStd[j] / stds[j]
		weights[f] = b
		intercept -= b * means[j]
	}

	// Closed-form R^2 on the training sample.
	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		pred := intercept
		for j, f := range features {
			pred += weights[f] * xs[i][j]
		}
		r := ys[i] - pred
		ssRes += r * r
		d := ys[i] - yMean
		ssTot += d * d
	}
	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	return model.Coeffs{
		Intercept: intercept,
		Weights:   weights,
		Features:  append([]string(nil), features...),
		R2:        r2,
		Samples:   n,
		Source:    model.CoeffSourceFit,
	}, nil
}

// invert performs Gauss-Jordan elimination with partial pivoting. The caller
// has already added the ridge term to the diagonal for conditioning.
func invert(m [][]float64) ([][]float64, error) {
	p := len(m)
	a := make([][]float64, p)
	inv := make([][]float64, p)
	for i := range a {
		a[i] = append([]float64(nil), m[i]...)
		inv[i] = make([]float64, p)
		inv[i][i] = 1
	}

	for col := 0; col < p; col++ {
		pivot := col
		for r := col + 1; r < p; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, eris.New("regression: singular matrix despite ridge term")
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		scale := a[col][col]
		for k := 0; k < p; k++ {
			a[col][k] /= scale
			inv[col][k] /= scale
		}
		for r := 0; r < p; r++ {
			if r == col {
				continue
			}
			factor := a[r][col]
			if factor == 0 {
				continue
			}
			for k := 0; k < p; k++ {
				a[r][k] -= factor * a[col][k]
				inv[r][k] -= factor * inv[col][k]
			}
		}
	}
	return inv, nil
}

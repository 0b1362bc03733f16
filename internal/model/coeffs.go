package model

// CoeffSource records how a Coeffs value was produced.
type CoeffSource string

const (
	// CoeffSourceFit marks coefficients solved from historical rows.
	CoeffSourceFit CoeffSource = "fit"
	// CoeffSourceFallback marks hand-tuned coefficients substituted when the
	// qualifying sample was below the fitting floor.
	CoeffSourceFallback CoeffSource = "fallback"
)

// Coeffs holds per-position regression coefficients. Once published a Coeffs
// value is immutable; a refit replaces the cached value wholesale.
type Coeffs struct {
	Position  Position           `json:"position"`
	Intercept float64            `json:"intercept"`
	Weights   map[string]float64 `json:"weights"`
	Features  []string           `json:"features"`
	R2        float64            `json:"r2"`
	Samples   int                `json:"samples"`
	Source    CoeffSource        `json:"source"`
}

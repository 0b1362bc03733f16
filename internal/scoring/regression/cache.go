package regression

import (
	"sync"
	"sync/atomic"

	"github.com/rosterlab/scout-cli/internal/model"
)

// Cache holds the per-position coefficients fitted once per process. The
// published map is immutable; Refresh replaces it wholesale rather than
// mutating in place, so readers never observe a partial fit.
type Cache struct {
	trainer *Trainer
	current atomic.Pointer[map[model.Position]model.Coeffs]
	mu      sync.Mutex // serializes refits only
}

// NewCache returns an empty cache backed by the given trainer.
func NewCache(t *Trainer) *Cache {
	c := &Cache{trainer: t}
	empty := map[model.Position]model.Coeffs{}
	c.current.Store(&empty)
	return c
}

// Refresh fits every position from the supplied historical rows and publishes
// the new coefficient set atomically. Positions whose fit errors keep no
// entry; callers fall back via For.
func (c *Cache) Refresh(rows []model.TrainingRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[model.Position]model.Coeffs, len(model.Positions))
	var firstErr error
	for _, pos := range model.Positions {
		coeffs, err := c.trainer.Fit(rows, pos)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		next[pos] = coeffs
	}
	c.current.Store(&next)
	return firstErr
}

// For returns the cached coefficients for a position, or the hand-authored
// fallback when no fit has been published.
func (c *Cache) For(position model.Position) model.Coeffs {
	m := *c.current.Load()
	if coeffs, ok := m[position]; ok {
		return coeffs
	}
	return c.trainer.Fallback(position)
}

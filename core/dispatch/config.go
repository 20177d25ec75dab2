package dispatch

import (
	"fmt"

	"github.com/kilianp07/gridmix/core/model"
)

// Config defines solver settings.
type Config struct {
	// TieBreakOrder ranks fuels of identical cost. Fuels not listed come
	// after the listed ones, in lexical order.
	TieBreakOrder []model.FuelType `json:"tie_break_order"`
	// DegradedFraction is the share of total capacity dispatched when
	// demand exceeds it.
	DegradedFraction float64 `json:"degraded_fraction"`
	// Tolerance is the MW slack accepted when checking the balance.
	Tolerance float64 `json:"tolerance"`
}

// Validate checks the degradation policy and tolerance.
func (c Config) Validate() error {
	if !(c.DegradedFraction > 0 && c.DegradedFraction <= 1) {
		return fmt.Errorf("dispatch.degraded_fraction must be in (0, 1], got %v", c.DegradedFraction)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("dispatch.tolerance must be positive, got %v", c.Tolerance)
	}
	seen := make(map[model.FuelType]bool, len(c.TieBreakOrder))
	for _, f := range c.TieBreakOrder {
		if seen[f] {
			return fmt.Errorf("dispatch.tie_break_order: duplicate fuel %s", f)
		}
		seen[f] = true
	}
	return nil
}

package cost

import (
	"fmt"
	"math"

	"github.com/kilianp07/gridmix/core/model"
)

// Config holds the static pricing tables, all in currency units per MWh
// except MarketMultipliers which are dimensionless.
type Config struct {
	// DefaultOperational is used when no usable market price is observed.
	DefaultOperational map[model.FuelType]float64 `json:"default_operational"`
	// MarketMultipliers derive operational cost from an observed price.
	MarketMultipliers map[model.FuelType]float64 `json:"market_multipliers"`
	// Infrastructure is added to every operational cost.
	Infrastructure map[model.FuelType]float64 `json:"infrastructure"`
}

// Validate rejects negative or non-finite table entries.
func (c Config) Validate() error {
	tables := map[string]map[model.FuelType]float64{
		"default_operational": c.DefaultOperational,
		"market_multipliers":  c.MarketMultipliers,
		"infrastructure":      c.Infrastructure,
	}
	for name, tbl := range tables {
		for f, v := range tbl {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("cost.%s: invalid value %v for %s", name, v, f)
			}
		}
	}
	return nil
}

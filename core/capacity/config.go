package capacity

import (
	"fmt"

	"github.com/kilianp07/gridmix/core/model"
)

// Config holds the decomposition policy applied to aggregate readings. The
// ratios are policy constants, not physical measurements.
type Config struct {
	// NonRenewableSplit divides the non-renewable aggregate between fuels.
	NonRenewableSplit map[model.FuelType]float64 `json:"non_renewable_split"`
	// RenewableSplit divides the renewable aggregate between fuels.
	RenewableSplit map[model.FuelType]float64 `json:"renewable_split"`
	// SecondaryScale multiplies named secondary readings. Fuels without an
	// entry are taken verbatim.
	SecondaryScale map[model.FuelType]float64 `json:"secondary_scale"`
	// OtherAttribution attributes the "other" bucket to fuels; the
	// unattributed share is dropped.
	OtherAttribution map[model.FuelType]float64 `json:"other_attribution"`
}

// Validate checks that ratios are non-negative and that no split hands out
// more than the aggregate it divides.
func (c Config) Validate() error {
	splits := map[string]map[model.FuelType]float64{
		"non_renewable_split": c.NonRenewableSplit,
		"renewable_split":     c.RenewableSplit,
		"other_attribution":   c.OtherAttribution,
	}
	for name, split := range splits {
		var sum float64
		for f, r := range split {
			if r < 0 {
				return fmt.Errorf("capacity.%s: negative ratio for %s", name, f)
			}
			sum += r
		}
		if sum > 1+1e-9 {
			return fmt.Errorf("capacity.%s: ratios sum to %.3f > 1", name, sum)
		}
	}
	for f, s := range c.SecondaryScale {
		if s < 0 {
			return fmt.Errorf("capacity.secondary_scale: negative scale for %s", f)
		}
	}
	return nil
}

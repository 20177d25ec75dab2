package demand

import (
	"fmt"
	"math"

	"github.com/kilianp07/gridmix/core/model"
)

// Config defines how demand is derived from supply data.
type Config struct {
	// UtilizationFactor is the share of available capacity assumed to be
	// demanded.
	UtilizationFactor float64 `json:"utilization_factor"`
}

// Validate checks the factor lies in (0, 1].
func (c Config) Validate() error {
	if !(c.UtilizationFactor > 0 && c.UtilizationFactor <= 1) {
		return fmt.Errorf("demand.utilization_factor must be in (0, 1], got %v", c.UtilizationFactor)
	}
	return nil
}

// Estimator derives a demand target from a capacity snapshot.
type Estimator struct {
	factor float64
}

// NewEstimator returns an Estimator using cfg.UtilizationFactor.
func NewEstimator(cfg Config) Estimator {
	return Estimator{factor: cfg.UtilizationFactor}
}

// Factor returns the configured utilization factor.
func (e Estimator) Factor() float64 { return e.factor }

// Estimate returns total capacity times the utilization factor, clamped to
// [0, total]. An empty snapshot yields 0.
func (e Estimator) Estimate(capacity model.CapacitySnapshot) float64 {
	total := capacity.Total()
	d := total * e.factor
	switch {
	case math.IsNaN(d) || d <= 0:
		return 0
	case d > total:
		return total
	}
	return d
}

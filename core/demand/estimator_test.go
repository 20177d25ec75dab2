package demand

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/gridmix/core/model"
)

func TestEstimate(t *testing.T) {
	e := NewEstimator(Config{UtilizationFactor: 0.9})
	checks := []struct {
		name string
		cap  model.CapacitySnapshot
		want float64
	}{
		{"empty", model.CapacitySnapshot{}, 0},
		{"nil", nil, 0},
		{"single", model.CapacitySnapshot{model.FuelSolar: 100}, 90},
		{"mix", model.CapacitySnapshot{model.FuelWind: 100, model.FuelNaturalGas: 200}, 270},
	}
	for _, c := range checks {
		assert.InDelta(t, c.want, e.Estimate(c.cap), 1e-9, c.name)
	}
}

func TestEstimateClamps(t *testing.T) {
	e := Estimator{factor: 1.5}
	assert.Equal(t, 100.0, e.Estimate(model.CapacitySnapshot{model.FuelCoal: 100}))
	e = Estimator{factor: -1}
	assert.Equal(t, 0.0, e.Estimate(model.CapacitySnapshot{model.FuelCoal: 100}))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{UtilizationFactor: 0.9}.Validate())
	assert.NoError(t, Config{UtilizationFactor: 1}.Validate())
	assert.Error(t, Config{UtilizationFactor: 0}.Validate())
	assert.Error(t, Config{UtilizationFactor: 1.1}.Validate())
}

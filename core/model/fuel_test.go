package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFuelType(t *testing.T) {
	checks := []struct {
		in   string
		want FuelType
	}{
		{"Natural Gas", FuelNaturalGas},
		{"natural_gas", FuelNaturalGas},
		{" Power Storage ", FuelBatteryStorage},
		{"Nuclear", FuelNuclear},
		{"geo-thermal", FuelType("geo_thermal")},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, ParseFuelType(c.in), c.in)
	}
}

func TestCapacitySnapshotTotal(t *testing.T) {
	c := CapacitySnapshot{FuelWind: 100, FuelNaturalGas: 200.5, FuelSolar: 0}
	assert.Equal(t, 300.5, c.Total())
	assert.Equal(t, []FuelType{FuelNaturalGas, FuelSolar, FuelWind}, c.Fuels())
	assert.Equal(t, 0.0, CapacitySnapshot{}.Total())

	cp := c.Clone()
	cp[FuelWind] = 1
	assert.Equal(t, 100.0, c[FuelWind])
}

func TestObservationsEmpty(t *testing.T) {
	assert.True(t, Observations{}.Empty())
	assert.False(t, Observations{Secondary: FuelMix{FuelHydro: 1}}.Empty())
	assert.False(t, Observations{Primary: &PrimaryObservation{}}.Empty())
}

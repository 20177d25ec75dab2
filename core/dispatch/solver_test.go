package dispatch

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridmix/core/model"
)

func testConfig() Config {
	return Config{
		TieBreakOrder: []model.FuelType{
			model.FuelNuclear, model.FuelHydro, model.FuelWind, model.FuelSolar,
			model.FuelBatteryStorage, model.FuelCoal, model.FuelNaturalGas, model.FuelPetroleum,
		},
		DegradedFraction: 0.8,
		Tolerance:        1e-6,
	}
}

func TestSolve_WindAndGas(t *testing.T) {
	s := NewSolver(testConfig(), nil)
	res := s.Solve(Request{
		Capacity: model.CapacitySnapshot{model.FuelWind: 100, model.FuelNaturalGas: 200},
		Cost:     model.CostSnapshot{model.FuelWind: 5, model.FuelNaturalGas: 35},
		DemandMW: 150,
	})
	require.Equal(t, StatusOptimal, res.Status)
	assert.Equal(t, map[model.FuelType]float64{model.FuelWind: 100, model.FuelNaturalGas: 50}, res.Allocation)
	assert.Equal(t, 2250.0, res.TotalCost)
	assert.Equal(t, 150.0, res.EffectiveDemandMW)
	assert.Equal(t, []model.FuelType{model.FuelWind, model.FuelNaturalGas}, res.MeritOrder)
	assert.Equal(t, 1.0, res.Utilization[model.FuelWind])
	assert.Equal(t, 0.25, res.Utilization[model.FuelNaturalGas])
	assert.False(t, res.Degraded())
}

func TestSolve_ZeroDemand(t *testing.T) {
	s := NewSolver(testConfig(), nil)
	for _, d := range []float64{0, -10} {
		res := s.Solve(Request{
			Capacity: model.CapacitySnapshot{model.FuelSolar: 50},
			Cost:     model.CostSnapshot{model.FuelSolar: 10},
			DemandMW: d,
		})
		assert.Equal(t, StatusOptimal, res.Status)
		assert.Empty(t, res.Allocation)
		assert.Equal(t, 0.0, res.TotalCost)
		assert.Equal(t, 0.0, res.EffectiveDemandMW)
		assert.Equal(t, 0.0, res.Utilization[model.FuelSolar])
	}
}

func TestSolve_MissingCostIsInfeasible(t *testing.T) {
	s := NewSolver(testConfig(), nil)
	res := s.Solve(Request{
		Capacity: model.CapacitySnapshot{model.FuelCoal: 10},
		Cost:     model.CostSnapshot{},
		DemandMW: 5,
	})
	assert.Equal(t, StatusInfeasible, res.Status)
	assert.Equal(t, InfeasibleNoCapacity, res.Reason)
	assert.Empty(t, res.Allocation)
	assert.Equal(t, []Exclusion{{Fuel: model.FuelCoal, Reason: ReasonMissingCost}}, res.Excluded)
	assert.False(t, res.Feasible())
}

func TestSolve_EmptyCapacity(t *testing.T) {
	s := NewSolver(testConfig(), nil)
	res := s.Solve(Request{Cost: model.CostSnapshot{model.FuelWind: 5}, DemandMW: 100})
	assert.Equal(t, StatusInfeasible, res.Status)
	assert.Equal(t, []Exclusion{{Fuel: model.FuelWind, Reason: ReasonMissingCapacity}}, res.Excluded)
}

func TestSolve_DegradedDemand(t *testing.T) {
	s := NewSolver(testConfig(), nil)
	res := s.Solve(Request{
		Capacity: model.CapacitySnapshot{model.FuelCoal: 600, model.FuelNaturalGas: 400},
		Cost:     model.CostSnapshot{model.FuelCoal: 30, model.FuelNaturalGas: 45},
		DemandMW: 10000,
	})
	require.Equal(t, StatusDegraded, res.Status)
	assert.True(t, res.Degraded())
	assert.InDelta(t, 800, res.EffectiveDemandMW, 1e-9)
	assert.Equal(t, 10000.0, res.RequestedDemandMW)
	assert.InDelta(t, 600, res.Allocation[model.FuelCoal], 1e-9)
	assert.InDelta(t, 200, res.Allocation[model.FuelNaturalGas], 1e-9)
	assert.InDelta(t, 600*30+200*45, res.TotalCost, 1e-9)
}

func TestSolve_Exclusions(t *testing.T) {
	s := NewSolver(testConfig(), nil)
	res := s.Solve(Request{
		Capacity: model.CapacitySnapshot{
			model.FuelWind:      100,
			model.FuelCoal:      0,
			model.FuelNuclear:   -3,
			model.FuelPetroleum: 20,
			model.FuelHydro:     30,
		},
		Cost: model.CostSnapshot{
			model.FuelWind:      5,
			model.FuelCoal:      30,
			model.FuelNuclear:   12,
			model.FuelPetroleum: math.NaN(),
			model.FuelHydro:     -1,
			model.FuelSolar:     10,
		},
		DemandMW: 50,
	})
	require.Equal(t, StatusOptimal, res.Status)
	assert.Equal(t, []Exclusion{
		{Fuel: model.FuelCoal, Reason: ReasonNonPositiveCapacity},
		{Fuel: model.FuelHydro, Reason: ReasonInvalidCost},
		{Fuel: model.FuelNuclear, Reason: ReasonNonPositiveCapacity},
		{Fuel: model.FuelPetroleum, Reason: ReasonInvalidCost},
		{Fuel: model.FuelSolar, Reason: ReasonMissingCapacity},
	}, res.Excluded)
	assert.Equal(t, model.CapacitySnapshot{model.FuelWind: 100}, res.Capacity)
	assert.Equal(t, map[model.FuelType]float64{model.FuelWind: 50}, res.Allocation)
}

func TestSolve_InvalidDemand(t *testing.T) {
	s := NewSolver(testConfig(), nil)
	res := s.Solve(Request{
		Capacity: model.CapacitySnapshot{model.FuelWind: 100},
		Cost:     model.CostSnapshot{model.FuelWind: 5},
		DemandMW: math.NaN(),
	})
	assert.Equal(t, StatusInfeasible, res.Status)
	assert.Equal(t, InfeasibleInvalidDemand, res.Reason)
}

func TestSolve_TieBreak(t *testing.T) {
	req := Request{
		Capacity: model.CapacitySnapshot{model.FuelCoal: 100, model.FuelNuclear: 100, model.FuelType("geothermal"): 100},
		Cost:     model.CostSnapshot{model.FuelCoal: 20, model.FuelNuclear: 20, model.FuelType("geothermal"): 20},
		DemandMW: 150,
	}
	res := NewSolver(testConfig(), nil).Solve(req)
	assert.Equal(t, []model.FuelType{model.FuelNuclear, model.FuelCoal, "geothermal"}, res.MeritOrder)
	assert.Equal(t, 100.0, res.Allocation[model.FuelNuclear])
	assert.Equal(t, 50.0, res.Allocation[model.FuelCoal])
	assert.Equal(t, 3000.0, res.TotalCost)

	cfg := testConfig()
	cfg.TieBreakOrder = []model.FuelType{model.FuelCoal}
	res2 := NewSolver(cfg, nil).Solve(req)
	assert.Equal(t, []model.FuelType{model.FuelCoal, "geothermal", model.FuelNuclear}, res2.MeritOrder)
	assert.Equal(t, res.TotalCost, res2.TotalCost, "ties change the receiver, not the cost")
}

func TestSolve_DoesNotMutateRequest(t *testing.T) {
	req := Request{
		Capacity: model.CapacitySnapshot{model.FuelWind: 100, model.FuelCoal: 0},
		Cost:     model.CostSnapshot{model.FuelWind: 5},
		DemandMW: 50,
	}
	capBefore, costBefore := req.Capacity.Clone(), req.Cost.Clone()
	NewSolver(testConfig(), nil).Solve(req)
	assert.Equal(t, capBefore, req.Capacity)
	assert.Equal(t, costBefore, req.Cost)
}

func TestSolve_Idempotent(t *testing.T) {
	req := Request{
		Capacity: model.CapacitySnapshot{
			model.FuelWind: 33.3, model.FuelSolar: 33.3, model.FuelHydro: 12.1,
			model.FuelNaturalGas: 410.7, model.FuelCoal: 250.25,
		},
		Cost: model.CostSnapshot{
			model.FuelWind: 17, model.FuelSolar: 17, model.FuelHydro: 17,
			model.FuelNaturalGas: 45.5, model.FuelCoal: 45.5,
		},
		DemandMW: 512.345,
	}
	s := NewSolver(testConfig(), nil)
	first := s.Solve(req)
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, s.Solve(req)); diff != "" {
			t.Fatalf("solve not deterministic (-first +again):\n%s", diff)
		}
	}
	for f, x := range first.Allocation {
		again := s.Solve(req).Allocation[f]
		assert.Equal(t, math.Float64bits(x), math.Float64bits(again), f)
	}
}

func TestSolve_AllocatedMatchesEffective(t *testing.T) {
	s := NewSolver(testConfig(), nil)
	res := s.Solve(Request{
		Capacity: model.CapacitySnapshot{model.FuelWind: 0.1, model.FuelSolar: 0.2, model.FuelCoal: 0.3},
		Cost:     model.CostSnapshot{model.FuelWind: 1, model.FuelSolar: 2, model.FuelCoal: 3},
		DemandMW: 0.6,
	})
	require.True(t, res.Feasible())
	assert.InDelta(t, res.EffectiveDemandMW, res.AllocatedMW(), 1e-6)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, testConfig().Validate())
	bad := testConfig()
	bad.DegradedFraction = 0
	assert.Error(t, bad.Validate())
	bad = testConfig()
	bad.Tolerance = 0
	assert.Error(t, bad.Validate())
	bad = testConfig()
	bad.TieBreakOrder = append(bad.TieBreakOrder, model.FuelCoal)
	assert.Error(t, bad.Validate())
}

func TestSolve_ResidueAboveToleranceIsInfeasible(t *testing.T) {
	wind, gas := 0.1, 0.2
	req := Request{
		Capacity: model.CapacitySnapshot{model.FuelWind: wind, model.FuelNaturalGas: gas},
		Cost:     model.CostSnapshot{model.FuelWind: 5, model.FuelNaturalGas: 35},
		DemandMW: wind + gas,
	}

	cfg := testConfig()
	cfg.Tolerance = 1e-20
	res := NewSolver(cfg, nil).Solve(req)
	require.Equal(t, StatusInfeasible, res.Status)
	assert.Equal(t, InfeasibleExhausted, res.Reason)
	assert.Empty(t, res.Allocation)
	assert.Equal(t, 0.0, res.TotalCost)

	res = NewSolver(testConfig(), nil).Solve(req)
	assert.Equal(t, StatusOptimal, res.Status)
	assert.False(t, res.Degraded())
}

package config

import (
	"time"

	"github.com/kilianp07/gridmix/core/capacity"
	"github.com/kilianp07/gridmix/core/cost"
	"github.com/kilianp07/gridmix/core/demand"
	"github.com/kilianp07/gridmix/core/dispatch"
	"github.com/kilianp07/gridmix/core/model"
	"github.com/kilianp07/gridmix/core/report"
)

// Default returns the built-in policy tables. Values are in $/MWh unless
// noted otherwise.
func Default() Config {
	return Config{
		Capacity: capacity.Config{
			NonRenewableSplit: map[model.FuelType]float64{
				model.FuelNaturalGas: 0.7,
				model.FuelCoal:       0.3,
			},
			RenewableSplit: map[model.FuelType]float64{
				model.FuelSolar: 1.0,
			},
			SecondaryScale: map[model.FuelType]float64{
				model.FuelNuclear: 1.2,
			},
			OtherAttribution: map[model.FuelType]float64{
				model.FuelPetroleum: 0.5,
			},
		},
		Cost: cost.Config{
			DefaultOperational: map[model.FuelType]float64{
				model.FuelNaturalGas:     35,
				model.FuelWind:           5,
				model.FuelSolar:          10,
				model.FuelCoal:           30,
				model.FuelNuclear:        12,
				model.FuelHydro:          8,
				model.FuelBatteryStorage: 20,
				model.FuelPetroleum:      60,
			},
			// dimensionless, applied to the observed market price
			MarketMultipliers: map[model.FuelType]float64{
				model.FuelNaturalGas:     1.0,
				model.FuelCoal:           0.85,
				model.FuelNuclear:        0.35,
				model.FuelWind:           0.15,
				model.FuelSolar:          0.2,
				model.FuelHydro:          0.25,
				model.FuelBatteryStorage: 0.6,
				model.FuelPetroleum:      1.5,
			},
			Infrastructure: map[model.FuelType]float64{
				model.FuelNaturalGas:     10,
				model.FuelCoal:           15,
				model.FuelNuclear:        25,
				model.FuelWind:           12,
				model.FuelSolar:          14,
				model.FuelHydro:          10,
				model.FuelBatteryStorage: 18,
				model.FuelPetroleum:      8,
			},
		},
		Demand: demand.Config{UtilizationFactor: 0.9},
		Dispatch: dispatch.Config{
			TieBreakOrder: []model.FuelType{
				model.FuelNuclear,
				model.FuelHydro,
				model.FuelWind,
				model.FuelSolar,
				model.FuelBatteryStorage,
				model.FuelCoal,
				model.FuelNaturalGas,
				model.FuelPetroleum,
			},
			DegradedFraction: 0.8,
			Tolerance:        1e-6,
		},
		Report: report.Config{
			Groups: []report.Group{
				{Name: "renewable", Fuels: []model.FuelType{model.FuelWind, model.FuelSolar}},
				{Name: "baseload", Fuels: []model.FuelType{model.FuelNuclear, model.FuelCoal, model.FuelHydro}},
				{Name: "dispatchable", Remainder: true},
			},
			// t CO2 per MWh
			EmissionFactors: map[model.FuelType]float64{
				model.FuelNaturalGas: 0.41,
				model.FuelCoal:       0.95,
				model.FuelPetroleum:  0.78,
			},
			RenewableGroup: "renewable",
		},
		Serve: ServeConfig{
			Interval:  5 * time.Minute,
			BusBuffer: 8,
		},
	}
}

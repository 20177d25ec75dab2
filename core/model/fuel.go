package model

import (
	"sort"
	"strings"
)

// FuelType identifies a generation source. The set is open: any identifier
// present in a capacity or cost mapping is a valid fuel type.
type FuelType string

const (
	FuelNaturalGas     FuelType = "natural_gas"
	FuelCoal           FuelType = "coal"
	FuelNuclear        FuelType = "nuclear"
	FuelWind           FuelType = "wind"
	FuelSolar          FuelType = "solar"
	FuelHydro          FuelType = "hydro"
	FuelBatteryStorage FuelType = "battery_storage"
	FuelPetroleum      FuelType = "petroleum"
	FuelOther          FuelType = "other"
)

// ParseFuelType normalizes identifiers such as "Natural Gas" or
// "Power-Storage" into their snake_case form.
func ParseFuelType(s string) FuelType {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	switch s {
	case "power_storage", "storage", "battery":
		return FuelBatteryStorage
	case "gas", "ng":
		return FuelNaturalGas
	}
	return FuelType(s)
}

func (f FuelType) String() string { return string(f) }

// SortFuels sorts fuel types lexically in place and returns the slice.
func SortFuels(fuels []FuelType) []FuelType {
	sort.Slice(fuels, func(i, j int) bool { return fuels[i] < fuels[j] })
	return fuels
}

// CapacitySnapshot maps a fuel type to its available megawatts. A fuel absent
// from the snapshot has zero capacity.
type CapacitySnapshot map[FuelType]float64

// Fuels returns the fuel types of the snapshot in lexical order.
func (c CapacitySnapshot) Fuels() []FuelType {
	out := make([]FuelType, 0, len(c))
	for f := range c {
		out = append(out, f)
	}
	return SortFuels(out)
}

// Total sums the capacities in lexical fuel order so repeated calls over the
// same snapshot are bit-identical.
func (c CapacitySnapshot) Total() float64 {
	var total float64
	for _, f := range c.Fuels() {
		total += c[f]
	}
	return total
}

// Clone returns a copy of the snapshot.
func (c CapacitySnapshot) Clone() CapacitySnapshot {
	cp := make(CapacitySnapshot, len(c))
	for k, v := range c {
		cp[k] = v
	}
	return cp
}

// CostSnapshot maps a fuel type to its total cost per megawatt-hour.
type CostSnapshot map[FuelType]float64

// Fuels returns the fuel types of the snapshot in lexical order.
func (c CostSnapshot) Fuels() []FuelType {
	out := make([]FuelType, 0, len(c))
	for f := range c {
		out = append(out, f)
	}
	return SortFuels(out)
}

// Clone returns a copy of the snapshot.
func (c CostSnapshot) Clone() CostSnapshot {
	cp := make(CostSnapshot, len(c))
	for k, v := range c {
		cp[k] = v
	}
	return cp
}

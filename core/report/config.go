package report

import (
	"fmt"
	"math"

	"github.com/kilianp07/gridmix/core/model"
)

// Group names a set of fuels reported together. A Remainder group collects
// every allocated fuel that no other group claims.
type Group struct {
	Name      string           `json:"name"`
	Fuels     []model.FuelType `json:"fuels"`
	Remainder bool             `json:"remainder"`
}

// Config lists the reporting groups and emission factors in t CO2 per MWh.
type Config struct {
	Groups          []Group                    `json:"groups"`
	EmissionFactors map[model.FuelType]float64 `json:"emission_factors"`
	// RenewableGroup names the group whose share is reported as renewable.
	RenewableGroup string `json:"renewable_group"`
}

// Validate rejects duplicate group names, fuels claimed twice and more than
// one remainder group.
func (c Config) Validate() error {
	names := map[string]bool{}
	claimed := map[model.FuelType]string{}
	remainders := 0
	for _, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("report.groups: empty group name")
		}
		if names[g.Name] {
			return fmt.Errorf("report.groups: duplicate group %s", g.Name)
		}
		names[g.Name] = true
		if g.Remainder {
			remainders++
		}
		for _, f := range g.Fuels {
			if other, ok := claimed[f]; ok {
				return fmt.Errorf("report.groups: fuel %s in both %s and %s", f, other, g.Name)
			}
			claimed[f] = g.Name
		}
	}
	if remainders > 1 {
		return fmt.Errorf("report.groups: %d remainder groups, at most one allowed", remainders)
	}
	if c.RenewableGroup != "" && !names[c.RenewableGroup] {
		return fmt.Errorf("report.renewable_group: unknown group %s", c.RenewableGroup)
	}
	for f, v := range c.EmissionFactors {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("report.emission_factors.%s: invalid factor %v", f, v)
		}
	}
	return nil
}

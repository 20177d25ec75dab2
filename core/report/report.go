// Package report turns a dispatch result into presentation metrics.
package report

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/gridmix/core/dispatch"
	"github.com/kilianp07/gridmix/core/model"
)

// FuelLine is the per-fuel part of Metrics. UtilizationPct is nil when the
// fuel has no capacity and is rendered as N/A.
type FuelLine struct {
	Fuel             model.FuelType `json:"fuel"`
	AllocationMW     float64        `json:"allocation_mw"`
	CapacityMW       float64        `json:"capacity_mw"`
	CostPerMWh       float64        `json:"cost_per_mwh"`
	CostTotal        float64        `json:"cost_total"`
	UtilizationPct   *float64       `json:"utilization_pct"`
	SharePct         float64        `json:"share_pct"`
	CapacitySharePct float64        `json:"capacity_share_pct"`
}

// GroupShare is the dispatch share of one reporting group.
type GroupShare struct {
	Name         string           `json:"name"`
	Fuels        []model.FuelType `json:"fuels"`
	AllocationMW float64          `json:"allocation_mw"`
	SharePct     float64          `json:"share_pct"`
}

// Metrics summarises a dispatch result.
type Metrics struct {
	Status            dispatch.Status `json:"status"`
	Reason            string          `json:"reason,omitempty"`
	Degraded          bool            `json:"degraded"`
	RequestedDemandMW float64         `json:"requested_demand_mw"`
	EffectiveDemandMW float64         `json:"effective_demand_mw"`
	AllocatedMW       float64         `json:"allocated_mw"`
	CapacityMW        float64         `json:"capacity_mw"`
	TotalCost         float64         `json:"total_cost"`
	AverageCostPerMWh float64         `json:"average_cost_per_mwh"`
	RenewablePct      float64         `json:"renewable_pct"`
	CO2TonsPerMWh     float64         `json:"co2_t_per_mwh"`
	Fuels             []FuelLine      `json:"fuels"`
	Groups            []GroupShare    `json:"groups"`
}

// Fuel returns the line for f.
func (m Metrics) Fuel(f model.FuelType) (FuelLine, bool) {
	for _, l := range m.Fuels {
		if l.Fuel == f {
			return l, true
		}
	}
	return FuelLine{}, false
}

// Group returns the share of the named group.
func (m Metrics) Group(name string) (GroupShare, bool) {
	for _, g := range m.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupShare{}, false
}

// Summarize computes Metrics for res. Fuel lines cover every fuel that took
// part in the dispatch, in merit order.
func Summarize(res dispatch.Result, cfg Config) Metrics {
	m := Metrics{
		Status:            res.Status,
		Reason:            res.Reason,
		Degraded:          res.Degraded(),
		RequestedDemandMW: res.RequestedDemandMW,
		EffectiveDemandMW: res.EffectiveDemandMW,
		TotalCost:         res.TotalCost,
	}
	order := res.MeritOrder
	if len(order) == 0 {
		order = model.SortFuels(fuelsOf(res.Allocation))
	}

	alloc := make([]float64, len(order))
	capacity := make([]float64, len(order))
	for i, f := range order {
		alloc[i] = res.Allocation[f]
		capacity[i] = res.Capacity[f]
	}
	m.AllocatedMW = floats.Sum(alloc)
	m.CapacityMW = floats.Sum(capacity)
	if m.AllocatedMW > 0 {
		m.AverageCostPerMWh = m.TotalCost / m.AllocatedMW
	}

	var co2 float64
	m.Fuels = make([]FuelLine, 0, len(order))
	for i, f := range order {
		line := FuelLine{
			Fuel:         f,
			AllocationMW: alloc[i],
			CapacityMW:   capacity[i],
			CostPerMWh:   res.Cost[f],
			CostTotal:    alloc[i] * res.Cost[f],
			SharePct:     pct(alloc[i], m.AllocatedMW),
		}
		line.CapacitySharePct = pct(capacity[i], m.CapacityMW)
		if capacity[i] > 0 {
			u := 100 * alloc[i] / capacity[i]
			line.UtilizationPct = &u
		}
		co2 += alloc[i] * cfg.EmissionFactors[f]
		m.Fuels = append(m.Fuels, line)
	}
	if m.AllocatedMW > 0 {
		m.CO2TonsPerMWh = co2 / m.AllocatedMW
	}

	m.Groups = groupShares(order, res.Allocation, cfg.Groups, m.AllocatedMW)
	if g, ok := m.Group(cfg.RenewableGroup); ok {
		m.RenewablePct = g.SharePct
	}
	return m
}

func groupShares(order []model.FuelType, alloc map[model.FuelType]float64, groups []Group, total float64) []GroupShare {
	claimed := map[model.FuelType]bool{}
	for _, g := range groups {
		if g.Remainder {
			continue
		}
		for _, f := range g.Fuels {
			claimed[f] = true
		}
	}
	out := make([]GroupShare, 0, len(groups))
	for _, g := range groups {
		share := GroupShare{Name: g.Name, Fuels: []model.FuelType{}}
		if g.Remainder {
			for _, f := range order {
				if !claimed[f] && alloc[f] > 0 {
					share.Fuels = append(share.Fuels, f)
				}
			}
		} else {
			share.Fuels = append(share.Fuels, g.Fuels...)
		}
		for _, f := range share.Fuels {
			share.AllocationMW += alloc[f]
		}
		share.SharePct = pct(share.AllocationMW, total)
		out = append(out, share)
	}
	return out
}

func pct(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return 100 * part / whole
}

func fuelsOf(m map[model.FuelType]float64) []model.FuelType {
	out := make([]model.FuelType, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	return out
}

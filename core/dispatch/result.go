package dispatch

import "github.com/kilianp07/gridmix/core/model"

// Status classifies a dispatch outcome.
type Status string

const (
	// StatusOptimal means the requested demand was met at minimum cost.
	StatusOptimal Status = "optimal"
	// StatusDegraded means demand exceeded total capacity and a reduced
	// effective demand was met at minimum cost.
	StatusDegraded Status = "degraded"
	// StatusInfeasible means nothing could be dispatched.
	StatusInfeasible Status = "infeasible"
)

// ExclusionReason explains why a fuel was left out of dispatch.
type ExclusionReason string

const (
	ReasonMissingCost         ExclusionReason = "missing_cost"
	ReasonMissingCapacity     ExclusionReason = "missing_capacity"
	ReasonNonPositiveCapacity ExclusionReason = "non_positive_capacity"
	ReasonInvalidCost         ExclusionReason = "invalid_cost"
)

// Infeasibility reasons.
const (
	InfeasibleNoCapacity    = "no capacity"
	InfeasibleInvalidDemand = "invalid demand"
	InfeasibleExhausted     = "capacity exhausted"
)

// Exclusion records a fuel removed before optimization.
type Exclusion struct {
	Fuel   model.FuelType  `json:"fuel"`
	Reason ExclusionReason `json:"reason"`
}

// Request is the input of a single dispatch. It is not modified by the
// solver.
type Request struct {
	Capacity model.CapacitySnapshot `json:"capacity"`
	Cost     model.CostSnapshot     `json:"cost"`
	DemandMW float64                `json:"demand_mw"`
}

// Result is the outcome of a dispatch. Allocation lists only fuels that
// received a positive share; Capacity, Cost and Utilization cover every fuel
// that took part in the optimization.
type Result struct {
	Status            Status                     `json:"status"`
	Reason            string                     `json:"reason,omitempty"`
	RequestedDemandMW float64                    `json:"requested_demand_mw"`
	EffectiveDemandMW float64                    `json:"effective_demand_mw"`
	Allocation        map[model.FuelType]float64 `json:"allocation"`
	Capacity          model.CapacitySnapshot     `json:"capacity"`
	Cost              model.CostSnapshot         `json:"cost"`
	Utilization       map[model.FuelType]float64 `json:"utilization"`
	MeritOrder        []model.FuelType           `json:"merit_order"`
	TotalCost         float64                    `json:"total_cost"`
	Excluded          []Exclusion                `json:"excluded,omitempty"`
}

// Degraded reports whether less than the requested demand was met.
func (r Result) Degraded() bool { return r.Status == StatusDegraded }

// Feasible reports whether the result carries a usable allocation.
func (r Result) Feasible() bool { return r.Status != StatusInfeasible }

// AllocatedMW sums the allocation in merit order.
func (r Result) AllocatedMW() float64 {
	var sum float64
	for _, f := range r.MeritOrder {
		sum += r.Allocation[f]
	}
	return sum
}

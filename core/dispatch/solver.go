package dispatch

import (
	"math"
	"sort"
	"time"

	"github.com/kilianp07/gridmix/core/logger"
	"github.com/kilianp07/gridmix/core/model"
)

// Solver computes least-cost merit-order dispatch for a single time slice.
// It holds no mutable state and may be shared between goroutines.
type Solver struct {
	rank     map[model.FuelType]int
	degraded float64
	tol      float64
	log      logger.Logger
}

// NewSolver returns a Solver configured with cfg.
func NewSolver(cfg Config, log logger.Logger) *Solver {
	rank := make(map[model.FuelType]int, len(cfg.TieBreakOrder))
	for i, f := range cfg.TieBreakOrder {
		rank[f] = i
	}
	return &Solver{rank: rank, degraded: cfg.DegradedFraction, tol: cfg.Tolerance, log: logger.OrNop(log)}
}

// Solve minimises Σ cost[f]·x[f] subject to Σ x[f] = effective demand and
// 0 ≤ x[f] ≤ capacity[f]. With a single balance constraint and box bounds
// the greedy walk over fuels sorted by cost is optimal: moving flow from a
// costlier fuel to a cheaper one with spare capacity never raises the cost.
func (s *Solver) Solve(req Request) Result {
	start := time.Now()
	res := s.solve(req)
	observe(res, time.Since(start))
	return res
}

func (s *Solver) solve(req Request) Result {
	res := Result{
		RequestedDemandMW: req.DemandMW,
		Allocation:        make(map[model.FuelType]float64),
		Capacity:          make(model.CapacitySnapshot),
		Cost:              make(model.CostSnapshot),
		Utilization:       make(map[model.FuelType]float64),
	}
	res.Excluded = s.restrict(req, res.Capacity, res.Cost)
	res.MeritOrder = s.meritOrder(res.Capacity, res.Cost)

	if len(res.MeritOrder) == 0 {
		return s.infeasible(res, InfeasibleNoCapacity)
	}
	if math.IsNaN(req.DemandMW) || math.IsInf(req.DemandMW, 0) {
		return s.infeasible(res, InfeasibleInvalidDemand)
	}
	for _, f := range res.MeritOrder {
		res.Utilization[f] = 0
	}
	res.Status = StatusOptimal
	if req.DemandMW <= 0 {
		return res
	}

	var total float64
	for _, f := range res.MeritOrder {
		total += res.Capacity[f]
	}
	res.EffectiveDemandMW = req.DemandMW
	if total < req.DemandMW {
		res.EffectiveDemandMW = s.degraded * total
		res.Status = StatusDegraded
		s.log.Warnf("dispatch: demand %.3f MW exceeds capacity %.3f MW, dispatching %.3f MW",
			req.DemandMW, total, res.EffectiveDemandMW)
	}

	remaining := res.EffectiveDemandMW
	for _, f := range res.MeritOrder {
		if remaining <= 0 {
			break
		}
		c := res.Capacity[f]
		x := math.Min(remaining, c)
		res.Allocation[f] = x
		res.Utilization[f] = x / c
		res.TotalCost += x * res.Cost[f]
		remaining -= x
	}
	if remaining > s.tol {
		s.log.Errorf("dispatch: %.6f MW left after exhausting merit order", remaining)
		return s.infeasible(res, InfeasibleExhausted)
	}
	s.log.Debugw("dispatch solved", map[string]any{
		"status":       string(res.Status),
		"effective_mw": res.EffectiveDemandMW,
		"total_cost":   res.TotalCost,
		"fuels":        len(res.Allocation),
	})
	return res
}

// restrict copies into capacity and cost the fuels that can be dispatched
// and reports the others.
func (s *Solver) restrict(req Request, capacity model.CapacitySnapshot, cost model.CostSnapshot) []Exclusion {
	fuels := make(map[model.FuelType]struct{}, len(req.Capacity)+len(req.Cost))
	for f := range req.Capacity {
		fuels[f] = struct{}{}
	}
	for f := range req.Cost {
		fuels[f] = struct{}{}
	}
	names := make([]model.FuelType, 0, len(fuels))
	for f := range fuels {
		names = append(names, f)
	}
	model.SortFuels(names)

	var excluded []Exclusion
	for _, f := range names {
		c, hasCap := req.Capacity[f]
		p, hasCost := req.Cost[f]
		var reason ExclusionReason
		switch {
		case !hasCap:
			reason = ReasonMissingCapacity
		case !(c > 0) || math.IsInf(c, 0):
			reason = ReasonNonPositiveCapacity
		case !hasCost:
			reason = ReasonMissingCost
		case p < 0 || math.IsNaN(p) || math.IsInf(p, 0):
			reason = ReasonInvalidCost
		default:
			capacity[f] = c
			cost[f] = p
			continue
		}
		s.log.Debugf("dispatch: excluding %s (%s)", f, reason)
		excluded = append(excluded, Exclusion{Fuel: f, Reason: reason})
	}
	return excluded
}

// meritOrder sorts fuels by ascending cost, breaking ties by configured rank
// and then by name.
func (s *Solver) meritOrder(capacity model.CapacitySnapshot, cost model.CostSnapshot) []model.FuelType {
	order := capacity.Fuels()
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if cost[a] != cost[b] {
			return cost[a] < cost[b]
		}
		ra, rb := s.rankOf(a), s.rankOf(b)
		if ra != rb {
			return ra < rb
		}
		return a < b
	})
	return order
}

func (s *Solver) rankOf(f model.FuelType) int {
	if r, ok := s.rank[f]; ok {
		return r
	}
	return len(s.rank)
}

func (s *Solver) infeasible(res Result, reason string) Result {
	res.Status = StatusInfeasible
	res.Reason = reason
	res.EffectiveDemandMW = 0
	res.TotalCost = 0
	res.Allocation = make(map[model.FuelType]float64)
	res.Utilization = make(map[model.FuelType]float64)
	s.log.Infof("dispatch: infeasible (%s), %d fuels excluded", reason, len(res.Excluded))
	return res
}

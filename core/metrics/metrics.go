package metrics

import (
	"time"

	"github.com/kilianp07/gridmix/core/dispatch"
	"github.com/kilianp07/gridmix/core/model"
	"github.com/kilianp07/gridmix/core/report"
)

// DispatchEvent is the observable summary of one dispatch run.
type DispatchEvent struct {
	RunID             string                     `json:"run_id"`
	Time              time.Time                  `json:"time"`
	Scenario          string                     `json:"scenario,omitempty"`
	Status            dispatch.Status            `json:"status"`
	Reason            string                     `json:"reason,omitempty"`
	RequestedDemandMW float64                    `json:"requested_demand_mw"`
	EffectiveDemandMW float64                    `json:"effective_demand_mw"`
	CapacityMW        float64                    `json:"capacity_mw"`
	TotalCost         float64                    `json:"total_cost"`
	AverageCostPerMWh float64                    `json:"average_cost_per_mwh"`
	RenewablePct      float64                    `json:"renewable_pct"`
	CO2TonsPerMWh     float64                    `json:"co2_t_per_mwh"`
	Allocation        map[model.FuelType]float64 `json:"allocation"`
	Excluded          []dispatch.Exclusion       `json:"excluded,omitempty"`
	AnchorPrice       *float64                   `json:"anchor_price,omitempty"`
}

// NewDispatchEvent builds an event from a solved result and its report.
func NewDispatchEvent(runID string, ts time.Time, res dispatch.Result, m report.Metrics, anchor *float64) DispatchEvent {
	alloc := make(map[model.FuelType]float64, len(res.Allocation))
	for f, mw := range res.Allocation {
		alloc[f] = mw
	}
	return DispatchEvent{
		RunID:             runID,
		Time:              ts,
		Status:            res.Status,
		Reason:            res.Reason,
		RequestedDemandMW: res.RequestedDemandMW,
		EffectiveDemandMW: res.EffectiveDemandMW,
		CapacityMW:        m.CapacityMW,
		TotalCost:         res.TotalCost,
		AverageCostPerMWh: m.AverageCostPerMWh,
		RenewablePct:      m.RenewablePct,
		CO2TonsPerMWh:     m.CO2TonsPerMWh,
		Allocation:        alloc,
		Excluded:          append([]dispatch.Exclusion(nil), res.Excluded...),
		AnchorPrice:       anchor,
	}
}

// Degraded reports whether the run met a reduced demand.
func (e DispatchEvent) Degraded() bool { return e.Status == dispatch.StatusDegraded }

// MetricsSink records dispatch runs for observability purposes.
type MetricsSink interface {
	RecordDispatch(ev DispatchEvent) error
}

// Closer is implemented by sinks holding a connection.
type Closer interface {
	Close() error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordDispatch(DispatchEvent) error { return nil }

package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/gridmix/core/metrics"
)

// PromSink exposes the latest dispatch run as Prometheus gauges and counts
// runs by status.
type PromSink struct {
	allocation *prometheus.GaugeVec
	totalCost  prometheus.Gauge
	demand     *prometheus.GaugeVec
	renewable  prometheus.Gauge
	runs       *prometheus.CounterVec
}

// NewPromSink registers dispatch metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		allocation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dispatch_allocation_mw",
			Help: "Megawatts allocated per fuel in the latest dispatch",
		}, []string{"fuel"}),
		totalCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatch_total_cost",
			Help: "Total cost of the latest dispatch",
		}),
		demand: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dispatch_demand_mw",
			Help: "Requested and effective demand of the latest dispatch",
		}, []string{"kind"}),
		renewable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatch_renewable_share_percent",
			Help: "Renewable share of the latest dispatch",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_runs_total",
			Help: "Dispatch runs recorded by status",
		}, []string{"status"}),
	}
	var err error
	if s.allocation, err = register(reg, s.allocation); err != nil {
		return nil, err
	}
	if s.totalCost, err = register(reg, s.totalCost); err != nil {
		return nil, err
	}
	if s.demand, err = register(reg, s.demand); err != nil {
		return nil, err
	}
	if s.renewable, err = register(reg, s.renewable); err != nil {
		return nil, err
	}
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the collector already registered under the same
// descriptor when there is one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordDispatch replaces the gauges with ev and counts the run.
func (s *PromSink) RecordDispatch(ev coremetrics.DispatchEvent) error {
	s.allocation.Reset()
	for f, mw := range ev.Allocation {
		s.allocation.WithLabelValues(f.String()).Set(mw)
	}
	s.totalCost.Set(ev.TotalCost)
	s.demand.WithLabelValues("requested").Set(ev.RequestedDemandMW)
	s.demand.WithLabelValues("effective").Set(ev.EffectiveDemandMW)
	s.renewable.Set(ev.RenewablePct)
	s.runs.WithLabelValues(string(ev.Status)).Inc()
	return nil
}

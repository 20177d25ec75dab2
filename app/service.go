// Package app wires a market data source to the dispatch pipeline and its
// recording side effects.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/kilianp07/gridmix/config"
	"github.com/kilianp07/gridmix/connectors/grid"
	"github.com/kilianp07/gridmix/core/capacity"
	"github.com/kilianp07/gridmix/core/cost"
	"github.com/kilianp07/gridmix/core/demand"
	"github.com/kilianp07/gridmix/core/dispatch"
	"github.com/kilianp07/gridmix/core/dispatch/logging"
	"github.com/kilianp07/gridmix/core/logger"
	coremetrics "github.com/kilianp07/gridmix/core/metrics"
	"github.com/kilianp07/gridmix/core/model"
	"github.com/kilianp07/gridmix/core/monitoring"
	"github.com/kilianp07/gridmix/core/report"
	"github.com/kilianp07/gridmix/internal/eventbus"
)

// ErrNoSource is returned by RunOnce when the service has no source.
var ErrNoSource = errors.New("no observation source configured")

// Outcome is everything derived from one observation slice.
type Outcome struct {
	RunID        uuid.UUID          `json:"run_id"`
	Scenario     string             `json:"scenario,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
	Observations model.Observations `json:"observations"`
	Cost         cost.Model         `json:"cost"`
	Request      dispatch.Request   `json:"request"`
	Result       dispatch.Result    `json:"result"`
	Report       report.Metrics     `json:"report"`
}

// AnchorPrice returns the market price the costs derive from, if any.
func (o Outcome) AnchorPrice() *float64 {
	if !o.Cost.Anchored {
		return nil
	}
	p := o.Cost.AnchorPrice
	return &p
}

// Overrides replaces observed or configured inputs for a what-if run.
type Overrides struct {
	Scenario          string
	UtilizationFactor *float64
	MarketPrice       *float64
}

// Options carries the collaborators of a Service. Nil fields fall back to
// no-op implementations; a nil Store disables the dispatch log.
type Options struct {
	Source    grid.Source
	Sink      coremetrics.MetricsSink
	Store     logging.LogStore
	Log       logger.Logger
	BusBuffer int
}

// Service runs the dispatch pipeline.
type Service struct {
	capacity  *capacity.Builder
	cost      *cost.Builder
	estimator demand.Estimator
	solver    *dispatch.Solver
	reportCfg report.Config

	source grid.Source
	sink   coremetrics.MetricsSink
	store  logging.LogStore
	bus    *eventbus.TypedBus[Outcome]
	log    logger.Logger
	now    func() time.Time
}

// New builds a Service from the policy sections of cfg.
func New(cfg *config.Config, opts Options) *Service {
	log := logger.OrNop(opts.Log)
	sink := opts.Sink
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Service{
		capacity:  capacity.NewBuilder(cfg.Capacity, log),
		cost:      cost.NewBuilder(cfg.Cost, log),
		estimator: demand.NewEstimator(cfg.Demand),
		solver:    dispatch.NewSolver(cfg.Dispatch, log),
		reportCfg: cfg.Report,
		source:    opts.Source,
		sink:      sink,
		store:     opts.Store,
		bus:       eventbus.NewTyped[Outcome](opts.BusBuffer),
		log:       log,
		now:       time.Now,
	}
}

// Evaluate runs the pipeline over obs without recording anything.
func (s *Service) Evaluate(obs model.Observations, ov Overrides) (Outcome, error) {
	estimator := s.estimator
	if ov.UtilizationFactor != nil {
		dc := demand.Config{UtilizationFactor: *ov.UtilizationFactor}
		if err := dc.Validate(); err != nil {
			return Outcome{}, fmt.Errorf("scenario %q: %w", ov.Scenario, err)
		}
		estimator = demand.NewEstimator(dc)
	}
	price := obs.MarketPrice
	if ov.MarketPrice != nil {
		price = ov.MarketPrice
	}

	snapshot := s.capacity.Build(obs.Primary, obs.Secondary)
	costs := s.cost.Build(price)
	req := dispatch.Request{
		Capacity: snapshot,
		Cost:     costs.Costs,
		DemandMW: estimator.Estimate(snapshot),
	}
	res := s.solver.Solve(req)

	ts := obs.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	return Outcome{
		RunID:        uuid.New(),
		Scenario:     ov.Scenario,
		Timestamp:    ts.UTC(),
		Observations: obs,
		Cost:         costs,
		Request:      req,
		Result:       res,
		Report:       report.Summarize(res, s.reportCfg),
	}, nil
}

// Record persists out to the log store and sinks and publishes it to
// subscribers. Every failing recorder is reported.
func (s *Service) Record(ctx context.Context, out Outcome) error {
	var result *multierror.Error
	if s.store != nil {
		rec := logging.NewRecord(out.RunID, out.Timestamp, out.Request, out.Result, out.AnchorPrice())
		if err := s.store.Append(ctx, rec); err != nil {
			result = multierror.Append(result, fmt.Errorf("log store: %w", err))
		}
	}
	ev := coremetrics.NewDispatchEvent(out.RunID.String(), out.Timestamp, out.Result, out.Report, out.AnchorPrice())
	ev.Scenario = out.Scenario
	if err := s.sink.RecordDispatch(ev); err != nil {
		result = multierror.Append(result, fmt.Errorf("metrics sink: %w", err))
	}
	s.bus.Publish(out)

	err := result.ErrorOrNil()
	if err != nil {
		s.log.Errorf("record run %s: %v", out.RunID, err)
		monitoring.Capture("service", err)
	}
	return err
}

// RunOnce fetches one observation slice, dispatches it and records the
// outcome. A recording failure is returned together with the outcome.
func (s *Service) RunOnce(ctx context.Context) (Outcome, error) {
	if s.source == nil {
		return Outcome{}, ErrNoSource
	}
	obs, err := s.source.Fetch(ctx)
	if err != nil {
		monitoring.Capture("source", err)
		return Outcome{}, fmt.Errorf("fetch observations: %w", err)
	}
	if obs.Empty() {
		s.log.Warnf("source returned no capacity readings")
	}
	out, err := s.Evaluate(obs, Overrides{})
	if err != nil {
		return Outcome{}, err
	}
	s.log.Infof("run %s: status=%s demand=%.1fMW cost=%.2f", out.RunID, out.Result.Status,
		out.Result.EffectiveDemandMW, out.Result.TotalCost)
	return out, s.Record(ctx, out)
}

// Run dispatches one slice immediately and then once per interval until ctx
// is canceled. Failed ticks are logged and do not stop the loop.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.RunOnce(ctx); err != nil {
			if errors.Is(err, ErrNoSource) {
				return err
			}
			s.log.Errorf("dispatch tick: %v", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Subscribe returns a channel receiving every recorded outcome.
func (s *Service) Subscribe() <-chan Outcome { return s.bus.Subscribe() }

// Unsubscribe releases a channel obtained from Subscribe.
func (s *Service) Unsubscribe(ch <-chan Outcome) { s.bus.Unsubscribe(ch) }

// Close closes the bus, the sinks and the log store.
func (s *Service) Close() error {
	s.bus.Close()
	var result *multierror.Error
	if err := coremetrics.CloseSink(s.sink); err != nil {
		result = multierror.Append(result, err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

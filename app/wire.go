package app

import (
	"fmt"

	"github.com/kilianp07/gridmix/config"
	"github.com/kilianp07/gridmix/connectors/grid"
	"github.com/kilianp07/gridmix/core/dispatch/logging"
	coremetrics "github.com/kilianp07/gridmix/core/metrics"
	"github.com/kilianp07/gridmix/infra/logger"
	_ "github.com/kilianp07/gridmix/infra/metrics" // registers sink factories
)

// FromConfig builds the source, sinks and log store named in cfg and
// returns a Service owning them.
func FromConfig(cfg *config.Config) (*Service, error) {
	src, err := grid.New(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	var store logging.LogStore
	if cfg.Logging.Enabled() {
		store, err = cfg.Logging.Open()
		if err != nil {
			_ = coremetrics.CloseSink(sink)
			return nil, fmt.Errorf("dispatch log: %w", err)
		}
	}
	return New(cfg, Options{
		Source:    src,
		Sink:      sink,
		Store:     store,
		Log:       logger.New("service"),
		BusBuffer: cfg.Serve.BusBuffer,
	}), nil
}

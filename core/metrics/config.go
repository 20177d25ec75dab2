package metrics

import "github.com/kilianp07/gridmix/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr, when set, serves /metrics on this address in serve mode.
	PrometheusAddr string `json:"prometheus_addr"`
}

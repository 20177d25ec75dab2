package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/gridmix/core/factory"
	coremetrics "github.com/kilianp07/gridmix/core/metrics"
	"github.com/kilianp07/gridmix/infra/mqtt"
)

var newMQTTPublisher = func(cfg mqtt.Config) (Publisher, error) {
	return mqtt.NewPublisher(cfg)
}

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})

	_ = coremetrics.RegisterMetricsSink("mqtt", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c mqtt.Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		var t struct {
			Topic string `json:"topic"`
		}
		if err := factory.Decode(conf, &t); err != nil {
			return nil, err
		}
		pub, err := newMQTTPublisher(c)
		if err != nil {
			return nil, err
		}
		return NewMQTTSink(pub, t.Topic), nil
	})
}

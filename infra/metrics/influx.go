package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/gridmix/core/metrics"
	"github.com/kilianp07/gridmix/core/model"
	"github.com/kilianp07/gridmix/infra/logger"
)

// InfluxConfig holds the InfluxDB v2 connection settings.
type InfluxConfig struct {
	URL     string        `json:"url"`
	Token   string        `json:"token"`
	Org     string        `json:"org"`
	Bucket  string        `json:"bucket"`
	Timeout time.Duration `json:"timeout"`
}

// InfluxSink writes dispatch runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	timeout  time.Duration
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		timeout:  cfg.Timeout,
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), sink.timeout)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordDispatch writes one dispatch_allocation point per dispatched fuel and
// a dispatch_run summary point.
func (s *InfluxSink) RecordDispatch(ev coremetrics.DispatchEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	points := runPoints(ev)
	if err := s.writeAPI.WritePoint(ctx, points...); err != nil {
		s.log.Errorf("influx write %s: %v", ev.RunID, err)
		return err
	}
	return nil
}

// Close releases the client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func runPoints(ev coremetrics.DispatchEvent) []*write.Point {
	fuels := make([]model.FuelType, 0, len(ev.Allocation))
	for f := range ev.Allocation {
		fuels = append(fuels, f)
	}
	model.SortFuels(fuels)
	points := make([]*write.Point, 0, len(fuels)+1)
	for _, f := range fuels {
		p := write.NewPointWithMeasurement("dispatch_allocation").
			AddTag("run_id", ev.RunID).
			AddTag("fuel", f.String()).
			AddField("mw", round3(ev.Allocation[f])).
			SetTime(ev.Time)
		points = append(points, p)
	}
	run := write.NewPointWithMeasurement("dispatch_run").
		AddTag("run_id", ev.RunID).
		AddTag("status", string(ev.Status)).
		AddTag("degraded", strconv.FormatBool(ev.Degraded()))
	if ev.Scenario != "" {
		run = run.AddTag("scenario", ev.Scenario)
	}
	run = run.AddField("requested_mw", round3(ev.RequestedDemandMW)).
		AddField("effective_mw", round3(ev.EffectiveDemandMW)).
		AddField("total_cost", round3(ev.TotalCost)).
		AddField("avg_cost", round3(ev.AverageCostPerMWh)).
		AddField("renewable_pct", round3(ev.RenewablePct)).
		AddField("excluded", len(ev.Excluded))
	if ev.AnchorPrice != nil {
		run = run.AddField("anchor_price", round3(*ev.AnchorPrice))
	}
	points = append(points, run.SetTime(ev.Time))
	return points
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

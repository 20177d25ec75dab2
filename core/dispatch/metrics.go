package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	solveDuration prometheus.Histogram
	solveResults  *prometheus.CounterVec
	excludedFuels *prometheus.CounterVec
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Histogram, *prometheus.CounterVec, *prometheus.CounterVec) {
	dur := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_solve_duration_seconds",
		Help:    "Time spent computing a merit-order dispatch",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	})
	res := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_solve_results_total",
		Help: "Number of dispatch solutions by status",
	}, []string{"status"})
	exc := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_excluded_fuels_total",
		Help: "Fuels excluded from dispatch by reason",
	}, []string{"reason"})
	return dur, res, exc
}

func init() {
	solveDuration, solveResults, excludedFuels = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers solver metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(solveDuration, solveResults, excludedFuels)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	solveDuration, solveResults, excludedFuels = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}

func observe(res Result, d time.Duration) {
	solveDuration.Observe(d.Seconds())
	solveResults.WithLabelValues(string(res.Status)).Inc()
	for _, e := range res.Excluded {
		excludedFuels.WithLabelValues(string(e.Reason)).Inc()
	}
}

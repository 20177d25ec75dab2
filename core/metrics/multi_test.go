package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridmix/core/dispatch"
	"github.com/kilianp07/gridmix/core/model"
	"github.com/kilianp07/gridmix/core/report"
)

type recordSink struct {
	events []DispatchEvent
	err    error
	closed bool
}

func (r *recordSink) RecordDispatch(ev DispatchEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordSink) Close() error {
	r.closed = true
	return nil
}

func TestMultiSink_ForwardsAndCombinesErrors(t *testing.T) {
	s1 := &recordSink{err: errors.New("influx down")}
	s2 := &recordSink{}
	m := NewMultiSink(s1, NopSink{}, s2)

	err := m.RecordDispatch(DispatchEvent{RunID: "r1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "influx down")
	assert.Len(t, s1.events, 1)
	assert.Len(t, s2.events, 1)

	require.NoError(t, m.Close())
	assert.True(t, s1.closed)
	assert.True(t, s2.closed)
}

func TestNewDispatchEvent(t *testing.T) {
	res := dispatch.Result{
		Status:            dispatch.StatusDegraded,
		RequestedDemandMW: 2000,
		EffectiveDemandMW: 800,
		Allocation:        map[model.FuelType]float64{model.FuelWind: 800},
		TotalCost:         4000,
		Excluded:          []dispatch.Exclusion{{Fuel: model.FuelCoal, Reason: dispatch.ReasonMissingCost}},
	}
	m := report.Metrics{CapacityMW: 1000, AverageCostPerMWh: 5, RenewablePct: 100}
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ev := NewDispatchEvent("run", ts, res, m, nil)

	assert.True(t, ev.Degraded())
	assert.Equal(t, 1000.0, ev.CapacityMW)
	assert.Equal(t, 100.0, ev.RenewablePct)
	assert.Len(t, ev.Excluded, 1)

	ev.Allocation[model.FuelWind] = 1
	assert.Equal(t, 800.0, res.Allocation[model.FuelWind])
}

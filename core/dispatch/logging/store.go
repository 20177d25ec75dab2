package logging

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/gridmix/core/dispatch"
	"github.com/kilianp07/gridmix/core/model"
)

// LogRecord captures one dispatch request and its result.
type LogRecord struct {
	RunID       uuid.UUID        `json:"run_id"`
	Timestamp   time.Time        `json:"timestamp"`
	Request     dispatch.Request `json:"request"`
	Result      dispatch.Result  `json:"result"`
	AnchorPrice *float64         `json:"anchor_price,omitempty"`
}

// NewRecord builds the record for one run. A nil run id is replaced with a
// fresh one.
func NewRecord(runID uuid.UUID, ts time.Time, req dispatch.Request, res dispatch.Result, anchor *float64) LogRecord {
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	return LogRecord{
		RunID:       runID,
		Timestamp:   ts.UTC(),
		Request:     req,
		Result:      res,
		AnchorPrice: anchor,
	}
}

// LogQuery defines filters for retrieving records. Zero values match all.
type LogQuery struct {
	Start  time.Time
	End    time.Time
	Status dispatch.Status
	// Fuel keeps records whose allocation dispatched this fuel.
	Fuel model.FuelType
}

func (q LogQuery) matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Status != "" && r.Result.Status != q.Status {
		return false
	}
	if q.Fuel != "" {
		if mw, ok := r.Result.Allocation[q.Fuel]; !ok || mw <= 0 {
			return false
		}
	}
	return true
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

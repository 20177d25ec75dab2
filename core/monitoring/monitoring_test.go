package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordMonitor struct {
	errs    []error
	tags    map[string]string
	flushed bool
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = tags
}
func (r *recordMonitor) Recover()            {}
func (r *recordMonitor) Flush(time.Duration) { r.flushed = true }

func TestCapture(t *testing.T) {
	rec := &recordMonitor{}
	Init(rec)
	t.Cleanup(func() { Init(NopMonitor{}) })

	Init(nil)
	Capture("source", errors.New("fetch failed"))
	CaptureException(nil, nil)
	Flush(time.Second)

	assert.Len(t, rec.errs, 1)
	assert.Equal(t, "source", rec.tags["component"])
	assert.True(t, rec.flushed)
}

package metrics

import "github.com/hashicorp/go-multierror"

// MultiSink fans dispatch events out to multiple sinks. A failing sink does
// not stop delivery to the others.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDispatch forwards ev to every sink and returns the combined errors.
func (m *MultiSink) RecordDispatch(ev DispatchEvent) error {
	var result *multierror.Error
	for _, s := range m.Sinks {
		if err := s.RecordDispatch(ev); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Close closes every sink that holds a connection.
func (m *MultiSink) Close() error {
	var result *multierror.Error
	for _, s := range m.Sinks {
		if c, ok := s.(Closer); ok {
			if err := c.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}

// CloseSink closes s when it holds a connection.
func CloseSink(s MetricsSink) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}

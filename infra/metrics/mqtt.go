package metrics

import (
	"encoding/json"
	"fmt"

	coremetrics "github.com/kilianp07/gridmix/core/metrics"
)

// DefaultMQTTTopic is used when the sink config names no topic.
const DefaultMQTTTopic = "gridmix/dispatch"

// Publisher is the subset of the MQTT client used by MQTTSink.
type Publisher interface {
	Publish(topic string, payload []byte) error
	Close() error
}

// MQTTSink publishes each dispatch event as JSON for presentation clients.
type MQTTSink struct {
	pub   Publisher
	topic string
}

// NewMQTTSink wraps pub. An empty topic falls back to DefaultMQTTTopic.
func NewMQTTSink(pub Publisher, topic string) *MQTTSink {
	if topic == "" {
		topic = DefaultMQTTTopic
	}
	return &MQTTSink{pub: pub, topic: topic}
}

// RecordDispatch publishes ev on the sink topic.
func (s *MQTTSink) RecordDispatch(ev coremetrics.DispatchEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode dispatch event: %w", err)
	}
	return s.pub.Publish(s.topic, payload)
}

// Close disconnects the publisher.
func (s *MQTTSink) Close() error { return s.pub.Close() }

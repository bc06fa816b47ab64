package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/platform/circuit"
)

// Producer is the subset of *kgo.Client the sink needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaSink writes events as JSON records keyed by blood request id, so all
// events for one request land on the same partition in order.
type KafkaSink struct {
	producer Producer
	topic    string
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewKafkaSink(producer Producer, topic string, logger *slog.Logger) *KafkaSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaSink{
		producer: producer,
		topic:    topic,
		breaker:  circuit.New("kafka-events", circuit.WithFailureThreshold(3), circuit.WithSuccessThreshold(1)),
		logger:   logger,
	}
}

func (s *KafkaSink) Write(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	rec := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(e.RequestID.String()),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	}
	if err := s.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		if _, change := s.breaker.RecordFailure(); change.Opened {
			s.logger.WarnContext(ctx, "event stream unavailable", "topic", s.topic, "error", err)
		}
		return fmt.Errorf("produce event: %w", err)
	}
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "event stream recovered", "topic", s.topic)
	}
	return nil
}

// Healthy reports whether recent deliveries succeeded.
func (s *KafkaSink) Healthy() bool {
	return !s.breaker.IsOpen()
}

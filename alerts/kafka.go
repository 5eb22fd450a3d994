package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the sink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink publishes alerts as JSON, keyed by kind so each kind stays
// ordered within its partition.
type KafkaSink struct {
	writer MessageWriter
	topic  string
}

// NewKafkaSink takes the topic separately for writers without a default
// topic; pass "" when the writer has one.
func NewKafkaSink(writer MessageWriter, topic string) *KafkaSink {
	return &KafkaSink{writer: writer, topic: topic}
}

func (s *KafkaSink) Name() string {
	return "kafka"
}

func (s *KafkaSink) Deliver(ctx context.Context, alert Alert) error {
	value, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encode alert %s: %w", alert.ID, err)
	}
	msg := kafka.Message{
		Topic: s.topic,
		Key:   []byte(alert.Kind),
		Value: value,
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write alert %s: %w", alert.ID, err)
	}
	return nil
}

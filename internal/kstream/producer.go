package kstream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"catalog-backend/internal/model"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Writer constructs a Kafka producer using segmentio/kafka-go.
// kafka.Writer batches messages and retries on its own.
func Writer(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(broker),   // segmentio/kafka-go: TCP address for Kafka broker
		Topic:        topic,               // Target Kafka topic name
		Balancer:     &kafka.LeastBytes{}, // segmentio/kafka-go: Partition selection strategy
		RequiredAcks: kafka.RequireOne,    // segmentio/kafka-go: Wait for leader ack only
		Async:        true,                // segmentio/kafka-go: Non-blocking writes
	}
}

// LeadPublisher writes LeadSubmitted events.
type LeadPublisher struct {
	w MessageWriter
}

// NewLeadPublisher wraps w.
func NewLeadPublisher(w MessageWriter) *LeadPublisher {
	return &LeadPublisher{w: w}
}

// PublishLead sends evt keyed by screen so one screen's leads stay ordered.
func (p *LeadPublisher) PublishLead(ctx context.Context, evt model.LeadSubmitted) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("kstream: encode lead: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.Screen),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kstream: publish lead: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *LeadPublisher) Close() error {
	return p.w.Close()
}

package kstream

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"catalog-backend/internal/model"
)

// MessageReader is the part of *kafka.Reader the consumer loop needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// SnapshotReader creates a Kafka consumer for the snapshot topic.
// It reads without a consumer group from the first offset, so every process
// replays the (compacted) topic and ends up with the latest snapshot per path.
func SnapshotReader(broker, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker}, // segmentio/kafka-go: Kafka broker addresses
		Topic:       topic,            // segmentio/kafka-go: Topic to consume from
		Partition:   0,                // single-partition topic, keyed by path
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    104857600, // segmentio/kafka-go: Max bytes per message (100MB) for large catalogs
		MaxWait:     time.Second,
	})
}

// ConsumeSnapshots reads messages until ctx ends or the reader fails, handing
// each one to fn. Messages without a key carry no path and are dropped.
// It returns nil when ctx was cancelled.
func ConsumeSnapshots(ctx context.Context, r MessageReader, fn func(model.SnapshotMessage)) error {
	for {
		// segmentio/kafka-go: ReadMessage blocks until a message is available.
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("kstream: read snapshot: %w", err)
		}
		if len(msg.Key) == 0 {
			continue
		}
		fn(model.SnapshotMessage{Path: string(msg.Key), Value: msg.Value})
	}
}

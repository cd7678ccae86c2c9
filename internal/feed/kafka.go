package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"catalog-backend/internal/ingest"
	"catalog-backend/internal/kstream"
	"catalog-backend/internal/model"
)

// KafkaSubscriber fans snapshot messages from one topic out to per-path
// handlers. The latest value of every path is kept so late subscribers get
// it immediately.
//
// Handlers run under the subscriber lock and must not call Subscribe.
type KafkaSubscriber struct {
	reader kstream.MessageReader
	logger *zap.Logger

	mu       sync.Mutex
	nextID   int
	handlers map[string]map[int]Handler
	last     map[string]any
}

// NewKafkaSubscriber creates a subscriber over reader. Run must be called for
// messages to flow.
func NewKafkaSubscriber(reader kstream.MessageReader, logger *zap.Logger) *KafkaSubscriber {
	return &KafkaSubscriber{
		reader:   reader,
		logger:   logger,
		handlers: make(map[string]map[int]Handler),
		last:     make(map[string]any),
	}
}

// Run consumes the topic until ctx ends.
func (s *KafkaSubscriber) Run(ctx context.Context) error {
	s.logger.Info("feed: consuming snapshots from kafka")
	return kstream.ConsumeSnapshots(ctx, s.reader, s.dispatch)
}

// Close closes the underlying reader.
func (s *KafkaSubscriber) Close() error {
	return s.reader.Close()
}

// Subscribe implements Subscriber.
func (s *KafkaSubscriber) Subscribe(_ context.Context, path string, h Handler) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if s.handlers[path] == nil {
		s.handlers[path] = make(map[int]Handler)
	}
	s.handlers[path][id] = h
	if raw, ok := s.last[path]; ok {
		h(raw)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers[path], id)
	}, nil
}

func (s *KafkaSubscriber) dispatch(msg model.SnapshotMessage) {
	raw, err := ingest.DecodeJSON(msg.Value)
	if err != nil {
		s.logger.Warn("feed: dropping undecodable snapshot", zap.String("path", msg.Path), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[msg.Path] = raw
	for _, h := range s.handlers[msg.Path] {
		h(raw)
	}
}

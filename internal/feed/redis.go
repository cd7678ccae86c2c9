package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"catalog-backend/internal/ingest"
)

// KeyFor is the Redis key that stores the JSON snapshot of path.
func KeyFor(path string) string {
	return "feed:" + path
}

// ChannelFor is the pub/sub channel that announces changes to path.
func ChannelFor(path string) string {
	return "feed:changed:" + path
}

// getter is the slice of the Redis client used to read snapshots.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSubscriber reads snapshots stored as JSON strings and re-reads them
// whenever a message arrives on the path's change channel.
type RedisSubscriber struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRedisSubscriber creates a subscriber backed by rdb.
func NewRedisSubscriber(rdb *redis.Client, logger *zap.Logger) *RedisSubscriber {
	return &RedisSubscriber{rdb: rdb, logger: logger}
}

// Subscribe implements Subscriber. The channel subscription is confirmed
// before the first read so no change between the two is lost.
func (s *RedisSubscriber) Subscribe(ctx context.Context, path string, h Handler) (func(), error) {
	// redis/go-redis/v9: Subscribe opens a dedicated pub/sub connection;
	// Receive waits for the subscription confirmation.
	ps := s.rdb.Subscribe(ctx, ChannelFor(path))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("feed: subscribe %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.deliver(ctx, s.rdb, path, h)
		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				s.deliver(ctx, s.rdb, path, h)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			_ = ps.Close()
			wg.Wait()
		})
	}, nil
}

func (s *RedisSubscriber) deliver(ctx context.Context, g getter, path string, h Handler) {
	raw, err := fetch(ctx, g, path)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("feed: snapshot read failed", zap.String("path", path), zap.Error(err))
		}
		return
	}
	h(raw)
}

// fetch reads and decodes the snapshot of path. A missing key is a nil
// snapshot, not an error.
func fetch(ctx context.Context, g getter, path string) (any, error) {
	data, err := g.Get(ctx, KeyFor(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ingest.DecodeJSON(data)
}

// Package dedupe guards against the same lead being submitted twice in a
// short window.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// keyPrefix namespaces guard keys in Redis.
const keyPrefix = "catalog:leads:"

// setter is the slice of the Redis client the guard uses.
type setter interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Guard remembers submission fingerprints for ttl.
type Guard struct {
	rdb    setter
	ttl    time.Duration
	logger *zap.Logger
}

// NewGuard creates a guard backed by rdb.
func NewGuard(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Guard {
	return newGuard(rdb, ttl, logger)
}

func newGuard(rdb setter, ttl time.Duration, logger *zap.Logger) *Guard {
	return &Guard{rdb: rdb, ttl: ttl, logger: logger}
}

// Fingerprint hashes the parts of a submission into a fixed-size key.
func Fingerprint(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Seen reports whether key was already recorded within the TTL, recording it
// otherwise. When Redis is unavailable it logs and reports false so
// submissions are never blocked by the guard.
func (g *Guard) Seen(ctx context.Context, key string) bool {
	if g == nil || g.rdb == nil {
		return false
	}
	// redis/go-redis/v9: SetNX only writes when the key is absent; the TTL
	// lets the fingerprint expire on its own.
	ok, err := g.rdb.SetNX(ctx, keyPrefix+key, 1, g.ttl).Result()
	if err != nil {
		g.logger.Warn("dedupe: SETNX failed", zap.Error(err))
		return false
	}
	return !ok
}

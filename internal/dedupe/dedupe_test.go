package dedupe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRedis struct {
	keys map[string]time.Duration
	err  error
}

func (f *fakeRedis) SetNX(_ context.Context, key string, _ interface{}, ttl time.Duration) *redis.BoolCmd {
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func TestGuard_Seen(t *testing.T) {
	f := &fakeRedis{keys: map[string]time.Duration{}}
	g := newGuard(f, time.Minute, zap.NewNop())
	ctx := context.Background()

	key := Fingerprint("service", "https://wa.me/1?text=hi")
	assert.False(t, g.Seen(ctx, key))
	assert.True(t, g.Seen(ctx, key))
	assert.Equal(t, time.Minute, f.keys[keyPrefix+key])

	assert.False(t, g.Seen(ctx, Fingerprint("service", "https://wa.me/1?text=other")))
}

func TestGuard_FailsOpen(t *testing.T) {
	g := newGuard(&fakeRedis{err: errors.New("down")}, time.Minute, zap.NewNop())
	assert.False(t, g.Seen(context.Background(), "k"))

	var nilGuard *Guard
	assert.False(t, nilGuard.Seen(context.Background(), "k"))
}

func TestFingerprint(t *testing.T) {
	assert.NotEqual(t, Fingerprint("ab", "c"), Fingerprint("a", "bc"))
	assert.Len(t, Fingerprint("x"), 64)
}

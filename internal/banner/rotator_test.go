package banner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"catalog-backend/internal/model"
)

func banners(n int) []model.Banner {
	out := make([]model.Banner, n)
	for i := range out {
		out[i] = model.Banner{ID: string(rune('a' + i)), URL: "https://img/" + string(rune('a'+i))}
	}
	return out
}

func TestAdvance_Wraps(t *testing.T) {
	r := NewRotator(0)
	assert.Equal(t, DefaultInterval, r.interval)

	r.Advance()
	_, _, ok := r.Current()
	assert.False(t, ok)

	r.SetBanners(banners(3))
	for _, want := range []int{1, 2, 0} {
		r.Advance()
		idx, b, ok := r.Current()
		assert.True(t, ok)
		assert.Equal(t, want, idx)
		assert.Equal(t, banners(3)[want], b)
	}
}

func TestSetBanners_ResetsOutOfRange(t *testing.T) {
	r := NewRotator(time.Second)
	r.SetBanners(banners(3))
	r.Advance()
	r.Advance()

	r.SetBanners(banners(5))
	idx, _, _ := r.Current()
	assert.Equal(t, 2, idx)

	r.SetBanners(banners(2))
	idx, _, _ = r.Current()
	assert.Equal(t, 0, idx)
}

func TestRun_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := NewRotator(5 * time.Millisecond)
	r.SetBanners(banners(2))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		idx, _, _ := r.Current()
		return idx == 1
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// Package banner auto-advances a screen's banner carousel.
package banner

import (
	"context"
	"sync"
	"time"

	"catalog-backend/internal/model"
)

// DefaultInterval is the carousel advance period.
const DefaultInterval = 3 * time.Second

// Rotator tracks the current banner of a carousel.
type Rotator struct {
	interval time.Duration

	mu      sync.RWMutex
	banners []model.Banner
	current int
}

// NewRotator creates a rotator advancing every interval (DefaultInterval when
// interval <= 0).
func NewRotator(interval time.Duration) *Rotator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Rotator{interval: interval}
}

// SetBanners replaces the banner list. The current index is kept when still
// in range and reset to zero otherwise.
func (r *Rotator) SetBanners(banners []model.Banner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.banners = banners
	if r.current >= len(banners) {
		r.current = 0
	}
}

// Advance moves to the next banner, wrapping around. No-op without banners.
func (r *Rotator) Advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.banners) == 0 {
		return
	}
	r.current = (r.current + 1) % len(r.banners)
}

// Current returns the current index and banner; ok is false without banners.
func (r *Rotator) Current() (int, model.Banner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.banners) == 0 {
		return 0, model.Banner{}, false
	}
	return r.current, r.banners[r.current], true
}

// Banners returns the current banner list.
func (r *Rotator) Banners() []model.Banner {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.banners
}

// Run advances the carousel every interval until ctx is cancelled.
func (r *Rotator) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Advance()
		}
	}
}

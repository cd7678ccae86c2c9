// Package feed subscribes to realtime snapshot sources and keeps the latest
// snapshot of each path in memory.
//
// A source delivers the full value of a path every time it changes. Handlers
// for one subscription are never called concurrently.
package feed

import (
	"context"
	"sync/atomic"
	"time"
)

// Handler receives a full snapshot: nil when the path holds nothing,
// otherwise the decoded JSON value.
type Handler func(raw any)

// Subscriber is a realtime snapshot source.
type Subscriber interface {
	// Subscribe delivers the current value of path (when the source has one)
	// and then every replacement until unsubscribe is called or ctx ends.
	Subscribe(ctx context.Context, path string, h Handler) (unsubscribe func(), err error)
}

// Value holds the latest snapshot of type T. Replacement swaps the whole
// value; readers see either the old or the new one, never a mix.
type Value[T any] struct {
	p       atomic.Pointer[T]
	version atomic.Uint64
	updated atomic.Int64
}

// Replace stores v as the current snapshot.
func (s *Value[T]) Replace(v T) {
	s.p.Store(&v)
	s.updated.Store(time.Now().UnixNano())
	s.version.Add(1)
}

// Load returns the current snapshot, or the zero value before the first push.
func (s *Value[T]) Load() T {
	if p := s.p.Load(); p != nil {
		return *p
	}
	var zero T
	return zero
}

// Version counts replacements.
func (s *Value[T]) Version() uint64 {
	return s.version.Load()
}

// UpdatedAt is the time of the last replacement, zero before the first.
func (s *Value[T]) UpdatedAt() time.Time {
	n := s.updated.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

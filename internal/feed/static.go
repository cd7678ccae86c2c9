package feed

import (
	"context"
	"strconv"
	"strings"
)

// StaticSubscriber serves paths out of one decoded document, such as a
// database export loaded from disk. Each subscription is delivered exactly
// once, synchronously.
type StaticSubscriber struct {
	root any
}

// NewStaticSubscriber creates a subscriber over root.
func NewStaticSubscriber(root any) *StaticSubscriber {
	return &StaticSubscriber{root: root}
}

// Subscribe implements Subscriber.
func (s *StaticSubscriber) Subscribe(_ context.Context, path string, h Handler) (func(), error) {
	h(Lookup(s.root, path))
	return func() {}, nil
}

// Lookup walks a slash-separated path through nested objects and arrays.
// Missing segments yield nil.
func Lookup(root any, path string) any {
	cur := root
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		switch v := cur.(type) {
		case map[string]any:
			cur = v[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(v) {
				return nil
			}
			cur = v[i]
		default:
			return nil
		}
	}
	return cur
}

package cache

import (
	"context"
	"time"
)

// Layered reads through an ordered list of caches (fastest first) and
// backfills earlier layers on a hit. Writes go to every layer; a layer
// failure does not stop the others.
type Layered struct {
	layers []Cache
}

// NewLayered composes caches into a read-through hierarchy.
func NewLayered(layers ...Cache) *Layered {
	return &Layered{layers: layers}
}

func (c *Layered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	for i, l := range c.layers {
		v, ok, err := l.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		// backfill faster layers with a short TTL; the authoritative
		// expiry lives in the layer that answered
		for j := 0; j < i; j++ {
			_ = c.layers[j].Set(ctx, key, v, time.Minute)
		}
		return v, true, nil
	}
	return nil, false, nil
}

func (c *Layered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var firstErr error
	for _, l := range c.layers {
		if err := l.Set(ctx, key, value, ttl); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *Layered) Delete(ctx context.Context, key string) error {
	var firstErr error
	for _, l := range c.layers {
		if err := l.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

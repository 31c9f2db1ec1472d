package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented TTL cache. Get reports a miss with
// found=false; an error means the backend itself failed.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

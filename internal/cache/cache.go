package cache

import (
	"context"
	"time"
)

// Cache is a best-effort string store with per-entry expiry. Lookups that
// fail for any reason behave as misses; callers must be able to recompute
// every value.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Close() error
}

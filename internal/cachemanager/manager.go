// Package cachemanager provides a small TTL cache used to memoize
// per-path gate decisions. Request-scoped data (the catalog) is never
// cached here; only derived facts that are stable across requests.
package cachemanager

import (
	"context"
	"time"
)

type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}

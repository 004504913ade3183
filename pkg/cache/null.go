package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. The CLI uses it for --no-cache and whenever the
// cache directory cannot be opened, so every layout is computed fresh.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return &NullCache{} }

// Get reports a miss.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

// Clear matches [FileCache.Clear]; there is never anything to remove.
func (*NullCache) Clear() (int, error) { return 0, nil }

func (*NullCache) Close() error { return nil }

// Package cache stores computed layouts so repeated runs over the same
// document skip the layout engine.
//
// Entries are opaque byte slices addressed by string keys. Keys come from a
// [Keyer], which hashes every input that influences the result: the sized
// node set, the edges, the engine name and its spacing options.
//
// Two backends are provided: [FileCache] for the CLI, and [NullCache] when
// caching is disabled.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// LayoutTTL is how long computed layouts are kept.
const LayoutTTL = 30 * 24 * time.Hour

// LayoutKeyOpts holds the engine settings that influence a layout result.
type LayoutKeyOpts struct {
	Engine  string  `json:"engine"`
	NodeSep float64 `json:"node_sep"`
	RankSep float64 `json:"rank_sep"`
	MarginX float64 `json:"margin_x"`
	MarginY float64 `json:"margin_y"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the input with the given hash.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256 of hash and options>".
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

package layout

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/lineageview/pkg/cache"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/observability"
)

// CachedEngine memoizes an Engine through a cache. Cache failures are
// treated as misses; a failed write does not fail the layout.
type CachedEngine struct {
	inner Engine
	store cache.Cache
	keyer cache.Keyer
}

// NewCachedEngine wraps inner. A nil keyer uses [cache.NewDefaultKeyer].
func NewCachedEngine(inner Engine, store cache.Cache, keyer cache.Keyer) *CachedEngine {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedEngine{inner: inner, store: store, keyer: keyer}
}

// Name returns the wrapped engine's name.
func (c *CachedEngine) Name() string { return c.inner.Name() }

// ComputeLayout returns the cached result for this input if present,
// otherwise computes and stores it.
func (c *CachedEngine) ComputeLayout(ctx context.Context, nodes []SizedNode, edges []EdgeRef, cfg Config) (map[string]geom.Point, error) {
	key, err := c.key(nodes, edges, cfg)
	if err != nil {
		return c.inner.ComputeLayout(ctx, nodes, edges, cfg)
	}

	if data, ok, err := c.store.Get(ctx, key); err == nil && ok {
		var centers map[string]geom.Point
		if json.Unmarshal(data, &centers) == nil && len(centers) == len(nodes) {
			observability.Cache().OnCacheHit(ctx, "layout")
			return centers, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	centers, err := c.inner.ComputeLayout(ctx, nodes, edges, cfg)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(centers); err == nil {
		if c.store.Set(ctx, key, data, cache.LayoutTTL) == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return centers, nil
}

func (c *CachedEngine) key(nodes []SizedNode, edges []EdgeRef, cfg Config) (string, error) {
	hash, err := cache.HashJSON(struct {
		Nodes []SizedNode `json:"nodes"`
		Edges []EdgeRef   `json:"edges"`
	}{nodes, edges})
	if err != nil {
		return "", err
	}
	return c.keyer.LayoutKey(hash, cache.LayoutKeyOpts{
		Engine:  c.inner.Name(),
		NodeSep: cfg.NodeSep,
		RankSep: cfg.RankSep,
		MarginX: cfg.MarginX,
		MarginY: cfg.MarginY,
	}), nil
}

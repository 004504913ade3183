package layout

import (
	"context"

	"github.com/matzehuels/lineageview/pkg/geom"
)

// SizedNode is a node reduced to what a layout engine needs.
type SizedNode struct {
	ID     string  `json:"id"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// EdgeRef is a directed edge reduced to its endpoints.
type EdgeRef struct {
	Source string `json:"s"`
	Target string `json:"t"`
}

// Config holds spacing parameters shared by all engines, in graph units.
type Config struct {
	NodeSep float64 // gap between nodes in the same rank
	RankSep float64 // gap between adjacent ranks
	MarginX float64
	MarginY float64
}

// DefaultConfig returns the reference spacing: nodesep 60, ranksep 180,
// margins 60.
func DefaultConfig() Config {
	return Config{NodeSep: 60, RankSep: 180, MarginX: 60, MarginY: 60}
}

// Engine computes node centers for a left-to-right layered layout.
//
// Implementations must rank every edge source strictly left of its target
// (after breaking cycles), keep node boxes disjoint, and return identical
// results for identical input. The returned map has one entry per input node.
type Engine interface {
	// Name identifies the engine in logs and cache keys.
	Name() string

	ComputeLayout(ctx context.Context, nodes []SizedNode, edges []EdgeRef, cfg Config) (map[string]geom.Point, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc struct {
	ID string
	Fn func(ctx context.Context, nodes []SizedNode, edges []EdgeRef, cfg Config) (map[string]geom.Point, error)
}

// Name returns f.ID.
func (f EngineFunc) Name() string { return f.ID }

// ComputeLayout calls f.Fn.
func (f EngineFunc) ComputeLayout(ctx context.Context, nodes []SizedNode, edges []EdgeRef, cfg Config) (map[string]geom.Point, error) {
	return f.Fn(ctx, nodes, edges, cfg)
}

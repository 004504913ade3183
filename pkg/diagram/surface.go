package diagram

import (
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/layout"
	"github.com/matzehuels/lineageview/pkg/lineage"
)

// DefaultViewportSize is the canvas size of a StaticSurface when none is set.
var DefaultViewportSize = geom.Size{Width: 1280, Height: 800}

// StaticSurface is a headless rendering surface. Node sizes are the layout
// estimates for the current expansion state and column ports sit on the row
// centers of expanded tables. It has no size transitions.
type StaticSurface struct {
	graph     *lineage.Graph
	size      geom.Size
	transform func() geom.Transform
}

// NewStaticSurface returns a surface for g. transform reports the current
// viewport transform; nil means identity.
func NewStaticSurface(g *lineage.Graph, size geom.Size, transform func() geom.Transform) *StaticSurface {
	if transform == nil {
		transform = geom.Identity
	}
	return &StaticSurface{graph: g, size: size, transform: transform}
}

// ViewportSize returns the canvas size.
func (s *StaticSurface) ViewportSize() geom.Size { return s.size }

// Resize changes the canvas size.
func (s *StaticSurface) Resize(size geom.Size) { s.size = size }

// MeasureNode returns the estimated size of a known node.
func (s *StaticSurface) MeasureNode(id string) (geom.Size, bool) {
	n, ok := s.graph.Node(id)
	if !ok {
		return geom.Size{}, false
	}
	return layout.EstimateSize(n, s.graph.IsExpanded(id)), true
}

// LocatePort returns the view-space position of a column port. Ports exist
// only on expanded tables that declare the column. Rows past the visible
// budget scroll, so their ports are pinned to the last visible row.
func (s *StaticSurface) LocatePort(nodeID, column string, side geom.Side) (geom.Point, bool) {
	n, ok := s.graph.Node(nodeID)
	if !ok || !n.IsTable() || !s.graph.IsExpanded(nodeID) {
		return geom.Point{}, false
	}
	i := n.ColumnIndex(column)
	if i < 0 {
		return geom.Point{}, false
	}
	r, ok := s.graph.Rect(nodeID)
	if !ok {
		return geom.Point{}, false
	}
	p := geom.Point{X: r.X, Y: r.Y + layout.ColumnRowCenter(i)}
	if side == geom.SideRight {
		p.X = r.Right()
	}
	return s.transform().ToView(p), true
}

package diagram

import (
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/lineage"
	"github.com/matzehuels/lineageview/pkg/viewport"
)

// Router turns graph state into edge geometry. Edges whose endpoints cannot
// be resolved this frame are skipped, never reported as errors.
type Router struct {
	graph   *lineage.Graph
	surface viewport.Surface
}

// NewRouter returns a router reading live sizes and ports from surface.
func NewRouter(g *lineage.Graph, surface viewport.Surface) *Router {
	return &Router{graph: g, surface: surface}
}

// NodeRect returns the cached rect of a node with its height replaced by the
// surface's live measurement when one is available.
func (r *Router) NodeRect(id string) (geom.Rect, bool) {
	rect, ok := r.graph.Rect(id)
	if !ok {
		return geom.Rect{}, false
	}
	if r.surface != nil {
		if size, ok := r.surface.MeasureNode(id); ok && size.Height > 0 {
			rect.Height = size.Height
		}
	}
	return rect, true
}

// TableEdge routes a table-level edge from the source's right-center to the
// target's left-center.
func (r *Router) TableEdge(e lineage.Edge) (geom.Path, bool) {
	src, ok := r.NodeRect(e.Source)
	if !ok {
		return geom.Path{}, false
	}
	tgt, ok := r.NodeRect(e.Target)
	if !ok {
		return geom.Path{}, false
	}
	return geom.EdgePath(src, tgt), true
}

// ColumnEdge routes one column mapping under transform t. The mapping is
// drawn only while its edge target is an expanded table whose left port for
// the target column can be located. The source end sits on the source
// column's right port if the source node is expanded, otherwise on the
// source node's right-center.
func (r *Router) ColumnEdge(l lineage.LineageEntry, t geom.Transform) (geom.Path, bool) {
	tgt, ok := r.graph.Node(l.TargetNode)
	if !ok || !tgt.IsTable() || !r.graph.IsExpanded(l.TargetNode) {
		return geom.Path{}, false
	}

	var from geom.Point
	if r.graph.IsExpanded(l.SourceNode) {
		from, ok = geom.PortPosition(r.surface, l.SourceNode, l.SourceColumn, geom.SideRight, t)
	} else {
		var rect geom.Rect
		rect, ok = r.NodeRect(l.SourceNode)
		from = geom.NodeEdgeCenter(rect, geom.SideRight)
	}
	if !ok {
		return geom.Path{}, false
	}

	to, ok := geom.PortPosition(r.surface, l.TargetNode, l.TargetColumn, geom.SideLeft, t)
	if !ok {
		return geom.Path{}, false
	}
	return geom.ColumnEdgePath(from, to), true
}

// Group is a system group with its box in graph space.
type Group struct {
	Key     string
	NodeIDs []string
	Box     geom.Rect
}

const (
	groupPadding     = 20.0
	groupLabelHeight = 24.0
)

// Groups returns the box of every group with at least one positioned member:
// the bounding box of the members' live rects padded on every side, plus a
// label band above.
func (r *Router) Groups() []Group {
	var out []Group
	for _, g := range r.graph.Groups() {
		rects := make([]geom.Rect, 0, len(g.NodeIDs))
		for _, id := range g.NodeIDs {
			if rect, ok := r.NodeRect(id); ok {
				rects = append(rects, rect)
			}
		}
		box, ok := geom.Bounds(rects)
		if !ok {
			continue
		}
		box = box.Grow(groupPadding)
		box.Y -= groupLabelHeight
		box.Height += groupLabelHeight
		out = append(out, Group{Key: g.Key, NodeIDs: g.NodeIDs, Box: box})
	}
	return out
}

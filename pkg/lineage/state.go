package lineage

import (
	"maps"

	"github.com/matzehuels/lineageview/pkg/geom"
)

// Rect returns the cached layout rectangle of a node.
func (g *Graph) Rect(id string) (geom.Rect, bool) {
	r, ok := g.positions[id]
	if !ok {
		return geom.Rect{}, false
	}
	return *r, true
}

// Rects returns a copy of the whole position cache.
func (g *Graph) Rects() map[string]geom.Rect {
	out := make(map[string]geom.Rect, len(g.positions))
	for id, r := range g.positions {
		out[id] = *r
	}
	return out
}

// SetRect stores a full rectangle for a known node. It is used by the layout
// adapter; interaction code goes through SetPosition and SetHeight.
func (g *Graph) SetRect(id string, r geom.Rect) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	g.positions[id] = &r
}

// SetPosition moves a node's top-left corner. Unknown IDs are ignored.
func (g *Graph) SetPosition(id string, x, y float64) {
	if r, ok := g.positions[id]; ok {
		r.X, r.Y = x, y
	}
}

// SetHeight updates a node's cached height. Unknown IDs are ignored.
func (g *Graph) SetHeight(id string, h float64) {
	if r, ok := g.positions[id]; ok {
		r.Height = h
	}
}

// IsExpanded reports whether the node's detail is visible.
func (g *Graph) IsExpanded(id string) bool { return g.expanded[id] }

// ToggleExpanded flips the node's expansion flag and returns the new state.
// Unknown IDs are ignored and report false.
func (g *Graph) ToggleExpanded(id string) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	if g.expanded[id] {
		delete(g.expanded, id)
		return false
	}
	g.expanded[id] = true
	return true
}

// ExpandAll expands every table node.
func (g *Graph) ExpandAll() {
	for _, id := range g.order {
		if g.nodes[id].IsTable() {
			g.expanded[id] = true
		}
	}
}

// CollapseAll clears the expansion set.
func (g *Graph) CollapseAll() { clear(g.expanded) }

// ExpandedIDs returns the IDs of expanded nodes in insertion order.
func (g *Graph) ExpandedIDs() []string {
	var out []string
	for _, id := range g.order {
		if g.expanded[id] {
			out = append(out, id)
		}
	}
	return out
}

// Snapshot returns copies of the position cache and the expansion set.
func (g *Graph) Snapshot() (map[string]geom.Rect, map[string]bool) {
	return g.Rects(), maps.Clone(g.expanded)
}

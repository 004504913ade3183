// Package layered is a deterministic pure-Go layered layout engine.
//
// It follows the classic Sugiyama phases:
//
//  1. Break cycles by reversing DFS back edges.
//  2. Assign ranks by longest path from the sources (Kahn's algorithm).
//  3. Split long edges with dummy vertices so every edge spans one rank.
//  4. Order each rank with alternating barycenter sweeps, keeping the
//     ordering with the fewest crossings.
//  5. Assign coordinates: ranks become columns left to right, nodes are
//     stacked top to bottom and pulled toward their predecessors.
//
// No randomness is involved; identical input yields identical output.
package layered

import (
	"context"
	"slices"

	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/layout"
)

// DefaultSweeps is the number of down/up barycenter iterations.
const DefaultSweeps = 8

// Engine implements [layout.Engine].
type Engine struct {
	Sweeps int
}

// New returns an engine with [DefaultSweeps].
func New() *Engine { return &Engine{Sweeps: DefaultSweeps} }

// Name returns "layered".
func (e *Engine) Name() string { return "layered" }

// ComputeLayout returns node centers. Edges referencing unknown nodes are an
// error; self-loops and parallel edges are ignored.
func (e *Engine) ComputeLayout(ctx context.Context, nodes []layout.SizedNode, edges []layout.EdgeRef, cfg layout.Config) (map[string]geom.Point, error) {
	g, err := build(nodes, edges)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return map[string]geom.Point{}, nil
	}

	g.breakCycles()
	g.assignRanks()
	g.splitLongEdges()

	sweeps := e.Sweeps
	if sweeps <= 0 {
		sweeps = DefaultSweeps
	}
	if err := g.order(ctx, sweeps); err != nil {
		return nil, err
	}
	return g.coordinates(nodes, cfg), nil
}

// graph is the working state. Vertices [0, real) are input nodes in input
// order; the rest are dummies.
type graph struct {
	real int
	succ [][]int // acyclic successors after breakCycles
	pred [][]int
	rank []int

	layers [][]int
	pos    []int
	up     [][]int // neighbors in the previous rank, after splitLongEdges
	down   [][]int // neighbors in the next rank
}

func build(nodes []layout.SizedNode, edges []layout.EdgeRef) (*graph, error) {
	idx := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := idx[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateNode, "layout input: duplicate node %q", n.ID)
		}
		idx[n.ID] = i
	}

	g := &graph{real: len(nodes), succ: make([][]int, len(nodes))}
	for _, e := range edges {
		s, ok := idx[e.Source]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownNode, "layout input: unknown source %q", e.Source)
		}
		t, ok := idx[e.Target]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownNode, "layout input: unknown target %q", e.Target)
		}
		if s == t || slices.Contains(g.succ[s], t) {
			continue
		}
		g.succ[s] = append(g.succ[s], t)
	}
	return g, nil
}

// breakCycles reverses every DFS back edge. Sources are visited first, then
// any vertex left unvisited, both in input order.
func (g *graph) breakCycles() {
	const (
		white = iota
		gray
		black
	)
	n := g.real
	color := make([]int, n)
	var back [][2]int

	var dfs func(v int)
	dfs = func(v int) {
		color[v] = gray
		for _, w := range g.succ[v] {
			switch color[w] {
			case white:
				dfs(w)
			case gray:
				back = append(back, [2]int{v, w})
			}
		}
		color[v] = black
	}

	indeg := make([]int, n)
	for v := range n {
		for _, w := range g.succ[v] {
			indeg[w]++
		}
	}
	for v := range n {
		if indeg[v] == 0 && color[v] == white {
			dfs(v)
		}
	}
	for v := range n {
		if color[v] == white {
			dfs(v)
		}
	}

	for _, e := range back {
		u, v := e[0], e[1]
		g.succ[u] = slices.DeleteFunc(g.succ[u], func(w int) bool { return w == v })
		if !slices.Contains(g.succ[v], u) {
			g.succ[v] = append(g.succ[v], u)
		}
	}

	g.pred = make([][]int, n)
	for v := range n {
		for _, w := range g.succ[v] {
			g.pred[w] = append(g.pred[w], v)
		}
	}
}

// assignRanks places each vertex one rank after its deepest predecessor.
func (g *graph) assignRanks() {
	n := g.real
	g.rank = make([]int, n)
	indeg := make([]int, n)
	queue := make([]int, 0, n)
	for v := range n {
		indeg[v] = len(g.pred[v])
		if indeg[v] == 0 {
			queue = append(queue, v)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range g.succ[v] {
			if r := g.rank[v] + 1; r > g.rank[w] {
				g.rank[w] = r
			}
			indeg[w]--
			if indeg[w] == 0 {
				queue = append(queue, w)
			}
		}
	}
}

// splitLongEdges inserts dummy vertices so every edge joins adjacent ranks,
// and builds the initial rank orders (input order, dummies after).
func (g *graph) splitLongEdges() {
	maxRank := 0
	for _, r := range g.rank {
		maxRank = max(maxRank, r)
	}
	g.layers = make([][]int, maxRank+1)
	for v := range g.real {
		g.layers[g.rank[v]] = append(g.layers[g.rank[v]], v)
	}

	g.up = make([][]int, g.real)
	g.down = make([][]int, g.real)
	link := func(u, v int) {
		g.down[u] = append(g.down[u], v)
		g.up[v] = append(g.up[v], u)
	}

	for u := range g.real {
		for _, v := range g.succ[u] {
			prev := u
			for r := g.rank[u] + 1; r < g.rank[v]; r++ {
				d := len(g.rank)
				g.rank = append(g.rank, r)
				g.up = append(g.up, nil)
				g.down = append(g.down, nil)
				g.layers[r] = append(g.layers[r], d)
				link(prev, d)
				prev = d
			}
			link(prev, v)
		}
	}

	g.pos = make([]int, len(g.rank))
	for _, layer := range g.layers {
		for i, v := range layer {
			g.pos[v] = i
		}
	}
}

// order runs barycenter sweeps and keeps the layer orders with the fewest
// crossings.
func (g *graph) order(ctx context.Context, sweeps int) error {
	best := cloneLayers(g.layers)
	bestCrossings := g.crossings()

	for i := 0; i < sweeps && bestCrossings > 0; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for r := 1; r < len(g.layers); r++ {
			g.reorder(r, g.up)
		}
		for r := len(g.layers) - 2; r >= 0; r-- {
			g.reorder(r, g.down)
		}
		if c := g.crossings(); c < bestCrossings {
			best, bestCrossings = cloneLayers(g.layers), c
		}
	}

	g.layers = best
	for _, layer := range g.layers {
		for i, v := range layer {
			g.pos[v] = i
		}
	}
	return nil
}

// reorder sorts rank r by the mean position of each vertex's neighbors in
// adj. Vertices without neighbors keep their current position as key.
func (g *graph) reorder(r int, adj [][]int) {
	layer := g.layers[r]
	key := make(map[int]float64, len(layer))
	for _, v := range layer {
		if len(adj[v]) == 0 {
			key[v] = float64(g.pos[v])
			continue
		}
		sum := 0.0
		for _, w := range adj[v] {
			sum += float64(g.pos[w])
		}
		key[v] = sum / float64(len(adj[v]))
	}
	slices.SortStableFunc(layer, func(a, b int) int {
		switch {
		case key[a] < key[b]:
			return -1
		case key[a] > key[b]:
			return 1
		default:
			return 0
		}
	})
	for i, v := range layer {
		g.pos[v] = i
	}
}

func (g *graph) crossings() int {
	total := 0
	for r := 0; r+1 < len(g.layers); r++ {
		total += g.layerCrossings(g.layers[r], g.layers[r+1])
	}
	return total
}

// layerCrossings counts inversions of lower-rank positions when edges are
// sorted by upper-rank position, using a Fenwick tree.
func (g *graph) layerCrossings(upper, lower []int) int {
	type edge struct{ upper, lower int }
	var edges []edge
	for i, v := range upper {
		for _, w := range g.down[v] {
			edges = append(edges, edge{i, g.pos[w]})
		}
	}
	if len(edges) < 2 {
		return 0
	}
	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, seen := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += seen - lessOrEqual
		seen++
		for q := e.lower + 1; q < len(fenwick); q += q & (-q) {
			fenwick[q]++
		}
	}
	return crossings
}

// coordinates turns ranks into columns and stacks each column's real nodes
// in order, pulling every node toward the mean center of its predecessors
// without breaking the NodeSep gap to the node above it.
func (g *graph) coordinates(nodes []layout.SizedNode, cfg layout.Config) map[string]geom.Point {
	colWidth := make([]float64, len(g.layers))
	for v := range g.real {
		colWidth[g.rank[v]] = max(colWidth[g.rank[v]], nodes[v].Width)
	}
	colX := make([]float64, len(g.layers))
	x := cfg.MarginX
	for r, w := range colWidth {
		colX[r] = x + w/2
		x += w + cfg.RankSep
	}

	centerY := make([]float64, g.real)
	for _, layer := range g.layers {
		prevBottom, first := 0.0, true
		for _, v := range layer {
			if v >= g.real {
				continue
			}
			h := nodes[v].Height
			top := prevBottom + cfg.NodeSep
			if first {
				top = 0
			}
			if len(g.pred[v]) > 0 {
				sum := 0.0
				for _, u := range g.pred[v] {
					sum += centerY[u]
				}
				desired := sum/float64(len(g.pred[v])) - h/2
				if first || desired > top {
					top = desired
				}
			}
			centerY[v] = top + h/2
			prevBottom, first = top+h, false
		}
	}

	minTop := 0.0
	for v := range g.real {
		if top := centerY[v] - nodes[v].Height/2; v == 0 || top < minTop {
			minTop = top
		}
	}
	shift := cfg.MarginY - minTop

	out := make(map[string]geom.Point, g.real)
	for v := range g.real {
		out[nodes[v].ID] = geom.Point{X: colX[g.rank[v]], Y: centerY[v] + shift}
	}
	return out
}

func cloneLayers(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}

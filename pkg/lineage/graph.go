package lineage

import (
	"fmt"
	"slices"

	"github.com/matzehuels/lineageview/pkg/geom"
)

// Graph is the canonical lineage model plus its derived layout state.
//
// The zero value is not usable - use [New] to create a valid Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []Edge
	edgeIdx  map[string]int
	outgoing map[string][]string // nodeID -> target IDs
	incoming map[string][]string // nodeID -> source IDs

	positions map[string]*geom.Rect
	expanded  map[string]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		edgeIdx:   make(map[string]int),
		outgoing:  make(map[string][]string),
		incoming:  make(map[string][]string),
		positions: make(map[string]*geom.Rect),
		expanded:  make(map[string]bool),
	}
}

// Load replaces all state with the given nodes and edges. The expansion set
// and the position cache are cleared. On error the graph is left unchanged.
func (g *Graph) Load(nodes []Node, edges []Edge) error {
	fresh := New()
	for _, n := range nodes {
		if err := fresh.AddNode(n); err != nil {
			return fmt.Errorf("add node %q: %w", n.ID, err)
		}
	}
	for _, e := range edges {
		if err := fresh.AddEdge(e); err != nil {
			return fmt.Errorf("add edge %q (%s→%s): %w", e.ID, e.Source, e.Target, err)
		}
	}
	*g = *fresh
	return nil
}

// AddNode adds a node. Returns ErrInvalidNodeID if the ID is empty,
// ErrDuplicateNodeID if it is already in use, ErrUnknownNodeType for an
// unrecognized type, or ErrDuplicateColumn if a column name repeats.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if !n.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownNodeType, n.Type)
	}
	seen := make(map[string]bool, len(n.Columns))
	for _, c := range n.Columns {
		if seen[c.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = true
	}
	node := n
	node.Columns = slices.Clone(n.Columns)
	node.Charts = slices.Clone(n.Charts)
	g.nodes[n.ID] = &node
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Column mappings
// are not checked against the node set: a mapping that references a missing
// node or column simply never produces a drawable column edge.
func (g *Graph) AddEdge(e Edge) error {
	if e.ID == "" {
		return ErrInvalidEdgeID
	}
	if _, exists := g.edgeIdx[e.ID]; exists {
		return ErrDuplicateEdgeID
	}
	if _, ok := g.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	e.Mappings = slices.Clone(e.Mappings)
	g.edgeIdx[e.ID] = len(g.edges)
	g.edges = append(g.edges, e)
	g.outgoing[e.Source] = append(g.outgoing[e.Source], e.Target)
	g.incoming[e.Target] = append(g.incoming[e.Target], e.Source)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// graph's nodes and must be treated as read-only.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id string) (Edge, bool) {
	i, ok := g.edgeIdx[id]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the targets of the node's outgoing edges.
// The returned slice should not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the sources of the node's incoming edges.
// The returned slice should not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// Neighbors returns every node directly connected to id, in edge order,
// without duplicates.
func (g *Graph) Neighbors(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	for _, e := range g.edges {
		if !e.Touches(id) {
			continue
		}
		other := e.Target
		if e.Target == id {
			other = e.Source
		}
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

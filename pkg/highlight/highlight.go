// Package highlight computes which parts of a lineage diagram are emphasized
// for a selection.
//
// Two selection modes are mutually exclusive and the last one wins:
//
//   - Node: the node and its direct neighbors are active, as are the edges
//     touching the node and the column edges whose endpoints are both active
//     nodes. Everything else is dimmed.
//   - Column: the column plus its immediate downstream and upstream columns
//     are active. Column edges touching an active column are active; every
//     other column edge and every table edge is dimmed. Nodes keep their
//     neutral styling.
//
// Selecting the same column twice clears the highlight. Lineage is followed
// one hop in each direction; longer chains are not expanded.
package highlight

import (
	"maps"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineageview/pkg/lineage"
	"github.com/matzehuels/lineageview/pkg/observability"
)

// Mode is the active selection mode.
type Mode int

const (
	ModeNone Mode = iota
	ModeNode
	ModeColumn
)

func (m Mode) String() string {
	switch m {
	case ModeNode:
		return "node"
	case ModeColumn:
		return "column"
	default:
		return "none"
	}
}

// Class is the visual classification of one element.
type Class int

const (
	Neutral Class = iota
	Active
	Dimmed
)

// String returns the style class suffix: "", "highlighted" or "dimmed".
func (c Class) String() string {
	switch c {
	case Active:
		return "highlighted"
	case Dimmed:
		return "dimmed"
	default:
		return ""
	}
}

// State is a snapshot of the current selection and its active sets.
type State struct {
	Mode    Mode
	Node    string            // selected node in ModeNode
	Column  lineage.ColumnRef // selected column in ModeColumn
	Nodes   map[string]bool
	Edges   map[string]bool
	Columns map[lineage.ColumnRef]bool
}

// Highlighter tracks the selection for one graph.
type Highlighter struct {
	graph  *lineage.Graph
	logger *log.Logger
	state  State
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(h *Highlighter) {
		if l != nil {
			h.logger = l
		}
	}
}

// New returns a highlighter with nothing selected.
func New(g *lineage.Graph, opts ...Option) *Highlighter {
	h := &Highlighter{graph: g, logger: log.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HighlightNode selects a node. Any previous selection is replaced. Unknown
// ids leave the state unchanged and report false.
func (h *Highlighter) HighlightNode(id string) bool {
	if _, ok := h.graph.Node(id); !ok {
		return false
	}
	st := State{
		Mode:  ModeNode,
		Node:  id,
		Nodes: map[string]bool{id: true},
		Edges: map[string]bool{},
	}
	for _, e := range h.graph.EdgesOf(id) {
		st.Edges[e.ID] = true
		st.Nodes[e.Source] = true
		st.Nodes[e.Target] = true
	}
	h.state = st
	h.logger.Debug("highlight node", "node", id, "active", len(st.Nodes))
	observability.Interaction().OnHighlight(ModeNode.String(), id)
	return true
}

// HighlightColumn selects a column, or clears the highlight if that column
// is already selected. It reports whether a column highlight is active
// afterwards. Columns need not exist; a missing column simply matches no
// mappings.
func (h *Highlighter) HighlightColumn(nodeID, column string) bool {
	ref := lineage.ColumnRef{NodeID: nodeID, Column: column}
	if h.state.Mode == ModeColumn && h.state.Column == ref {
		h.Clear()
		return false
	}

	st := State{
		Mode:    ModeColumn,
		Column:  ref,
		Columns: map[lineage.ColumnRef]bool{ref: true},
	}
	for _, l := range h.graph.ColumnLineageForward(nodeID, column) {
		st.Columns[l.Target()] = true
	}
	for _, l := range h.graph.ColumnLineageReverse(nodeID, column) {
		st.Columns[l.Source()] = true
	}
	h.state = st
	h.logger.Debug("highlight column", "column", ref, "active", len(st.Columns))
	observability.Interaction().OnHighlight(ModeColumn.String(), ref.String())
	return true
}

// Clear removes any highlight.
func (h *Highlighter) Clear() {
	if h.state.Mode == ModeNone {
		return
	}
	h.state = State{}
	observability.Interaction().OnHighlight(ModeNone.String(), "")
}

// Mode returns the current selection mode.
func (h *Highlighter) Mode() Mode { return h.state.Mode }

// State returns a copy of the current state.
func (h *Highlighter) State() State {
	st := h.state
	st.Nodes = maps.Clone(st.Nodes)
	st.Edges = maps.Clone(st.Edges)
	st.Columns = maps.Clone(st.Columns)
	return st
}

// NodeClass classifies a node box.
func (h *Highlighter) NodeClass(id string) Class {
	if h.state.Mode != ModeNode {
		return Neutral
	}
	return classify(h.state.Nodes[id])
}

// EdgeClass classifies a table-level edge.
func (h *Highlighter) EdgeClass(edgeID string) Class {
	switch h.state.Mode {
	case ModeNode:
		return classify(h.state.Edges[edgeID])
	case ModeColumn:
		return Dimmed
	default:
		return Neutral
	}
}

// ColumnEdgeClass classifies a column-level edge.
func (h *Highlighter) ColumnEdgeClass(l lineage.LineageEntry) Class {
	switch h.state.Mode {
	case ModeNode:
		return classify(h.state.Nodes[l.SourceNode] && h.state.Nodes[l.TargetNode])
	case ModeColumn:
		return classify(h.state.Columns[l.Source()] || h.state.Columns[l.Target()])
	default:
		return Neutral
	}
}

// ColumnClass classifies a column row. Rows are only ever emphasized, never
// dimmed.
func (h *Highlighter) ColumnClass(ref lineage.ColumnRef) Class {
	if h.state.Mode == ModeColumn && h.state.Columns[ref] {
		return Active
	}
	return Neutral
}

func classify(active bool) Class {
	if active {
		return Active
	}
	return Dimmed
}

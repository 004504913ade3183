package lineage

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNodeType is returned by [Graph.AddNode] when the type is not
	// one of table, pipeline or dashboard.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrDuplicateColumn is returned by [Graph.AddNode] when a table declares
	// the same column name twice.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrInvalidEdgeID is returned by [Graph.AddEdge] when the edge ID is empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] when an edge with the
	// same ID already exists.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// NodeType is the closed set of node variants.
type NodeType string

const (
	NodeTable     NodeType = "table"
	NodePipeline  NodeType = "pipeline"
	NodeDashboard NodeType = "dashboard"
)

// Valid reports whether t is a known node type.
func (t NodeType) Valid() bool {
	switch t {
	case NodeTable, NodePipeline, NodeDashboard:
		return true
	}
	return false
}

// Column is a table column. Names are unique within their owning table.
type Column struct {
	Name     string
	DataType string
	Tags     []string
}

// Node is a table, pipeline or dashboard. Type-specific attributes are left
// empty for the other variants.
type Node struct {
	ID    string
	Type  NodeType
	Label string // display label, defaults to ID

	// Table attributes.
	Database string
	Schema   string
	Columns  []Column

	// Pipeline and dashboard attributes.
	Platform    string
	Description string   // pipeline only
	Charts      []string // dashboard only
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// IsTable reports whether the node is a table.
func (n *Node) IsTable() bool { return n.Type == NodeTable }

// ColumnIndex returns the position of the named column, or -1.
func (n *Node) ColumnIndex(name string) int {
	return slices.IndexFunc(n.Columns, func(c Column) bool { return c.Name == name })
}

// HasColumn reports whether the node declares the named column.
func (n *Node) HasColumn(name string) bool { return n.ColumnIndex(name) >= 0 }

// Subtitle returns the secondary header line: "database.schema" for tables,
// the platform for pipelines and dashboards.
func (n *Node) Subtitle() string {
	if n.IsTable() {
		if n.Schema == "" {
			return n.Database
		}
		return n.Database + "." + n.Schema
	}
	return n.Platform
}

// ColumnMapping maps one source column onto a column of the edge's target.
// SourceNode need not equal the edge source: mappings usually route through
// an intermediate pipeline node.
type ColumnMapping struct {
	SourceNode   string
	SourceColumn string
	TargetColumn string
}

// Edge is a directed relationship between two nodes.
type Edge struct {
	ID       string
	Source   string
	Target   string
	Mappings []ColumnMapping
}

// Touches reports whether id is the edge's source or target.
func (e Edge) Touches(id string) bool { return e.Source == id || e.Target == id }

// ColumnRef identifies a column by its owning node.
type ColumnRef struct {
	NodeID string
	Column string
}

// String returns "node:column".
func (c ColumnRef) String() string { return c.NodeID + ":" + c.Column }

// LineageEntry is one column mapping resolved against its edge.
type LineageEntry struct {
	EdgeID       string
	SourceNode   string
	SourceColumn string
	TargetNode   string
	TargetColumn string
	PipelineNode string // the edge's source node
}

// Source returns the upstream column.
func (l LineageEntry) Source() ColumnRef {
	return ColumnRef{NodeID: l.SourceNode, Column: l.SourceColumn}
}

// Target returns the downstream column.
func (l LineageEntry) Target() ColumnRef {
	return ColumnRef{NodeID: l.TargetNode, Column: l.TargetColumn}
}

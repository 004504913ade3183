package document

import (
	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/lineage"
)

// Document is the serialized form of a lineage graph.
type Document struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Node is a serialized table, pipeline or dashboard.
type Node struct {
	ID          string   `json:"id" yaml:"id"`
	Type        string   `json:"type" yaml:"type"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
	Database    string   `json:"database,omitempty" yaml:"database,omitempty"`
	Schema      string   `json:"schema,omitempty" yaml:"schema,omitempty"`
	Columns     []Column `json:"columns,omitempty" yaml:"columns,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Platform    string   `json:"platform,omitempty" yaml:"platform,omitempty"`
	Charts      []string `json:"charts,omitempty" yaml:"charts,omitempty"`
}

// Column is a serialized table column.
type Column struct {
	Name     string   `json:"name" yaml:"name"`
	DataType string   `json:"dataType,omitempty" yaml:"dataType,omitempty"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Edge is a serialized directed edge.
type Edge struct {
	ID            string          `json:"id" yaml:"id"`
	Source        string          `json:"source" yaml:"source"`
	Target        string          `json:"target" yaml:"target"`
	ColumnMapping []ColumnMapping `json:"columnMapping" yaml:"columnMapping"`
}

// ColumnMapping is a serialized source-column to target-column correspondence.
type ColumnMapping struct {
	SourceNode   string `json:"sourceNode" yaml:"sourceNode"`
	SourceColumn string `json:"sourceColumn" yaml:"sourceColumn"`
	TargetColumn string `json:"targetColumn" yaml:"targetColumn"`
}

// Validate checks the document for structural problems and returns the
// first one found as an *errors.Error.
func (d Document) Validate() error {
	nodes := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if err := errors.ValidateIdentifier("node id", n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "nodes[%d]", i)
		}
		if !lineage.NodeType(n.Type).Valid() {
			return errors.New(errors.ErrCodeUnknownNodeType, "node %q: unknown type %q (want table, pipeline or dashboard)", n.ID, n.Type)
		}
		if nodes[n.ID] {
			return errors.New(errors.ErrCodeDuplicateNode, "duplicate node id %q", n.ID)
		}
		nodes[n.ID] = true

		cols := make(map[string]bool, len(n.Columns))
		for j, c := range n.Columns {
			if err := errors.ValidateIdentifier("column name", c.Name); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDocument, err, "node %q columns[%d]", n.ID, j)
			}
			if cols[c.Name] {
				return errors.New(errors.ErrCodeInvalidDocument, "node %q: duplicate column %q", n.ID, c.Name)
			}
			cols[c.Name] = true
		}
	}

	edges := make(map[string]bool, len(d.Edges))
	for i, e := range d.Edges {
		if err := errors.ValidateIdentifier("edge id", e.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "edges[%d]", i)
		}
		if edges[e.ID] {
			return errors.New(errors.ErrCodeDuplicateEdge, "duplicate edge id %q", e.ID)
		}
		edges[e.ID] = true

		if e.Source == "" || e.Target == "" {
			return errors.New(errors.ErrCodeInvalidDocument, "edge %q: source and target are required", e.ID)
		}
		if !nodes[e.Source] {
			return errors.New(errors.ErrCodeUnknownNode, "edge %q: unknown source node %q", e.ID, e.Source)
		}
		if !nodes[e.Target] {
			return errors.New(errors.ErrCodeUnknownNode, "edge %q: unknown target node %q", e.ID, e.Target)
		}
	}
	return nil
}

// Graph validates the document and builds a fresh lineage graph from it.
func (d Document) Graph() (*lineage.Graph, error) {
	g := lineage.New()
	if err := d.LoadInto(g); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadInto validates the document and replaces g's state with it. On error g
// is left unchanged.
func (d Document) LoadInto(g *lineage.Graph) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := g.Load(d.lineageNodes(), d.lineageEdges()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "load graph")
	}
	return nil
}

func (d Document) lineageNodes() []lineage.Node {
	out := make([]lineage.Node, len(d.Nodes))
	for i, n := range d.Nodes {
		cols := make([]lineage.Column, len(n.Columns))
		for j, c := range n.Columns {
			cols[j] = lineage.Column{Name: c.Name, DataType: c.DataType, Tags: c.Tags}
		}
		out[i] = lineage.Node{
			ID:          n.ID,
			Type:        lineage.NodeType(n.Type),
			Label:       n.Label,
			Database:    n.Database,
			Schema:      n.Schema,
			Columns:     cols,
			Platform:    n.Platform,
			Description: n.Description,
			Charts:      n.Charts,
		}
	}
	return out
}

func (d Document) lineageEdges() []lineage.Edge {
	out := make([]lineage.Edge, len(d.Edges))
	for i, e := range d.Edges {
		maps := make([]lineage.ColumnMapping, len(e.ColumnMapping))
		for j, m := range e.ColumnMapping {
			maps[j] = lineage.ColumnMapping(m)
		}
		out[i] = lineage.Edge{ID: e.ID, Source: e.Source, Target: e.Target, Mappings: maps}
	}
	return out
}

// FromGraph converts a lineage graph back into its serialized form. Node and
// edge order follow insertion order.
func FromGraph(g *lineage.Graph) Document {
	var doc Document
	for _, n := range g.Nodes() {
		dn := Node{
			ID:          n.ID,
			Type:        string(n.Type),
			Label:       n.Label,
			Database:    n.Database,
			Schema:      n.Schema,
			Description: n.Description,
			Platform:    n.Platform,
			Charts:      n.Charts,
		}
		for _, c := range n.Columns {
			dn.Columns = append(dn.Columns, Column{Name: c.Name, DataType: c.DataType, Tags: c.Tags})
		}
		doc.Nodes = append(doc.Nodes, dn)
	}
	for _, e := range g.Edges() {
		de := Edge{ID: e.ID, Source: e.Source, Target: e.Target, ColumnMapping: []ColumnMapping{}}
		for _, m := range e.Mappings {
			de.ColumnMapping = append(de.ColumnMapping, ColumnMapping(m))
		}
		doc.Edges = append(doc.Edges, de)
	}
	return doc
}

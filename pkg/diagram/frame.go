package diagram

import (
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/lineage"
)

// Frame is everything a surface needs to draw the diagram once. Coordinates
// are in graph space; apply Transform (or CSS) to reach view space.
type Frame struct {
	DiagramID   string             `json:"diagram_id"`
	Transform   geom.Transform     `json:"transform"`
	CSS         string             `json:"css"`
	Zoom        int                `json:"zoom"`
	Interaction string             `json:"interaction"`
	Highlight   string             `json:"highlight"`
	Groups      []GroupRecord      `json:"groups"`
	Nodes       []NodeRecord       `json:"nodes"`
	Edges       []EdgeRecord       `json:"edges"`
	ColumnEdges []ColumnEdgeRecord `json:"column_edges"`
}

// NodeRecord is one node box.
type NodeRecord struct {
	ID          string           `json:"id"`
	Type        lineage.NodeType `json:"type"`
	Label       string           `json:"label"`
	Subtitle    string           `json:"subtitle,omitempty"`
	Description string           `json:"description,omitempty"`
	Charts      []string         `json:"charts,omitempty"`
	ColumnCount int              `json:"column_count,omitempty"`
	Rect        geom.Rect        `json:"rect"`
	Expanded    bool             `json:"expanded"`
	Class       string           `json:"class,omitempty"`
	Columns     []ColumnRecord   `json:"columns,omitempty"`
}

// ColumnRecord is one row of an expanded table.
type ColumnRecord struct {
	Name     string   `json:"name"`
	DataType string   `json:"data_type,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Class    string   `json:"class,omitempty"`
}

// EdgeRecord is a routed table-level edge.
type EdgeRecord struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Target string    `json:"target"`
	Path   geom.Path `json:"path"`
	D      string    `json:"d"`
	Class  string    `json:"class,omitempty"`
}

// ColumnEdgeRecord is a routed column-level edge.
type ColumnEdgeRecord struct {
	EdgeID       string    `json:"edge_id"`
	SourceNode   string    `json:"source_node"`
	SourceColumn string    `json:"source_column"`
	TargetNode   string    `json:"target_node"`
	TargetColumn string    `json:"target_column"`
	Path         geom.Path `json:"path"`
	D            string    `json:"d"`
	Class        string    `json:"class,omitempty"`
}

// GroupRecord is a labelled system group box.
type GroupRecord struct {
	Key     string    `json:"key"`
	NodeIDs []string  `json:"node_ids"`
	Box     geom.Rect `json:"box"`
}

// Node returns the record for id.
func (f Frame) Node(id string) (NodeRecord, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeRecord{}, false
}

// ColumnEdge returns the record for the mapping from source to target.
func (f Frame) ColumnEdge(source, target lineage.ColumnRef) (ColumnEdgeRecord, bool) {
	for _, e := range f.ColumnEdges {
		if e.SourceNode == source.NodeID && e.SourceColumn == source.Column &&
			e.TargetNode == target.NodeID && e.TargetColumn == target.Column {
			return e, true
		}
	}
	return ColumnEdgeRecord{}, false
}

package lineage

import "slices"

// EdgesOf returns every edge where id is the source or the target, in edge
// insertion order.
func (g *Graph) EdgesOf(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Touches(id) {
			out = append(out, e)
		}
	}
	return out
}

// ColumnLineageForward returns every column mapping, across all edges, whose
// source is (nodeID, column). Results follow edge then mapping order.
func (g *Graph) ColumnLineageForward(nodeID, column string) []LineageEntry {
	var out []LineageEntry
	for _, e := range g.edges {
		for _, m := range e.Mappings {
			if m.SourceNode == nodeID && m.SourceColumn == column {
				out = append(out, entry(e, m))
			}
		}
	}
	return out
}

// ColumnLineageReverse returns every column mapping on edges targeting
// nodeID whose target column is column.
func (g *Graph) ColumnLineageReverse(nodeID, column string) []LineageEntry {
	var out []LineageEntry
	for _, e := range g.edges {
		if e.Target != nodeID {
			continue
		}
		for _, m := range e.Mappings {
			if m.TargetColumn == column {
				out = append(out, entry(e, m))
			}
		}
	}
	return out
}

// ColumnMappings returns every mapping of every edge resolved against its
// edge, in edge then mapping order.
func (g *Graph) ColumnMappings() []LineageEntry {
	var out []LineageEntry
	for _, e := range g.edges {
		for _, m := range e.Mappings {
			out = append(out, entry(e, m))
		}
	}
	return out
}

func entry(e Edge, m ColumnMapping) LineageEntry {
	return LineageEntry{
		EdgeID:       e.ID,
		SourceNode:   m.SourceNode,
		SourceColumn: m.SourceColumn,
		TargetNode:   e.Target,
		TargetColumn: m.TargetColumn,
		PipelineNode: e.Source,
	}
}

// Group is a set of nodes that belong to the same system.
type Group struct {
	Key     string
	NodeIDs []string
}

// Groups derives system groups: tables by "database.schema" (or database
// alone), pipelines and dashboards by platform. Nodes without a key are not
// grouped. Groups are returned in order of first appearance.
func (g *Graph) Groups() []Group {
	var keys []string
	members := make(map[string][]string)
	for _, id := range g.order {
		key := groupKey(g.nodes[id])
		if key == "" {
			continue
		}
		if _, ok := members[key]; !ok {
			keys = append(keys, key)
		}
		members[key] = append(members[key], id)
	}

	out := make([]Group, len(keys))
	for i, k := range keys {
		out[i] = Group{Key: k, NodeIDs: slices.Clone(members[k])}
	}
	return out
}

func groupKey(n *Node) string {
	if n.IsTable() && n.Database != "" {
		return n.Subtitle()
	}
	return n.Platform
}

// Package lineage provides the data-lineage graph model behind the diagram.
//
// # Overview
//
// A lineage graph connects typed nodes (tables, pipelines, dashboards) with
// directed edges. Edges may carry [ColumnMapping] records that describe how
// individual columns flow from a source table, usually through an
// intermediate pipeline node, into the edge's target table.
//
// The canonical node and edge sets are built once with [Graph.Load] (or
// [Graph.AddNode] and [Graph.AddEdge]) and are immutable afterwards. Two
// derived fields change during interaction:
//
//   - the layout position cache ([Graph.Rect], [Graph.SetPosition],
//     [Graph.SetHeight]), keyed by node ID, in graph space
//   - the expansion set ([Graph.IsExpanded], [Graph.ToggleExpanded],
//     [Graph.ExpandAll], [Graph.CollapseAll]), meaningful for tables only
//
// Mutating the cache for an unknown ID is a no-op, not an error. Queries may
// race a pending refresh in the host's event loop and must never fail.
//
// # Column Lineage
//
// [Graph.ColumnLineageForward] and [Graph.ColumnLineageReverse] are
// single-hop queries: they return the mappings one edge away from a column.
// Callers that need longer chains compose them per activated column.
//
//	g.ColumnLineageForward("raw_orders", "order_id")
//	// → [{EdgeID: e4, SourceNode: raw_orders, SourceColumn: order_id,
//	//     TargetNode: fact_orders, TargetColumn: order_id,
//	//     PipelineNode: etl_order_enrichment}]
//
// # Groups
//
// [Graph.Groups] derives system groups from node attributes: tables group by
// "database.schema", pipelines and dashboards by platform.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. The diagram owns a graph
// and mutates it from a single event-handling goroutine.
package lineage

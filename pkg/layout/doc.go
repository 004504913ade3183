// Package layout positions lineage nodes with a pluggable layered-graph
// engine.
//
// The [Engine] interface is the whole contract with a layout algorithm: given
// sized nodes and directed edges it returns one center point per node, with
// every edge source ranked strictly left of its target, no two boxes
// overlapping, and identical output for identical input. Two engines ship
// with the module: the Graphviz-backed engine in layout/graphviz and the
// pure-Go engine in layout/layered.
//
// [Adapter] bridges a [lineage.Graph] and an engine. It reduces nodes to
// (id, width, height) with the fixed per-type widths and the height
// estimators in this package, runs the engine, converts centers to top-left
// rectangles, and stores them in the graph's position cache.
//
// [CachedEngine] memoizes an engine through a [cache.Cache], keyed by a hash
// of the engine input.
package layout

// Package geom provides the graph-space geometry used by the lineage diagram.
//
// # Coordinate Spaces
//
// Layout positions and node rectangles live in graph space. The viewport
// maps graph space to view space (on-screen pixels relative to the canvas
// origin) with a single [Transform]:
//
//	view = graph × scale + translate
//
// [Transform.ToGraph] and [Transform.ToView] convert points between the two.
//
// # Edge Paths
//
// [EdgePath] connects the right-center of a source rectangle to the
// left-center of a target rectangle with a cubic bezier whose control points
// are pushed horizontally away from each anchor. [ColumnEdgePath] does the
// same for column ports at a finer scale. Both return a [Path] whose String
// method yields an SVG path "d" attribute.
//
// # Ports
//
// Column ports are located by the rendering surface, which only knows
// view-space positions. [PortPosition] asks a [PortLocator] for the port and
// inverts the current transform. A missing port is reported as ok == false
// and means "no edge drawable this frame", never an error.
package geom

// Package diagram ties a lineage graph, its layout, the viewport controller
// and the highlight engine into one independently owned diagram instance.
//
// A [Diagram] is the unit a rendering surface talks to. It loads a
// [document.Document], runs the layout, and on request produces a [Frame]:
// the complete set of render records for the current state. These are node
// rects with expansion flags, table and column edge paths, group boxes, the
// viewport transform and the highlight classification of every element.
//
//	d := diagram.New(layered.New(), diagram.WithViewportSize(geom.Size{Width: 1280, Height: 800}))
//	if err := d.Load(ctx, document.Example()); err != nil {
//	    return err
//	}
//	d.Controller().ToggleExpanded("fact_orders")
//	frame := d.Frame()
//
// Frames are computed from current state each time they are requested, so
// building two frames without an intervening change yields identical
// output.
//
// # Surfaces
//
// Live surfaces implement [viewport.Surface] and pass it with [WithSurface].
// Without one, the diagram uses a [StaticSurface], which derives node sizes
// and column port positions from the layout estimates. That is what the CLI
// and tests use.
package diagram

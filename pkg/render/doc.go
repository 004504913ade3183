// Package render converts rendered diagrams between output formats.
//
// The [svg] subpackage turns a diagram frame into an SVG document. [ToPDF]
// and [ToPNG] convert that SVG with the external rsvg-convert tool from
// librsvg:
//
//	out := svg.Render(d.Frame())
//	pdf, err := render.ToPDF(ctx, out)
//	png, err := render.ToPNG(ctx, out, 2.0) // 2x scale
//
// rsvg-convert must be on PATH: brew install librsvg (macOS),
// apt install librsvg2-bin (Linux).
package render

// Package svg renders a diagram frame as a static SVG snapshot.
//
// The output mirrors what an interactive surface draws for the same frame:
// group boxes, table edges, column edges and node cards inside one group
// carrying the viewport transform, plus a zoom label. Element classes follow
// the highlight state (is-highlighted / is-dimmed, edge--highlighted /
// edge--dimmed) so the snapshot can be restyled with CSS.
//
//	frame := d.Frame()
//	out := svg.Render(frame, svg.WithSize(geom.Size{Width: 1280, Height: 800}))
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/lineageview/pkg/diagram"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/layout"
	"github.com/matzehuels/lineageview/pkg/lineage"
)

const stylesheet = `
    .canvas { fill: #f8fafc; }
    .group { fill: #eef2f7; stroke: #cbd5e1; stroke-dasharray: 4 3; }
    .group__label { font: 600 11px sans-serif; fill: #64748b; letter-spacing: 0.04em; }
    .edge { fill: none; stroke: #94a3b8; stroke-width: 1.5; }
    .edge--column { stroke: #60a5fa; stroke-width: 1.2; stroke-dasharray: 3 2; }
    .edge--highlighted { stroke: #f59e0b; stroke-width: 2.5; }
    .edge--dimmed { opacity: 0.15; }
    .node__box { fill: #ffffff; stroke: #cbd5e1; }
    .node--table .node__header { fill: #2563eb; }
    .node--pipeline .node__header { fill: #7c3aed; }
    .node--dashboard .node__header { fill: #059669; }
    .node__label { font: 600 13px sans-serif; fill: #ffffff; }
    .node__badge { font: 11px sans-serif; fill: #dbeafe; }
    .node__subtitle, .node__desc { font: 11px sans-serif; fill: #64748b; }
    .node__column text { font: 11px monospace; fill: #334155; }
    .node__column .node__type { fill: #94a3b8; }
    .node__column.is-highlighted rect { fill: #fef3c7; }
    .node__port { fill: #60a5fa; }
    .node.is-highlighted .node__box { stroke: #f59e0b; stroke-width: 2; }
    .node.is-dimmed { opacity: 0.3; }
    .zoom { font: 11px sans-serif; fill: #64748b; }`

const (
	textInset   = 12.0
	descLineMax = 34
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	size  geom.Size
	title string
	ports bool
}

// WithSize sets the canvas size. The default is [diagram.DefaultViewportSize].
func WithSize(s geom.Size) Option { return func(r *renderer) { r.size = s } }

// WithTitle adds a <title> element.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

// WithPorts draws the column port markers on expanded tables.
func WithPorts() Option { return func(r *renderer) { r.ports = true } }

// Render returns the SVG document for f.
func Render(f diagram.Frame, opts ...Option) []byte {
	r := renderer{size: diagram.DefaultViewportSize}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(r.size.Width), num(r.size.Height), num(r.size.Width), num(r.size.Height))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", stylesheet)
	fmt.Fprintf(&buf, `  <rect class="canvas" width="%s" height="%s"/>`+"\n", num(r.size.Width), num(r.size.Height))

	t := f.Transform
	fmt.Fprintf(&buf, `  <g class="viewport" transform="translate(%s %s) scale(%s)">`+"\n",
		num(t.TranslateX), num(t.TranslateY), num(t.Scale))
	for _, g := range f.Groups {
		renderGroup(&buf, g)
	}
	for _, e := range f.Edges {
		fmt.Fprintf(&buf, `    <path class="%s" d="%s" data-edge-id="%s" data-source="%s" data-target="%s"/>`+"\n",
			classes("edge", "edge--", e.Class), e.D, escape(e.ID), escape(e.Source), escape(e.Target))
	}
	for _, e := range f.ColumnEdges {
		fmt.Fprintf(&buf, `    <path class="%s" d="%s" data-source-node="%s" data-source-column="%s" data-target-node="%s" data-target-column="%s"/>`+"\n",
			classes("edge edge--column", "edge--", e.Class), e.D,
			escape(e.SourceNode), escape(e.SourceColumn), escape(e.TargetNode), escape(e.TargetColumn))
	}
	for _, n := range f.Nodes {
		r.renderNode(&buf, n)
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, `  <text class="zoom" x="%s" y="%s" text-anchor="end">%d%%</text>`+"\n",
		num(r.size.Width-textInset), num(r.size.Height-textInset), f.Zoom)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGroup(buf *bytes.Buffer, g diagram.GroupRecord) {
	b := g.Box
	fmt.Fprintf(buf, `    <g data-group="%s">`+"\n", escape(g.Key))
	fmt.Fprintf(buf, `      <rect class="group" x="%s" y="%s" width="%s" height="%s" rx="10"/>`+"\n",
		num(b.X), num(b.Y), num(b.Width), num(b.Height))
	fmt.Fprintf(buf, `      <text class="group__label" x="%s" y="%s">%s</text>`+"\n",
		num(b.X+textInset), num(b.Y+16), escape(strings.ToUpper(g.Key)))
	buf.WriteString("    </g>\n")
}

func (r *renderer) renderNode(buf *bytes.Buffer, n diagram.NodeRecord) {
	rect := n.Rect
	cls := classes("node node--"+string(n.Type), "is-", n.Class)
	if n.Expanded {
		cls += " node--expanded"
	}
	fmt.Fprintf(buf, `    <g class="%s" data-node-id="%s">`+"\n", cls, escape(n.ID))
	fmt.Fprintf(buf, `      <rect class="node__box" x="%s" y="%s" width="%s" height="%s" rx="6"/>`+"\n",
		num(rect.X), num(rect.Y), num(rect.Width), num(rect.Height))
	fmt.Fprintf(buf, `      <rect class="node__header" x="%s" y="%s" width="%s" height="%s" rx="6"/>`+"\n",
		num(rect.X), num(rect.Y), num(rect.Width), num(layout.HeaderHeight))

	labelMax := int((rect.Width - 2*textInset) / 8)
	if n.Type == lineage.NodeTable {
		labelMax -= 4
		fmt.Fprintf(buf, `      <text class="node__badge" x="%s" y="%s" text-anchor="end">%d cols</text>`+"\n",
			num(rect.Right()-textInset), num(rect.Y+26), n.ColumnCount)
	}
	fmt.Fprintf(buf, `      <text class="node__label" x="%s" y="%s">%s</text>`+"\n",
		num(rect.X+textInset), num(rect.Y+26), escape(truncate(n.Label, labelMax)))

	y := rect.Y + layout.HeaderHeight
	if n.Subtitle != "" {
		fmt.Fprintf(buf, `      <text class="node__subtitle" x="%s" y="%s">%s</text>`+"\n",
			num(rect.X+textInset), num(y+15), escape(n.Subtitle))
	}
	y += layout.SubtitleHeight

	switch {
	case n.Type == lineage.NodePipeline && n.Description != "":
		fmt.Fprintf(buf, `      <text class="node__desc" x="%s" y="%s">%s</text>`+"\n",
			num(rect.X+textInset), num(y+18), escape(truncate(n.Description, descLineMax)))
	case n.Type == lineage.NodeDashboard && len(n.Charts) > 0:
		fmt.Fprintf(buf, `      <text class="node__desc" x="%s" y="%s">%s</text>`+"\n",
			num(rect.X+textInset), num(y+22), escape(chartSummary(n.Charts)))
	}

	if n.Expanded {
		r.renderColumns(buf, n)
	}
	buf.WriteString("    </g>\n")
}

func (r *renderer) renderColumns(buf *bytes.Buffer, n diagram.NodeRecord) {
	rect := n.Rect
	for i, c := range n.Columns {
		if i >= layout.MaxVisibleColumns {
			break
		}
		cy := rect.Y + layout.ColumnRowCenter(i)
		top := cy - layout.ColumnRowHeight/2
		fmt.Fprintf(buf, `      <g class="%s" data-node-id="%s" data-column="%s">`+"\n",
			classes("node__column", "is-", c.Class), escape(n.ID), escape(c.Name))
		fmt.Fprintf(buf, `        <rect x="%s" y="%s" width="%s" height="%s" fill="transparent"/>`+"\n",
			num(rect.X), num(top), num(rect.Width), num(layout.ColumnRowHeight))
		fmt.Fprintf(buf, `        <text x="%s" y="%s">%s</text>`+"\n",
			num(rect.X+textInset), num(cy+4), escape(columnLabel(c)))
		if c.DataType != "" {
			fmt.Fprintf(buf, `        <text class="node__type" x="%s" y="%s" text-anchor="end">%s</text>`+"\n",
				num(rect.Right()-textInset), num(cy+4), escape(c.DataType))
		}
		if r.ports {
			fmt.Fprintf(buf, `        <circle class="node__port node__port--left" cx="%s" cy="%s" r="3"/>`+"\n", num(rect.X), num(cy))
			fmt.Fprintf(buf, `        <circle class="node__port node__port--right" cx="%s" cy="%s" r="3"/>`+"\n", num(rect.Right()), num(cy))
		}
		buf.WriteString("      </g>\n")
	}
}

func columnLabel(c diagram.ColumnRecord) string {
	if len(c.Tags) == 0 {
		return c.Name
	}
	return c.Name + " [" + strings.Join(c.Tags, ",") + "]"
}

func chartSummary(charts []string) string {
	if len(charts) == 1 {
		return "1 chart"
	}
	return strconv.Itoa(len(charts)) + " charts"
}

// classes joins base with prefix+class when class is set.
func classes(base, prefix, class string) string {
	if class == "" {
		return base
	}
	return base + " " + prefix + class
}

func truncate(s string, limit int) string {
	if limit < 3 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-2]) + ".."
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

package cli

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/lineageview/pkg/diagram"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/highlight"
	"github.com/matzehuels/lineageview/pkg/layout"
	"github.com/matzehuels/lineageview/pkg/lineage"
)

// cellSize is the view-space size of one terminal cell. The terminal
// viewport is cols×8 by rows×16 view units.
var cellSize = geom.Size{Width: 8, Height: 16}

// cellKind selects the style a cell is drawn with.
type cellKind uint8

const (
	kindBlank cellKind = iota
	kindGroup
	kindEdge
	kindEdgeActive
	kindEdgeDimmed
	kindColumnEdge
	kindTable
	kindPipeline
	kindDashboard
	kindActive
	kindDimmed
	kindSelected
	kindMuted
	kindColumnActive
)

var kindStyles = map[cellKind]lipgloss.Style{
	kindGroup:        lipgloss.NewStyle().Foreground(colorDim),
	kindEdge:         lipgloss.NewStyle().Foreground(colorGray),
	kindEdgeActive:   lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
	kindEdgeDimmed:   lipgloss.NewStyle().Foreground(colorDim).Faint(true),
	kindColumnEdge:   lipgloss.NewStyle().Foreground(colorBlue),
	kindTable:        nodeTypeStyle(lineage.NodeTable),
	kindPipeline:     nodeTypeStyle(lineage.NodePipeline),
	kindDashboard:    nodeTypeStyle(lineage.NodeDashboard),
	kindActive:       StyleHighlight,
	kindDimmed:       lipgloss.NewStyle().Foreground(colorDim).Faint(true),
	kindSelected:     lipgloss.NewStyle().Foreground(colorWhite).Bold(true),
	kindMuted:        StyleDim,
	kindColumnActive: lipgloss.NewStyle().Foreground(colorYellow).Underline(true),
}

// canvas rasterizes a frame into terminal cells.
type canvas struct {
	cols, rows int
	runes      [][]rune
	kinds      [][]cellKind
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: max(cols, 0), rows: max(rows, 0)}
	c.runes = make([][]rune, c.rows)
	c.kinds = make([][]cellKind, c.rows)
	for y := range c.rows {
		c.runes[y] = []rune(strings.Repeat(" ", c.cols))
		c.kinds[y] = make([]cellKind, c.cols)
	}
	return c
}

func (c *canvas) set(x, y int, r rune, k cellKind) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.runes[y][x] = r
	c.kinds[y][x] = k
}

// text writes s from (x, y), cut to limit cells.
func (c *canvas) text(x, y int, s string, limit int, k cellKind) {
	if limit <= 0 {
		return
	}
	rs := []rune(s)
	if len(rs) > limit {
		rs = append(rs[:max(limit-1, 0)], '…')
	}
	for i, r := range rs {
		c.set(x+i, y, r, k)
	}
}

// cellOf returns the cell containing the view-space point.
func cellOf(p geom.Point) (int, int) {
	return int(math.Floor(p.X / cellSize.Width)), int(math.Floor(p.Y / cellSize.Height))
}

// cellRect returns the inclusive cell bounds of a view-space rectangle,
// never smaller than 3×2 cells.
func cellRect(r geom.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = cellOf(geom.Point{X: r.X, Y: r.Y})
	x1, y1 = cellOf(geom.Point{X: r.Right(), Y: r.Bottom()})
	x1, y1 = max(x1-1, x0+2), max(y1-1, y0+1)
	return x0, y0, x1, y1
}

// draw renders f. selected marks the node under the keyboard cursor.
func (c *canvas) draw(f diagram.Frame, selected string) {
	t := f.Transform
	for _, g := range f.Groups {
		c.drawGroup(t.RectToView(g.Box), g.Key)
	}
	for _, e := range f.Edges {
		c.drawPath(t, e.Path, '·', edgeKind(e.Class, kindEdge))
	}
	for _, e := range f.ColumnEdges {
		c.drawPath(t, e.Path, '∙', edgeKind(e.Class, kindColumnEdge))
	}
	for _, n := range f.Nodes {
		c.drawNode(t, n, n.ID == selected)
	}
}

func edgeKind(class string, neutral cellKind) cellKind {
	switch class {
	case highlight.Active.String():
		return kindEdgeActive
	case highlight.Dimmed.String():
		return kindEdgeDimmed
	}
	return neutral
}

func (c *canvas) drawGroup(r geom.Rect, key string) {
	x0, y0, x1, y1 := cellRect(r)
	for x := x0; x <= x1; x++ {
		c.set(x, y0, '┈', kindGroup)
		c.set(x, y1, '┈', kindGroup)
	}
	for y := y0; y <= y1; y++ {
		c.set(x0, y, '┊', kindGroup)
		c.set(x1, y, '┊', kindGroup)
	}
	c.text(x0+2, y0, " "+strings.ToUpper(key)+" ", x1-x0-3, kindGroup)
}

// drawPath samples the curve densely enough to leave no gaps between cells.
func (c *canvas) drawPath(t geom.Transform, p geom.Path, r rune, k cellKind) {
	from, to := t.ToView(p.From), t.ToView(p.To)
	span := math.Abs(to.X-from.X)/cellSize.Width + math.Abs(to.Y-from.Y)/cellSize.Height
	n := int(span*2) + 2
	for i := 0; i <= n; i++ {
		x, y := cellOf(t.ToView(p.At(float64(i) / float64(n))))
		c.set(x, y, r, k)
	}
}

func (c *canvas) drawNode(t geom.Transform, n diagram.NodeRecord, selected bool) {
	view := t.RectToView(n.Rect)
	x0, y0, x1, y1 := cellRect(view)

	border := nodeKind(n)
	if selected && border != kindActive {
		border = kindSelected
	}
	text := border
	if text == kindSelected {
		text = nodeKind(n)
	}
	for y := y0 + 1; y < y1; y++ {
		for x := x0 + 1; x < x1; x++ {
			c.set(x, y, ' ', kindBlank)
		}
	}
	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, '─', border)
		c.set(x, y1, '─', border)
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, '│', border)
		c.set(x1, y, '│', border)
	}
	c.set(x0, y0, '╭', border)
	c.set(x1, y0, '╮', border)
	c.set(x0, y1, '╰', border)
	c.set(x1, y1, '╯', border)

	inner := x1 - x0 - 1
	if n.Type == lineage.NodeTable {
		marker := '▸'
		if n.Expanded {
			marker = '▾'
		}
		c.set(x1-1, y0+1, marker, text)
		badge := " " + strconv.Itoa(n.ColumnCount) + " "
		c.text(x1-len(badge), y0, badge, len(badge), kindMuted)
		inner -= 2
	}
	c.text(x0+1, y0+1, n.Label, inner, text)

	muted := kindMuted
	if text == kindDimmed {
		muted = kindDimmed
	}
	if y0+2 < y1 && n.Subtitle != "" {
		c.text(x0+1, y0+2, n.Subtitle, x1-x0-1, muted)
	}
	if y0+3 < y1 && n.Description != "" {
		c.text(x0+1, y0+3, n.Description, x1-x0-1, muted)
	}
	if y0+3 < y1 && len(n.Charts) > 0 {
		c.text(x0+1, y0+3, strings.Join(n.Charts, " · "), x1-x0-1, muted)
	}

	last := y0 + 2
	for i, col := range n.Columns {
		_, row := cellOf(geom.Point{X: view.X, Y: view.Y + layout.ColumnRowCenter(i)*t.Scale})
		if row <= last || row >= y1 {
			continue
		}
		last = row
		k := text
		if col.Class == highlight.Active.String() {
			k = kindColumnActive
		}
		c.text(x0+2, row, col.Name, x1-x0-3, k)
		if typ := col.DataType; typ != "" && len(col.Name)+len(typ)+2 < x1-x0-2 {
			c.text(x1-1-len(typ), row, typ, len(typ), muted)
		}
	}
}

func nodeKind(n diagram.NodeRecord) cellKind {
	switch n.Class {
	case highlight.Active.String():
		return kindActive
	case highlight.Dimmed.String():
		return kindDimmed
	}
	switch n.Type {
	case lineage.NodePipeline:
		return kindPipeline
	case lineage.NodeDashboard:
		return kindDashboard
	}
	return kindTable
}

// lines returns the unstyled rows.
func (c *canvas) lines() []string {
	out := make([]string, c.rows)
	for y := range c.rows {
		out[y] = string(c.runes[y])
	}
	return out
}

// render returns the styled rows joined by newlines.
func (c *canvas) render() string {
	var b strings.Builder
	for y := range c.rows {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= c.cols; x++ {
			if x < c.cols && c.kinds[y][x] == c.kinds[y][start] {
				continue
			}
			run := string(c.runes[y][start:x])
			if st, ok := kindStyles[c.kinds[y][start]]; ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = x
		}
	}
	return b.String()
}

package geom

import (
	"math"
	"strconv"
	"strings"
)

const (
	edgeCurvature       = 0.5
	edgeMinOffset       = 60.0
	columnEdgeCurvature = 0.4
	columnEdgeMinOffset = 40.0
)

// Path is a single cubic bezier segment.
type Path struct {
	From Point `json:"from"`
	C1   Point `json:"c1"`
	C2   Point `json:"c2"`
	To   Point `json:"to"`
}

// String returns the SVG path data, e.g. "M 0 0 C 60 0, 40 10, 100 10".
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, p.From)
	b.WriteString(" C ")
	writePoint(&b, p.C1)
	b.WriteString(", ")
	writePoint(&b, p.C2)
	b.WriteString(", ")
	writePoint(&b, p.To)
	return b.String()
}

// At evaluates the curve at parameter t in [0, 1].
func (p Path) At(t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Point{
		X: a*p.From.X + b*p.C1.X + c*p.C2.X + d*p.To.X,
		Y: a*p.From.Y + b*p.C1.Y + c*p.C2.Y + d*p.To.Y,
	}
}

// EdgePath routes a table-level edge from the right-center of src to the
// left-center of tgt. The control offset is max(0.5·|Δx|, 60).
func EdgePath(src, tgt Rect) Path {
	from := NodeEdgeCenter(src, SideRight)
	to := NodeEdgeCenter(tgt, SideLeft)
	return bezier(from, to, edgeCurvature, edgeMinOffset)
}

// ColumnEdgePath routes a column-level edge between two ports. The control
// offset is max(0.4·|Δx|, 40).
func ColumnEdgePath(from, to Point) Path {
	return bezier(from, to, columnEdgeCurvature, columnEdgeMinOffset)
}

// NodeEdgeCenter returns the vertical center of rect's left or right boundary.
func NodeEdgeCenter(rect Rect, side Side) Point {
	y := rect.Y + rect.Height/2
	if side == SideRight {
		return Point{X: rect.Right(), Y: y}
	}
	return Point{X: rect.X, Y: y}
}

func bezier(from, to Point, curvature, minOffset float64) Path {
	dx := math.Max(math.Abs(to.X-from.X)*curvature, minOffset)
	return Path{
		From: from,
		C1:   Point{X: from.X + dx, Y: from.Y},
		C2:   Point{X: to.X - dx, Y: to.Y},
		To:   to,
	}
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(formatNum(p.X))
	b.WriteByte(' ')
	b.WriteString(formatNum(p.Y))
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

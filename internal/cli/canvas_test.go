package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/lineageview/pkg/diagram"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/lineage"
	"github.com/matzehuels/lineageview/pkg/viewport"
)

func tableFrame(expanded bool) diagram.Frame {
	n := diagram.NodeRecord{
		ID:          "orders",
		Type:        lineage.NodeTable,
		Label:       "orders",
		Subtitle:    "shop.public",
		ColumnCount: 2,
		Rect:        geom.Rect{X: 16, Y: 32, Width: 160, Height: 64},
		Expanded:    expanded,
	}
	return diagram.Frame{
		Transform: geom.Transform{Scale: 1},
		Nodes:     []diagram.NodeRecord{n},
	}
}

func TestCanvasDrawNode(t *testing.T) {
	cv := newCanvas(30, 8)
	cv.draw(tableFrame(false), "")
	lines := cv.lines()

	if got := []rune(lines[2])[2]; got != '╭' {
		t.Errorf("corner = %q, want '╭'", got)
	}
	if got := []rune(lines[5])[21]; got != '╯' {
		t.Errorf("corner = %q, want '╯'", got)
	}
	if !strings.Contains(lines[3], "orders") {
		t.Errorf("label row = %q, want it to contain the label", lines[3])
	}
	if !strings.Contains(lines[3], "▸") {
		t.Errorf("label row = %q, want a collapsed marker", lines[3])
	}
	if !strings.Contains(lines[4], "shop.public") {
		t.Errorf("subtitle row = %q, want it to contain the subtitle", lines[4])
	}
	if !strings.Contains(lines[2], " 2 ") {
		t.Errorf("top border = %q, want the column count badge", lines[2])
	}
}

func TestCanvasClipsOutsideCells(t *testing.T) {
	cv := newCanvas(4, 2)
	cv.set(-1, 0, 'x', kindEdge)
	cv.set(4, 1, 'x', kindEdge)
	cv.text(2, 1, "abcdef", 10, kindEdge)

	want := []string{"    ", "  ab"}
	for i, line := range cv.lines() {
		if line != want[i] {
			t.Errorf("line %d = %q, want %q", i, line, want[i])
		}
	}
}

func TestCanvasTextEllipsis(t *testing.T) {
	cv := newCanvas(10, 1)
	cv.text(0, 0, "fact_orders", 5, kindEdge)
	if got := cv.lines()[0]; got != "fact…     " {
		t.Errorf("line = %q, want %q", got, "fact…     ")
	}
}

func TestCellRectMinimum(t *testing.T) {
	x0, y0, x1, y1 := cellRect(geom.Rect{X: 8, Y: 16, Width: 1, Height: 1})
	if x0 != 1 || y0 != 1 || x1 != 3 || y1 != 2 {
		t.Errorf("cellRect() = %d,%d,%d,%d, want 1,1,3,2", x0, y0, x1, y1)
	}
}

func TestHitTest(t *testing.T) {
	f := tableFrame(true)
	f.Nodes = append(f.Nodes, diagram.NodeRecord{
		ID:   "etl",
		Type: lineage.NodePipeline,
		Rect: geom.Rect{X: 300, Y: 32, Width: 100, Height: 64},
	})

	tests := []struct {
		name string
		p    geom.Point
		want viewport.Target
	}{
		{"canvas", geom.Point{X: 4, Y: 4}, viewport.Target{Kind: viewport.TargetCanvas}},
		{"header", geom.Point{X: 40, Y: 40}, viewport.Target{Kind: viewport.TargetNodeHeader, NodeID: "orders"}},
		{"body", geom.Point{X: 40, Y: 90}, viewport.Target{Kind: viewport.TargetNodeBody, NodeID: "orders"}},
		{"expand control", geom.Point{X: 170, Y: 40}, viewport.Target{Kind: viewport.TargetExpandControl, NodeID: "orders"}},
		{"pipeline corner is header", geom.Point{X: 395, Y: 40}, viewport.Target{Kind: viewport.TargetNodeHeader, NodeID: "etl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hitTest(f, tt.p); got != tt.want {
				t.Errorf("hitTest(%v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestHitTestScaled(t *testing.T) {
	f := tableFrame(true)
	f.Transform = geom.Transform{TranslateX: 100, Scale: 2}

	// The node spans x 132..452 and y 64..192 in view space.
	if got := hitTest(f, geom.Point{X: 140, Y: 70}); got.Kind != viewport.TargetNodeHeader {
		t.Errorf("hitTest() kind = %v, want header", got.Kind)
	}
	if got := hitTest(f, geom.Point{X: 20, Y: 40}); got.Kind != viewport.TargetCanvas {
		t.Errorf("hitTest() kind = %v, want canvas", got.Kind)
	}
	if got := hitTest(f, geom.Point{X: 140, Y: 180}); got.Kind != viewport.TargetNodeBody {
		t.Errorf("hitTest() kind = %v, want body", got.Kind)
	}
}

package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= eps }

func TestEdgePath(t *testing.T) {
	tests := []struct {
		name string
		src  Rect
		tgt  Rect
		want string
	}{
		{
			name: "far apart uses half the distance",
			src:  Rect{X: 0, Y: 0, Width: 100, Height: 40},
			tgt:  Rect{X: 400, Y: 100, Width: 100, Height: 20},
			want: "M 100 20 C 250 20, 250 110, 400 110",
		},
		{
			name: "close together uses the minimum offset",
			src:  Rect{X: 0, Y: 0, Width: 100, Height: 40},
			tgt:  Rect{X: 120, Y: 0, Width: 100, Height: 40},
			want: "M 100 20 C 160 20, 60 20, 120 20",
		},
		{
			name: "stacked nodes",
			src:  Rect{X: 0, Y: 0, Width: 100, Height: 40},
			tgt:  Rect{X: 100, Y: 200, Width: 100, Height: 40},
			want: "M 100 20 C 160 20, 40 220, 100 220",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EdgePath(tt.src, tt.tgt).String(); got != tt.want {
				t.Errorf("EdgePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColumnEdgePath(t *testing.T) {
	got := ColumnEdgePath(Point{X: 0, Y: 10}, Point{X: 200, Y: 50})
	if got.C1 != (Point{X: 80, Y: 10}) || got.C2 != (Point{X: 120, Y: 50}) {
		t.Errorf("ColumnEdgePath() controls = %v %v, want (80,10) (120,50)", got.C1, got.C2)
	}

	short := ColumnEdgePath(Point{X: 0, Y: 0}, Point{X: 10, Y: 0})
	if short.C1.X != 40 || short.C2.X != -30 {
		t.Errorf("ColumnEdgePath() short controls = %v %v, want x=40 and x=-30", short.C1, short.C2)
	}
}

func TestPathEndpoints(t *testing.T) {
	p := EdgePath(Rect{X: 10, Y: 10, Width: 50, Height: 50}, Rect{X: 300, Y: 90, Width: 50, Height: 30})
	if p.At(0) != p.From {
		t.Errorf("At(0) = %v, want %v", p.At(0), p.From)
	}
	end := p.At(1)
	if !near(end.X, p.To.X) || !near(end.Y, p.To.Y) {
		t.Errorf("At(1) = %v, want %v", end, p.To)
	}
}

func TestNodeEdgeCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 60}
	if got := NodeEdgeCenter(r, SideLeft); got != (Point{X: 10, Y: 50}) {
		t.Errorf("NodeEdgeCenter(left) = %v", got)
	}
	if got := NodeEdgeCenter(r, SideRight); got != (Point{X: 110, Y: 50}) {
		t.Errorf("NodeEdgeCenter(right) = %v", got)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{TranslateX: 37.5, TranslateY: -12, Scale: 0.73}
	for _, p := range []Point{{0, 0}, {100, 250}, {-40, 13.25}} {
		back := tr.ToGraph(tr.ToView(p))
		if !near(back.X, p.X) || !near(back.Y, p.Y) {
			t.Errorf("ToGraph(ToView(%v)) = %v", p, back)
		}
	}
}

func TestTransformCSS(t *testing.T) {
	tr := Transform{TranslateX: 10, TranslateY: -5.5, Scale: 1.25}
	want := "translate(10px, -5.5px) scale(1.25)"
	if got := tr.CSS(); got != want {
		t.Errorf("CSS() = %q, want %q", got, want)
	}
	if got := tr.Percent(); got != 125 {
		t.Errorf("Percent() = %d, want 125", got)
	}
}

func TestPortPosition(t *testing.T) {
	tr := Transform{TranslateX: 100, TranslateY: 50, Scale: 2}
	loc := PortLocatorFunc(func(nodeID, column string, side Side) (Point, bool) {
		if nodeID != "orders" || column != "id" {
			return Point{}, false
		}
		if side == SideLeft {
			return Point{X: 300, Y: 250}, true
		}
		return Point{X: 500, Y: 250}, true
	})

	got, ok := PortPosition(loc, "orders", "id", SideLeft, tr)
	if !ok {
		t.Fatal("PortPosition() ok = false, want true")
	}
	if got != (Point{X: 100, Y: 100}) {
		t.Errorf("PortPosition() = %v, want (100,100)", got)
	}

	if _, ok := PortPosition(loc, "orders", "missing", SideRight, tr); ok {
		t.Error("PortPosition() for a missing column should be absent")
	}
	if _, ok := PortPosition(nil, "orders", "id", SideRight, tr); ok {
		t.Error("PortPosition() with no locator should be absent")
	}
}

func TestBounds(t *testing.T) {
	if _, ok := Bounds(nil); ok {
		t.Error("Bounds(nil) ok = true, want false")
	}
	b, _ := Bounds([]Rect{{X: 0, Y: 0, Width: 10, Height: 10}, {X: 20, Y: -5, Width: 5, Height: 5}})
	want := Rect{X: 0, Y: -5, Width: 25, Height: 15}
	if b != want {
		t.Errorf("Bounds() = %v, want %v", b, want)
	}
}

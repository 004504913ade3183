package layered

import (
	"context"
	"math"
	"testing"

	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/layout"
)

func lineageFixture() ([]layout.SizedNode, []layout.EdgeRef) {
	nodes := []layout.SizedNode{
		{ID: "raw_orders", Width: 260, Height: 64},
		{ID: "raw_customers", Width: 260, Height: 64},
		{ID: "raw_products", Width: 260, Height: 64},
		{ID: "etl", Width: 200, Height: 94},
		{ID: "fact_orders", Width: 260, Height: 324},
		{ID: "dim_customer", Width: 260, Height: 64},
		{ID: "dashboard", Width: 220, Height: 100},
	}
	edges := []layout.EdgeRef{
		{Source: "raw_orders", Target: "etl"},
		{Source: "raw_customers", Target: "etl"},
		{Source: "raw_products", Target: "etl"},
		{Source: "etl", Target: "fact_orders"},
		{Source: "etl", Target: "dim_customer"},
		{Source: "fact_orders", Target: "dashboard"},
		{Source: "dim_customer", Target: "dashboard"},
		{Source: "raw_orders", Target: "dashboard"}, // long edge
	}
	return nodes, edges
}

func rects(nodes []layout.SizedNode, centers map[string]geom.Point) map[string]geom.Rect {
	out := make(map[string]geom.Rect, len(nodes))
	for _, n := range nodes {
		c := centers[n.ID]
		out[n.ID] = geom.Rect{X: c.X - n.Width/2, Y: c.Y - n.Height/2, Width: n.Width, Height: n.Height}
	}
	return out
}

func TestComputeLayoutLeftToRight(t *testing.T) {
	nodes, edges := lineageFixture()
	centers, err := New().ComputeLayout(context.Background(), nodes, edges, layout.DefaultConfig())
	if err != nil {
		t.Fatalf("ComputeLayout() error: %v", err)
	}
	if len(centers) != len(nodes) {
		t.Fatalf("ComputeLayout() returned %d positions, want %d", len(centers), len(nodes))
	}
	r := rects(nodes, centers)
	for _, e := range edges {
		if r[e.Source].Right() >= r[e.Target].X {
			t.Errorf("edge %s→%s: source right %v not left of target x %v", e.Source, e.Target, r[e.Source].Right(), r[e.Target].X)
		}
	}
}

func TestComputeLayoutNoOverlap(t *testing.T) {
	nodes, edges := lineageFixture()
	centers, err := New().ComputeLayout(context.Background(), nodes, edges, layout.DefaultConfig())
	if err != nil {
		t.Fatalf("ComputeLayout() error: %v", err)
	}
	r := rects(nodes, centers)
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			if r[a.ID].Overlaps(r[b.ID]) {
				t.Errorf("%s %v overlaps %s %v", a.ID, r[a.ID], b.ID, r[b.ID])
			}
		}
	}
}

func TestComputeLayoutDeterministic(t *testing.T) {
	nodes, edges := lineageFixture()
	cfg := layout.DefaultConfig()
	first, _ := New().ComputeLayout(context.Background(), nodes, edges, cfg)
	for i := 0; i < 5; i++ {
		again, _ := New().ComputeLayout(context.Background(), nodes, edges, cfg)
		for id, p := range first {
			if again[id] != p {
				t.Fatalf("run %d: %s = %v, want %v", i, id, again[id], p)
			}
		}
	}
}

func TestComputeLayoutMargins(t *testing.T) {
	nodes, edges := lineageFixture()
	cfg := layout.DefaultConfig()
	centers, _ := New().ComputeLayout(context.Background(), nodes, edges, cfg)
	bounds, _ := geom.Bounds(mapValues(rects(nodes, centers)))
	if math.Abs(bounds.X-cfg.MarginX) > 1e-9 {
		t.Errorf("bounds.X = %v, want %v", bounds.X, cfg.MarginX)
	}
	if math.Abs(bounds.Y-cfg.MarginY) > 1e-9 {
		t.Errorf("bounds.Y = %v, want %v", bounds.Y, cfg.MarginY)
	}
}

func TestComputeLayoutCycle(t *testing.T) {
	nodes := []layout.SizedNode{{ID: "a", Width: 10, Height: 10}, {ID: "b", Width: 10, Height: 10}, {ID: "c", Width: 10, Height: 10}}
	edges := []layout.EdgeRef{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}, {Source: "c", Target: "a"}, {Source: "a", Target: "a"}}
	centers, err := New().ComputeLayout(context.Background(), nodes, edges, layout.DefaultConfig())
	if err != nil {
		t.Fatalf("ComputeLayout() error: %v", err)
	}
	if !(centers["a"].X < centers["b"].X && centers["b"].X < centers["c"].X) {
		t.Errorf("cycle should be broken at the back edge: %v", centers)
	}
}

func TestComputeLayoutErrors(t *testing.T) {
	tests := []struct {
		name  string
		nodes []layout.SizedNode
		edges []layout.EdgeRef
		want  errors.Code
	}{
		{"duplicate node", []layout.SizedNode{{ID: "a"}, {ID: "a"}}, nil, errors.ErrCodeDuplicateNode},
		{"unknown source", []layout.SizedNode{{ID: "a"}}, []layout.EdgeRef{{Source: "x", Target: "a"}}, errors.ErrCodeUnknownNode},
		{"unknown target", []layout.SizedNode{{ID: "a"}}, []layout.EdgeRef{{Source: "a", Target: "x"}}, errors.ErrCodeUnknownNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().ComputeLayout(context.Background(), tt.nodes, tt.edges, layout.DefaultConfig())
			if !errors.Is(err, tt.want) {
				t.Errorf("ComputeLayout() error = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestComputeLayoutEmpty(t *testing.T) {
	centers, err := New().ComputeLayout(context.Background(), nil, nil, layout.DefaultConfig())
	if err != nil || len(centers) != 0 {
		t.Errorf("ComputeLayout(empty) = %v, %v", centers, err)
	}
}

func TestOrderingRemovesCrossing(t *testing.T) {
	// a→d and b→c in input order cross; one sweep fixes it.
	nodes := []layout.SizedNode{
		{ID: "a", Width: 10, Height: 10}, {ID: "b", Width: 10, Height: 10},
		{ID: "c", Width: 10, Height: 10}, {ID: "d", Width: 10, Height: 10},
	}
	edges := []layout.EdgeRef{{Source: "a", Target: "d"}, {Source: "b", Target: "c"}}
	g, err := build(nodes, edges)
	if err != nil {
		t.Fatal(err)
	}
	g.breakCycles()
	g.assignRanks()
	g.splitLongEdges()
	if g.crossings() != 1 {
		t.Fatalf("initial crossings = %d, want 1", g.crossings())
	}
	if err := g.order(context.Background(), DefaultSweeps); err != nil {
		t.Fatal(err)
	}
	if g.crossings() != 0 {
		t.Errorf("crossings after ordering = %d, want 0", g.crossings())
	}
}

func TestComputeLayoutCanceled(t *testing.T) {
	nodes := []layout.SizedNode{
		{ID: "a", Width: 10, Height: 10}, {ID: "b", Width: 10, Height: 10},
		{ID: "c", Width: 10, Height: 10}, {ID: "d", Width: 10, Height: 10},
	}
	edges := []layout.EdgeRef{{Source: "a", Target: "d"}, {Source: "b", Target: "c"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().ComputeLayout(ctx, nodes, edges, layout.DefaultConfig()); err == nil {
		t.Error("ComputeLayout() with canceled context should fail")
	}
}

func mapValues(m map[string]geom.Rect) []geom.Rect {
	out := make([]geom.Rect, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	return out
}

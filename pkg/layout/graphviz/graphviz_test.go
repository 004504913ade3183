package graphviz

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/layout"
)

func TestToDOT(t *testing.T) {
	nodes := []layout.SizedNode{{ID: "raw_orders", Width: 260, Height: 64}, {ID: `we"ird`, Width: 72, Height: 36}}
	edges := []layout.EdgeRef{{Source: "raw_orders", Target: `we"ird`}, {Source: "raw_orders", Target: "raw_orders"}}

	dot := ToDOT(nodes, edges, layout.DefaultConfig())

	for _, want := range []string{
		"rankdir=LR;",
		"nodesep=0.8333;",
		"ranksep=2.5000;",
		`"raw_orders" [width=3.6111, height=0.8889];`,
		`"we\"ird" [width=1.0000, height=0.5000];`,
		`"raw_orders" -> "we\"ird";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"raw_orders" -> "raw_orders"`) {
		t.Error("ToDOT() should drop self-loops")
	}
}

func TestParsePlain(t *testing.T) {
	plain := `graph 1 8.5 2
node a 1.8 1.5 3.6111 0.8889 "" solid box black lightgrey
node "b c" 6.5 0.5 2.7778 0.8889 "" solid box black lightgrey
edge a "b c" 4 3.6 1.5 4.5 1.5 5 0.5 5.1 0.5 solid black
stop
`
	got, err := ParsePlain([]byte(plain), layout.Config{MarginX: 10, MarginY: 20})
	if err != nil {
		t.Fatalf("ParsePlain() error: %v", err)
	}
	want := map[string]geom.Point{
		"a":   {X: 1.8*72 + 10, Y: 0.5*72 + 20},
		"b c": {X: 6.5*72 + 10, Y: 1.5*72 + 20},
	}
	for id, w := range want {
		g := got[id]
		if math.Abs(g.X-w.X) > 1e-9 || math.Abs(g.Y-w.Y) > 1e-9 {
			t.Errorf("ParsePlain()[%q] = %v, want %v", id, g, w)
		}
	}
}

func TestParsePlainErrors(t *testing.T) {
	tests := []struct {
		name  string
		plain string
	}{
		{"node before graph", "node a 1 1 1 1\n"},
		{"bad position", "graph 1 2 2\nnode a x 1 1 1\n"},
		{"unterminated quote", "graph 1 2 2\nnode \"a 1 1 1 1\n"},
		{"short graph", "graph 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePlain([]byte(tt.plain), layout.Config{}); err == nil {
				t.Error("ParsePlain() error = nil, want error")
			}
		})
	}
}

func TestSplitPlain(t *testing.T) {
	got, err := splitPlain(`node "a \"q\" b" 1 2`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"node", `a "q" b`, "1", "2"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("splitPlain() = %q, want %q", got, want)
	}
}

func TestComputeLayout(t *testing.T) {
	nodes := []layout.SizedNode{
		{ID: "raw_orders", Width: 260, Height: 64},
		{ID: "etl", Width: 200, Height: 94},
		{ID: "fact_orders", Width: 260, Height: 64},
		{ID: "dim_customer", Width: 260, Height: 64},
	}
	edges := []layout.EdgeRef{
		{Source: "raw_orders", Target: "etl"},
		{Source: "etl", Target: "fact_orders"},
		{Source: "etl", Target: "dim_customer"},
	}
	centers, err := New().ComputeLayout(context.Background(), nodes, edges, layout.DefaultConfig())
	if err != nil {
		t.Fatalf("ComputeLayout() error: %v", err)
	}
	if len(centers) != len(nodes) {
		t.Fatalf("ComputeLayout() returned %d centers, want %d", len(centers), len(nodes))
	}

	rect := func(n layout.SizedNode) geom.Rect {
		c := centers[n.ID]
		return geom.Rect{X: c.X - n.Width/2, Y: c.Y - n.Height/2, Width: n.Width, Height: n.Height}
	}
	byID := map[string]layout.SizedNode{}
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for _, e := range edges {
		if rect(byID[e.Source]).Right() >= rect(byID[e.Target]).X {
			t.Errorf("edge %s→%s is not left to right", e.Source, e.Target)
		}
	}
	if rect(byID["fact_orders"]).Overlaps(rect(byID["dim_customer"])) {
		t.Error("sibling nodes overlap")
	}
}

func TestComputeLayoutUnknownNode(t *testing.T) {
	_, err := New().ComputeLayout(context.Background(),
		[]layout.SizedNode{{ID: "a", Width: 10, Height: 10}},
		[]layout.EdgeRef{{Source: "a", Target: "ghost"}},
		layout.DefaultConfig())
	if !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Errorf("ComputeLayout() error = %v, want code %s", err, errors.ErrCodeUnknownNode)
	}
}

package cli

import (
	"context"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/lineageview/pkg/diagram"
	"github.com/matzehuels/lineageview/pkg/document"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/highlight"
	"github.com/matzehuels/lineageview/pkg/viewport"
)

func newTestViewModel(t *testing.T) *viewModel {
	t.Helper()
	c := newTestCLI(t)
	engine, closeCache, err := c.newEngine(true)
	if err != nil {
		t.Fatalf("newEngine() error = %v", err)
	}
	t.Cleanup(func() { closeCache() })

	sched := &viewport.ManualScheduler{}
	d := c.newDiagram(engine, diagram.WithScheduler(sched))
	ctx := context.Background()
	if err := d.Load(ctx, document.Example()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	sched.Flush()

	m := newViewModel(ctx, d, sched, "")
	m.resize(160, 50)
	return m
}

func TestViewModelZoomKeys(t *testing.T) {
	m := newTestViewModel(t)
	ctrl := m.d.Controller()
	ctrl.ZoomAt(geom.Point{}, 1)

	m.key("+")
	if got := ctrl.Transform().Scale; math.Abs(got-1.1) > eps {
		t.Errorf("Scale after + = %v, want 1.1", got)
	}
	m.key("-")
	m.key("-")
	if got := ctrl.Transform().Scale; math.Abs(got-0.9) > eps {
		t.Errorf("Scale after two - = %v, want 0.9", got)
	}
}

func TestViewModelSelection(t *testing.T) {
	m := newTestViewModel(t)
	ids := m.d.Graph().NodeIDs()
	if m.selected != ids[0] {
		t.Fatalf("initial selection = %q, want %q", m.selected, ids[0])
	}

	m.key("tab")
	if m.selected != ids[1] {
		t.Errorf("selection after tab = %q, want %q", m.selected, ids[1])
	}
	m.key("shift+tab")
	m.key("shift+tab")
	if m.selected != ids[len(ids)-1] {
		t.Errorf("selection after wrapping back = %q, want %q", m.selected, ids[len(ids)-1])
	}
}

func TestViewModelExpandAll(t *testing.T) {
	m := newTestViewModel(t)

	m.key("e")
	m.sched.Flush()
	g := m.d.Graph()
	for _, n := range g.Nodes() {
		if n.IsTable() && !g.IsExpanded(n.ID) {
			t.Errorf("table %s is not expanded", n.ID)
		}
	}

	m.key("E")
	m.sched.Flush()
	if ids := g.ExpandedIDs(); len(ids) != 0 {
		t.Errorf("ExpandedIDs() after collapse = %v, want none", ids)
	}
}

func TestViewModelHighlightKeys(t *testing.T) {
	m := newTestViewModel(t)
	hl := m.d.Highlighter()
	m.selected = "dim_customer"

	m.key("n")
	if hl.Mode() != highlight.ModeNode {
		t.Errorf("Mode() after n = %v, want node", hl.Mode())
	}

	m.key("c")
	if hl.Mode() != highlight.ModeColumn {
		t.Errorf("Mode() after c = %v, want column", hl.Mode())
	}
	if got := hl.State().Column.Column; got != "customer_key" {
		t.Errorf("highlighted column = %q, want customer_key", got)
	}
	m.key("c")
	if got := hl.State().Column.Column; got != "customer_id" {
		t.Errorf("highlighted column = %q, want customer_id", got)
	}

	m.key("esc")
	if hl.Mode() != highlight.ModeNone {
		t.Errorf("Mode() after esc = %v, want none", hl.Mode())
	}
}

func TestViewModelCanvasClickClearsHighlight(t *testing.T) {
	m := newTestViewModel(t)
	hl := m.d.Highlighter()
	hl.HighlightNode("etl_order_enrichment")

	m.mouse(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.mouse(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if hl.Mode() != highlight.ModeNone {
		t.Errorf("Mode() after canvas click = %v, want none", hl.Mode())
	}
	if m.d.Controller().Mode() != viewport.ModeIdle {
		t.Errorf("controller mode = %v, want idle", m.d.Controller().Mode())
	}
}

func TestViewModelDragNode(t *testing.T) {
	m := newTestViewModel(t)
	ctrl := m.d.Controller()
	ctrl.ZoomAt(geom.Point{}, 2.5)

	g := m.d.Graph()
	before, _ := g.Rect("fact_orders")
	view := ctrl.Transform().RectToView(before)
	cx, cy := cellOf(geom.Point{X: view.X, Y: view.Y})
	cx, cy = cx+2, cy+1

	m.mouse(tea.MouseMsg{X: cx, Y: cy, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if id, ok := ctrl.DraggedNode(); !ok || id != "fact_orders" {
		t.Fatalf("DraggedNode() = %q, %v; want fact_orders, true", id, ok)
	}
	m.mouse(tea.MouseMsg{X: cx + 5, Y: cy, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.mouse(tea.MouseMsg{X: cx + 5, Y: cy, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	after, _ := g.Rect("fact_orders")
	// Five cells are 40 view units, 16 graph units at 250%.
	if math.Abs(after.X-before.X-16) > eps || math.Abs(after.Y-before.Y) > eps {
		t.Errorf("node moved from %v to %v, want +16 on x only", before, after)
	}
	if hl := m.d.Highlighter(); hl.Mode() != highlight.ModeNone {
		t.Errorf("drag changed the highlight to %v", hl.Mode())
	}
}

func TestViewModelView(t *testing.T) {
	m := newTestViewModel(t)
	out := m.View()

	for _, want := range []string{"selected raw_orders", "q quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if got := strings.Count(out, "\n"); got != 49 {
		t.Errorf("View() has %d line breaks, want 49", got)
	}
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageview/pkg/diagram"
	"github.com/matzehuels/lineageview/pkg/document"
	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/layout"
	"github.com/matzehuels/lineageview/pkg/lineage"
	"github.com/matzehuels/lineageview/pkg/viewport"
)

const (
	tickInterval = 40 * time.Millisecond
	panStepCells = 4
	chromeRows   = 2 // status and help lines
)

// viewOpts holds the command-line flags for the view command.
type viewOpts struct {
	watch   bool
	noCache bool
	logFile string
}

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view [lineage.json]",
		Short: "Explore the diagram interactively in the terminal",
		Long: `Explore the diagram interactively in the terminal.

Mouse: drag a node header to move it, drag the background to pan, scroll to
zoom around the pointer, click a table's ▸ to expand it, click a node or a
column to highlight its lineage, click the background to clear.

Keys:
  arrows/hjkl  pan              + / -   zoom
  f            fit to screen    r       reset layout
  tab          next node        space   expand/collapse node
  n            highlight node   c       highlight next column
  e / E        expand/collapse all
  esc          clear highlight  q       quit

With --watch the document is reloaded whenever the file changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := inputArg(args)
			if opts.watch && input == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--watch needs an input file")
			}
			return c.runView(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload when the input file changes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file while the viewer runs")

	return cmd
}

func (c *CLI) runView(ctx context.Context, input string, opts viewOpts) error {
	doc, _, err := document.LoadOrExample(input, c.Logger)
	if err != nil {
		return err
	}

	// The terminal belongs to the viewer; logs go to --log-file or nowhere.
	var logOut io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, c.Logger.GetLevel())
	ctx = withLogger(ctx, logger)

	engine, closeCache, err := c.newEngine(opts.noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	sched := &viewport.ManualScheduler{}
	d := c.newDiagram(engine, diagram.WithLogger(logger), diagram.WithScheduler(sched))
	if err := d.Load(ctx, doc); err != nil {
		return err
	}

	m := newViewModel(ctx, d, sched, input)
	if opts.watch {
		changes, err := watchFile(ctx, input)
		if err != nil {
			return err
		}
		m.changes = changes
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// =============================================================================
// viewModel - bubbletea surface driving the viewport controller
// =============================================================================

type (
	tickMsg   time.Time
	reloadMsg struct{}
)

// viewModel is the bubbletea model of the viewer. It owns the diagram and
// advances the diagram's scheduler on every tick.
type viewModel struct {
	ctx    context.Context
	d      *diagram.Diagram
	sched  *viewport.ManualScheduler
	input  string
	logger *log.Logger

	width, height int
	selected      string
	columnCursor  int
	status        string

	// pointer gesture bookkeeping
	pressed  viewport.Target
	pressAt  geom.Point
	moved    bool
	gestured bool

	changes <-chan struct{}
}

func newViewModel(ctx context.Context, d *diagram.Diagram, sched *viewport.ManualScheduler, input string) *viewModel {
	m := &viewModel{
		ctx:    ctx,
		d:      d,
		sched:  sched,
		input:  input,
		logger: loggerFromContext(ctx),
	}
	if ids := d.Graph().NodeIDs(); len(ids) > 0 {
		m.selected = ids[0]
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *viewModel) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-m.changes; !ok {
			return nil
		}
		return reloadMsg{}
	}
}

func (m *viewModel) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitForChange())
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.sched.Advance(tickInterval)
		m.sched.Frame()
		return m, tick()
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case reloadMsg:
		m.reload()
		return m, m.waitForChange()
	case tea.MouseMsg:
		m.mouse(msg)
		return m, nil
	case tea.KeyMsg:
		if quit := m.key(msg.String()); quit {
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m *viewModel) resize(w, h int) {
	first := m.width == 0
	m.width, m.height = w, h
	m.d.Resize(geom.Size{
		Width:  float64(w) * cellSize.Width,
		Height: float64(max(h-chromeRows, 1)) * cellSize.Height,
	})
	if first {
		m.d.Controller().Fit()
	}
}

func (m *viewModel) key(k string) (quit bool) {
	ctrl := m.d.Controller()
	hl := m.d.Highlighter()
	m.status = ""

	switch k {
	case "q", "ctrl+c":
		return true
	case "left", "h":
		ctrl.Pan(panStepCells*cellSize.Width, 0)
	case "right", "l":
		ctrl.Pan(-panStepCells*cellSize.Width, 0)
	case "up", "k":
		ctrl.Pan(0, panStepCells*cellSize.Height/2)
	case "down", "j":
		ctrl.Pan(0, -panStepCells*cellSize.Height/2)
	case "+", "=":
		ctrl.ZoomIn()
	case "-", "_":
		ctrl.ZoomOut()
	case "f":
		ctrl.Fit()
	case "r":
		if err := m.d.ResetLayout(m.ctx); err != nil {
			m.status = errors.UserMessage(err)
		}
	case "tab":
		m.selectNext(1)
	case "shift+tab":
		m.selectNext(-1)
	case " ", "enter":
		if m.selected != "" {
			ctrl.ToggleExpanded(m.selected)
		}
	case "e":
		ctrl.ExpandAll()
	case "E":
		ctrl.CollapseAll()
	case "n":
		hl.HighlightNode(m.selected)
	case "c":
		m.highlightNextColumn()
	case "esc":
		hl.Clear()
	}
	return false
}

func (m *viewModel) selectNext(step int) {
	ids := m.d.Graph().NodeIDs()
	if len(ids) == 0 {
		return
	}
	i := 0
	for j, id := range ids {
		if id == m.selected {
			i = j
			break
		}
	}
	i = ((i+step)%len(ids) + len(ids)) % len(ids)
	m.selected = ids[i]
	m.columnCursor = 0
}

// highlightNextColumn walks the selected table's columns one at a time.
func (m *viewModel) highlightNextColumn() {
	n, ok := m.d.Graph().Node(m.selected)
	if !ok || len(n.Columns) == 0 {
		m.status = "selected node has no columns"
		return
	}
	col := n.Columns[m.columnCursor%len(n.Columns)]
	m.columnCursor++
	m.d.Highlighter().HighlightColumn(n.ID, col.Name)
}

// mouse translates terminal mouse events into controller gestures and
// highlight clicks.
func (m *viewModel) mouse(msg tea.MouseMsg) {
	p := cellCenter(msg.X, msg.Y)
	ctrl := m.d.Controller()

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		ctrl.Wheel(p, -1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		ctrl.Wheel(p, 1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.pressed = hitTest(m.d.Frame(), p)
		m.pressAt, m.moved = p, false
		m.gestured = ctrl.PointerDown(m.pressed, p)
	case msg.Action == tea.MouseActionMotion:
		if m.gestured && p != m.pressAt {
			m.moved = true
			ctrl.PointerMove(p)
		}
	case msg.Action == tea.MouseActionRelease:
		if m.gestured {
			ctrl.PointerUp()
		}
		if !m.moved {
			m.click(m.pressed, p)
		}
		m.gestured, m.moved = false, false
	}
}

// click handles a press and release without movement.
func (m *viewModel) click(target viewport.Target, p geom.Point) {
	hl := m.d.Highlighter()
	switch target.Kind {
	case viewport.TargetCanvas:
		hl.Clear()
	case viewport.TargetExpandControl:
		m.selected = target.NodeID
		m.d.Controller().ToggleExpanded(target.NodeID)
	case viewport.TargetNodeHeader, viewport.TargetNodeBody:
		m.selected = target.NodeID
		if col, ok := columnAt(m.d, target.NodeID, p); ok {
			hl.HighlightColumn(target.NodeID, col)
			return
		}
		hl.HighlightNode(target.NodeID)
	}
}

func cellCenter(x, y int) geom.Point {
	return geom.Point{
		X: (float64(x) + 0.5) * cellSize.Width,
		Y: (float64(y) + 0.5) * cellSize.Height,
	}
}

// hitTest finds what a view-space point lands on. Later nodes are drawn on
// top, so they win.
func hitTest(f diagram.Frame, p geom.Point) viewport.Target {
	t := f.Transform
	for i := len(f.Nodes) - 1; i >= 0; i-- {
		n := f.Nodes[i]
		r := t.RectToView(n.Rect)
		if p.X < r.X || p.X > r.Right() || p.Y < r.Y || p.Y > r.Bottom() {
			continue
		}
		if p.Y > r.Y+layout.HeaderHeight*t.Scale {
			return viewport.Target{Kind: viewport.TargetNodeBody, NodeID: n.ID}
		}
		if n.Type == lineage.NodeTable && p.X > r.Right()-2*cellSize.Width {
			return viewport.Target{Kind: viewport.TargetExpandControl, NodeID: n.ID}
		}
		return viewport.Target{Kind: viewport.TargetNodeHeader, NodeID: n.ID}
	}
	return viewport.Target{Kind: viewport.TargetCanvas}
}

// columnAt returns the column row of an expanded table under p.
func columnAt(d *diagram.Diagram, id string, p geom.Point) (string, bool) {
	n, ok := d.Graph().Node(id)
	if !ok || !n.IsTable() || !d.Graph().IsExpanded(id) {
		return "", false
	}
	r, ok := d.Router().NodeRect(id)
	if !ok {
		return "", false
	}
	gp := d.Controller().Transform().ToGraph(p)
	for i, col := range n.Columns {
		center := r.Y + layout.ColumnRowCenter(i)
		if gp.Y >= center-layout.ColumnRowHeight/2 && gp.Y < center+layout.ColumnRowHeight/2 {
			return col.Name, true
		}
	}
	return "", false
}

// reload re-reads the watched file. A document that fails to load leaves the
// current diagram untouched.
func (m *viewModel) reload() {
	doc, err := document.ReadFile(m.input)
	if err == nil {
		err = m.d.Load(m.ctx, doc)
	}
	if err != nil {
		m.logger.Warn("reload failed", "path", m.input, "err", err)
		m.status = "reload failed: " + errors.UserMessage(err)
		return
	}
	if _, ok := m.d.Graph().Node(m.selected); !ok {
		m.selected = ""
		if ids := m.d.Graph().NodeIDs(); len(ids) > 0 {
			m.selected = ids[0]
		}
	}
	m.columnCursor = 0
	m.status = "reloaded " + m.input
	m.logger.Info("document reloaded", "path", m.input, "nodes", m.d.Graph().NodeCount())
}

func (m *viewModel) View() string {
	if m.width == 0 {
		return "loading…"
	}
	frame := m.d.Frame()
	cv := newCanvas(m.width, max(m.height-chromeRows, 0))
	cv.draw(frame, m.selected)

	var b strings.Builder
	b.WriteString(cv.render())
	b.WriteByte('\n')
	b.WriteString(m.statusLine(frame))
	b.WriteByte('\n')
	b.WriteString(StyleDim.Render("hjkl pan · +/- zoom · f fit · r reset · tab select · space expand · n/c highlight · esc clear · q quit"))
	return b.String()
}

func (m *viewModel) statusLine(f diagram.Frame) string {
	parts := []string{
		StyleNumber.Render(fmt.Sprintf("%d%%", f.Zoom)),
		f.Interaction,
	}
	if m.selected != "" {
		parts = append(parts, "selected "+StyleValue.Render(m.selected))
	}
	st := m.d.Highlighter().State()
	switch f.Highlight {
	case "node":
		parts = append(parts, "highlight "+StyleHighlight.Render(st.Node))
	case "column":
		parts = append(parts, "highlight "+StyleHighlight.Render(st.Column.String()))
	}
	if m.status != "" {
		parts = append(parts, StyleWarning.Render(m.status))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

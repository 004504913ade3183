package viewport

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/layout"
	"github.com/matzehuels/lineageview/pkg/lineage"
	"github.com/matzehuels/lineageview/pkg/observability"
)

// Config holds the interaction constants.
type Config struct {
	MinScale        float64
	MaxScale        float64
	ZoomStep        float64       // added or subtracted by the zoom buttons
	WheelIn         float64       // scale factor for a wheel step toward the user
	WheelOut        float64       // scale factor for a wheel step away
	FitPadding      float64       // view-space padding kept around a fitted graph
	SettleDelay     time.Duration // wait after a single expand/collapse
	BulkSettleDelay time.Duration // wait after expand-all/collapse-all
}

// DefaultConfig returns the reference interaction constants.
func DefaultConfig() Config {
	return Config{
		MinScale:        0.15,
		MaxScale:        2.5,
		ZoomStep:        0.1,
		WheelIn:         1.08,
		WheelOut:        0.92,
		FitPadding:      60,
		SettleDelay:     280 * time.Millisecond,
		BulkSettleDelay: 300 * time.Millisecond,
	}
}

// Layouter recomputes a graph's layout in place. [*layout.Adapter]
// implements it.
type Layouter interface {
	Apply(ctx context.Context, g *lineage.Graph) error
}

// Controller owns the viewport transform and the interaction state of one
// diagram. It is not safe for concurrent use.
type Controller struct {
	graph    *lineage.Graph
	surface  Surface
	layouter Layouter
	sched    Scheduler
	cfg      Config
	logger   *log.Logger

	transform   geom.Transform
	mode        Mode
	transitions bool

	panStart          geom.Point
	panStartTranslate geom.Point

	dragID     string
	dragStart  geom.Point
	dragOrigin geom.Point

	listeners []func(Event)
}

// Option configures a Controller.
type Option func(*Controller)

// WithConfig sets the interaction constants.
func WithConfig(cfg Config) Option { return func(c *Controller) { c.cfg = cfg } }

// WithScheduler sets the scheduler. The default is [ImmediateScheduler].
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.sched = s
		}
	}
}

// WithLayouter sets the layouter used by ResetLayout.
func WithLayouter(l Layouter) Option { return func(c *Controller) { c.layouter = l } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a controller for g drawn on surface. If surface implements
// [TransitionNotifier], single-node toggles settle on its transition-end
// callback instead of the fixed settle delay.
func New(g *lineage.Graph, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		graph:     g,
		surface:   surface,
		sched:     ImmediateScheduler{},
		cfg:       DefaultConfig(),
		logger:    log.Default(),
		transform: geom.Identity(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if tn, ok := surface.(TransitionNotifier); ok {
		c.transitions = true
		tn.OnTransitionEnd(c.settleNode)
	}
	return c
}

// Subscribe registers fn for every subsequent event.
func (c *Controller) Subscribe(fn func(Event)) {
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) emit(ev Event) {
	ev.Transform = c.transform
	for _, fn := range c.listeners {
		fn(ev)
	}
}

// Transform returns the current transform.
func (c *Controller) Transform() geom.Transform { return c.transform }

// Mode returns the current interaction mode.
func (c *Controller) Mode() Mode { return c.mode }

// DraggedNode returns the node being dragged, if any.
func (c *Controller) DraggedNode() (string, bool) {
	return c.dragID, c.mode == ModeDragging
}

// Config returns the interaction constants.
func (c *Controller) Config() Config { return c.cfg }

// ---- Pointer input ----

// PointerDown starts panning on empty canvas or dragging on a node header.
// Other targets, and any pointer-down while a gesture is active, are
// ignored. It reports whether a gesture started.
func (c *Controller) PointerDown(target Target, p geom.Point) bool {
	if c.mode != ModeIdle {
		return false
	}
	switch target.Kind {
	case TargetCanvas:
		c.mode = ModePanning
		c.panStart = p
		c.panStartTranslate = geom.Point{X: c.transform.TranslateX, Y: c.transform.TranslateY}
		return true
	case TargetNodeHeader:
		r, ok := c.graph.Rect(target.NodeID)
		if !ok {
			return false
		}
		c.mode = ModeDragging
		c.dragID = target.NodeID
		c.dragStart = p
		c.dragOrigin = geom.Point{X: r.X, Y: r.Y}
		return true
	default:
		return false
	}
}

// PointerMove continues the active gesture. While panning the translation
// follows the pointer one to one; while dragging the node moves by the
// pointer delta divided by the scale, so it tracks the pointer at any zoom.
func (c *Controller) PointerMove(p geom.Point) {
	switch c.mode {
	case ModePanning:
		d := p.Sub(c.panStart)
		c.transform.TranslateX = c.panStartTranslate.X + d.X
		c.transform.TranslateY = c.panStartTranslate.Y + d.Y
		c.emit(Event{Kind: EventTransform})
	case ModeDragging:
		d := p.Sub(c.dragStart).Scale(1 / c.transform.Scale)
		pos := c.dragOrigin.Add(d)
		c.graph.SetPosition(c.dragID, pos.X, pos.Y)
		c.emit(Event{Kind: EventNodeMoved, NodeID: c.dragID})
	}
}

// PointerUp ends the active gesture. Dropped nodes stay where they are;
// overlaps are allowed.
func (c *Controller) PointerUp() {
	if c.mode == ModeDragging {
		id := c.dragID
		c.dragID = ""
		c.mode = ModeIdle
		c.emit(Event{Kind: EventDragEnded, NodeID: id})
		return
	}
	c.mode = ModeIdle
}

// ---- Zoom ----

// Wheel zooms around the pointer: one step out for positive deltaY, one step
// in otherwise. Wheel input during a drag is ignored.
func (c *Controller) Wheel(p geom.Point, deltaY float64) {
	if c.mode == ModeDragging {
		return
	}
	factor := c.cfg.WheelIn
	if deltaY > 0 {
		factor = c.cfg.WheelOut
	}
	if c.zoomAt(p, c.transform.Scale*factor) {
		observability.Interaction().OnZoom("wheel", c.transform.Scale)
	}
}

// ZoomIn raises the scale by one step around the viewport center.
func (c *Controller) ZoomIn() { c.zoomButton(c.cfg.ZoomStep) }

// ZoomOut lowers the scale by one step around the viewport center.
func (c *Controller) ZoomOut() { c.zoomButton(-c.cfg.ZoomStep) }

func (c *Controller) zoomButton(step float64) {
	if c.zoomAt(c.surface.ViewportSize().Center(), c.transform.Scale+step) {
		observability.Interaction().OnZoom("button", c.transform.Scale)
	}
}

// ZoomAt sets the scale to requested (clamped) while keeping the graph point
// under anchor fixed. It reports whether the transform changed.
func (c *Controller) ZoomAt(anchor geom.Point, requested float64) bool {
	return c.zoomAt(anchor, requested)
}

func (c *Controller) zoomAt(anchor geom.Point, requested float64) bool {
	s := c.transform.Scale
	next := geom.Clamp(requested, c.cfg.MinScale, c.cfg.MaxScale)
	if next == s {
		return false
	}
	k := next / s
	c.transform.TranslateX = anchor.X - (anchor.X-c.transform.TranslateX)*k
	c.transform.TranslateY = anchor.Y - (anchor.Y-c.transform.TranslateY)*k
	c.transform.Scale = next
	c.emit(Event{Kind: EventTransform})
	return true
}

// Pan shifts the view by a view-space delta.
func (c *Controller) Pan(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	c.transform.TranslateX += dx
	c.transform.TranslateY += dy
	c.emit(Event{Kind: EventTransform})
}

// Fit re-syncs cached heights from the surface, then picks the largest
// clamped scale at which the bounding box of all nodes plus the fit padding
// fits the viewport, and centers the box. Column edges are flagged for
// re-routing on the next frame. Fit reports false when there is nothing to
// fit.
func (c *Controller) Fit() bool {
	rects := make([]geom.Rect, 0, c.graph.NodeCount())
	for _, id := range c.graph.NodeIDs() {
		if _, ok := c.graph.Rect(id); !ok {
			continue
		}
		c.remeasure(id)
		r, _ := c.graph.Rect(id)
		rects = append(rects, r)
	}
	box, ok := geom.Bounds(rects)
	if !ok {
		return false
	}

	view := c.surface.ViewportSize()
	pad := c.cfg.FitPadding
	scale := math.Min(axisScale(view.Width-2*pad, box.Width), axisScale(view.Height-2*pad, box.Height))
	scale = geom.Clamp(scale, c.cfg.MinScale, c.cfg.MaxScale)

	c.transform = geom.Transform{
		TranslateX: (view.Width-box.Width*scale)/2 - box.X*scale,
		TranslateY: (view.Height-box.Height*scale)/2 - box.Y*scale,
		Scale:      scale,
	}
	c.logger.Debug("fit to screen", "scale", scale, "zoom", c.transform.Percent())
	observability.Interaction().OnZoom("fit", scale)
	c.emit(Event{Kind: EventTransform})
	c.sched.NextFrame(func() { c.emit(Event{Kind: EventFramePresented}) })
	return true
}

// axisScale returns the scale fitting extent into avail. A degenerate extent
// does not constrain the scale.
func axisScale(avail, extent float64) float64 {
	if extent <= 0 {
		return math.Inf(1)
	}
	return avail / extent
}

// ---- Expand / collapse ----

// ToggleExpanded flips a table node's expansion and returns the new state.
// The node's height is re-measured once its size transition settles. Unknown
// and non-table nodes are ignored and report false.
func (c *Controller) ToggleExpanded(id string) bool {
	n, ok := c.graph.Node(id)
	if !ok || !n.IsTable() {
		return false
	}
	expanded := c.graph.ToggleExpanded(id)
	c.logger.Debug("toggle expansion", "node", id, "expanded", expanded)
	observability.Interaction().OnExpandToggle(id, expanded)
	c.emit(Event{Kind: EventExpansionChanged, NodeID: id, Expanded: expanded})

	if !c.transitions {
		c.sched.AfterFunc(c.cfg.SettleDelay, func() { c.settleNode(id) })
	}
	return expanded
}

// ExpandAll expands every table and refreshes all geometry after the bulk
// settle delay.
func (c *Controller) ExpandAll() {
	c.graph.ExpandAll()
	c.emit(Event{Kind: EventExpansionChanged, Expanded: true})
	c.sched.AfterFunc(c.cfg.BulkSettleDelay, c.settleAll)
}

// CollapseAll collapses every node and refreshes all geometry after the bulk
// settle delay.
func (c *Controller) CollapseAll() {
	c.graph.CollapseAll()
	c.emit(Event{Kind: EventExpansionChanged, Expanded: false})
	c.sched.AfterFunc(c.cfg.BulkSettleDelay, c.settleAll)
}

func (c *Controller) settleNode(id string) {
	if _, ok := c.graph.Rect(id); !ok {
		return
	}
	c.remeasure(id)
	c.emit(Event{Kind: EventNodeSettled, NodeID: id, Expanded: c.graph.IsExpanded(id)})
}

func (c *Controller) settleAll() {
	for _, id := range c.graph.NodeIDs() {
		c.remeasure(id)
	}
	c.emit(Event{Kind: EventAllSettled})
}

// remeasure copies the node's live height into the position cache, falling
// back to the estimate for its current expansion state.
func (c *Controller) remeasure(id string) {
	if size, ok := c.surface.MeasureNode(id); ok && size.Height > 0 {
		c.graph.SetHeight(id, size.Height)
		return
	}
	if n, ok := c.graph.Node(id); ok {
		c.graph.SetHeight(id, layout.EstimateHeight(n, c.graph.IsExpanded(id)))
	}
}

// ---- Layout ----

// ResetLayout collapses every node, recomputes the layout from scratch,
// overwrites the position cache and fits the view. Without a layouter only
// the collapse and fit happen.
func (c *Controller) ResetLayout(ctx context.Context) error {
	c.graph.CollapseAll()
	c.mode, c.dragID = ModeIdle, ""
	if c.layouter != nil {
		if err := c.layouter.Apply(ctx, c.graph); err != nil {
			return err
		}
	}
	c.logger.Info("layout reset", "nodes", c.graph.NodeCount())
	c.emit(Event{Kind: EventLayoutReset})
	c.Fit()
	return nil
}

package diagram

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/lineageview/pkg/document"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/highlight"
	"github.com/matzehuels/lineageview/pkg/layout"
	"github.com/matzehuels/lineageview/pkg/lineage"
	"github.com/matzehuels/lineageview/pkg/viewport"
)

// Diagram is one independent lineage diagram.
type Diagram struct {
	id      string
	graph   *lineage.Graph
	adapter *layout.Adapter
	ctrl    *viewport.Controller
	hl      *highlight.Highlighter
	router  *Router
	surface viewport.Surface
	static  *StaticSurface
	sched   viewport.Scheduler
	logger  *log.Logger
}

type options struct {
	logger       *log.Logger
	sched        viewport.Scheduler
	surface      viewport.Surface
	size         geom.Size
	layoutCfg    layout.Config
	viewportCfg  viewport.Config
	hasLayoutCfg bool
}

// Option configures a Diagram.
type Option func(*options)

// WithLogger sets the logger shared by every component.
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

// WithScheduler sets the scheduler driving settle delays and frame
// callbacks. The default runs them immediately.
func WithScheduler(s viewport.Scheduler) Option { return func(o *options) { o.sched = s } }

// WithSurface replaces the built-in static surface.
func WithSurface(s viewport.Surface) Option { return func(o *options) { o.surface = s } }

// WithViewportSize sets the canvas size of the built-in static surface.
func WithViewportSize(size geom.Size) Option { return func(o *options) { o.size = size } }

// WithLayoutConfig sets the layout spacing.
func WithLayoutConfig(cfg layout.Config) Option {
	return func(o *options) { o.layoutCfg, o.hasLayoutCfg = cfg, true }
}

// WithViewportConfig sets the interaction constants.
func WithViewportConfig(cfg viewport.Config) Option {
	return func(o *options) { o.viewportCfg = cfg }
}

// New creates an empty diagram laid out by engine.
func New(engine layout.Engine, opts ...Option) *Diagram {
	o := options{
		logger:      log.Default(),
		sched:       viewport.ImmediateScheduler{},
		size:        DefaultViewportSize,
		layoutCfg:   layout.DefaultConfig(),
		viewportCfg: viewport.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Diagram{
		id:     uuid.NewString(),
		graph:  lineage.New(),
		sched:  o.sched,
		logger: o.logger,
	}
	d.logger = d.logger.With("diagram", d.id[:8])

	d.surface = o.surface
	if d.surface == nil {
		d.static = NewStaticSurface(d.graph, o.size, func() geom.Transform { return d.ctrl.Transform() })
		d.surface = d.static
	}

	d.adapter = layout.NewAdapter(engine, layout.WithConfig(o.layoutCfg), layout.WithLogger(d.logger))
	d.ctrl = viewport.New(d.graph, d.surface,
		viewport.WithConfig(o.viewportCfg),
		viewport.WithScheduler(d.sched),
		viewport.WithLayouter(d.adapter),
		viewport.WithLogger(d.logger),
	)
	d.hl = highlight.New(d.graph, highlight.WithLogger(d.logger))
	d.router = NewRouter(d.graph, d.surface)

	d.ctrl.Subscribe(func(ev viewport.Event) {
		if ev.Kind == viewport.EventLayoutReset {
			d.hl.Clear()
		}
	})
	return d
}

// ID returns the diagram's instance id.
func (d *Diagram) ID() string { return d.id }

// Graph returns the underlying graph.
func (d *Diagram) Graph() *lineage.Graph { return d.graph }

// Controller returns the viewport controller.
func (d *Diagram) Controller() *viewport.Controller { return d.ctrl }

// Highlighter returns the highlight engine.
func (d *Diagram) Highlighter() *highlight.Highlighter { return d.hl }

// Router returns the edge router.
func (d *Diagram) Router() *Router { return d.router }

// Surface returns the rendering surface in use.
func (d *Diagram) Surface() viewport.Surface { return d.surface }

// Resize changes the canvas size of the built-in static surface. It is a
// no-op when an external surface is in use.
func (d *Diagram) Resize(size geom.Size) {
	if d.static != nil {
		d.static.Resize(size)
	}
}

// Load replaces the diagram's contents with doc, computes a fresh layout
// and fits the view on the next frame. On error the previous contents are
// kept if the document itself was invalid; a layout failure leaves the new
// graph loaded but unpositioned.
func (d *Diagram) Load(ctx context.Context, doc document.Document) error {
	if err := doc.LoadInto(d.graph); err != nil {
		return err
	}
	d.hl.Clear()
	if err := d.adapter.Apply(ctx, d.graph); err != nil {
		return err
	}
	d.logger.Info("diagram loaded", "nodes", d.graph.NodeCount(), "edges", d.graph.EdgeCount())
	d.sched.NextFrame(func() { d.ctrl.Fit() })
	return nil
}

// ResetLayout collapses everything, recomputes the layout, clears any
// highlight and fits the view.
func (d *Diagram) ResetLayout(ctx context.Context) error {
	return d.ctrl.ResetLayout(ctx)
}

// Document returns the diagram's contents as a document.
func (d *Diagram) Document() document.Document { return document.FromGraph(d.graph) }

// Frame builds the render records for the current state.
func (d *Diagram) Frame() Frame {
	t := d.ctrl.Transform()
	f := Frame{
		DiagramID:   d.id,
		Transform:   t,
		CSS:         t.CSS(),
		Zoom:        t.Percent(),
		Interaction: d.ctrl.Mode().String(),
		Highlight:   d.hl.Mode().String(),
	}

	for _, g := range d.router.Groups() {
		f.Groups = append(f.Groups, GroupRecord{Key: g.Key, NodeIDs: g.NodeIDs, Box: g.Box})
	}

	for _, n := range d.graph.Nodes() {
		rect, ok := d.router.NodeRect(n.ID)
		if !ok {
			continue
		}
		f.Nodes = append(f.Nodes, d.nodeRecord(n, rect))
	}

	for _, e := range d.graph.Edges() {
		path, ok := d.router.TableEdge(e)
		if !ok {
			continue
		}
		f.Edges = append(f.Edges, EdgeRecord{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Path:   path,
			D:      path.String(),
			Class:  d.hl.EdgeClass(e.ID).String(),
		})
	}

	for _, l := range d.graph.ColumnMappings() {
		path, ok := d.router.ColumnEdge(l, t)
		if !ok {
			continue
		}
		f.ColumnEdges = append(f.ColumnEdges, ColumnEdgeRecord{
			EdgeID:       l.EdgeID,
			SourceNode:   l.SourceNode,
			SourceColumn: l.SourceColumn,
			TargetNode:   l.TargetNode,
			TargetColumn: l.TargetColumn,
			Path:         path,
			D:            path.String(),
			Class:        d.hl.ColumnEdgeClass(l).String(),
		})
	}
	return f
}

func (d *Diagram) nodeRecord(n *lineage.Node, rect geom.Rect) NodeRecord {
	rec := NodeRecord{
		ID:          n.ID,
		Type:        n.Type,
		Label:       n.DisplayLabel(),
		Subtitle:    n.Subtitle(),
		Description: n.Description,
		Charts:      n.Charts,
		ColumnCount: len(n.Columns),
		Rect:        rect,
		Expanded:    d.graph.IsExpanded(n.ID),
		Class:       d.hl.NodeClass(n.ID).String(),
	}
	if !rec.Expanded {
		return rec
	}
	for _, c := range n.Columns {
		rec.Columns = append(rec.Columns, ColumnRecord{
			Name:     c.Name,
			DataType: c.DataType,
			Tags:     c.Tags,
			Class:    d.hl.ColumnClass(lineage.ColumnRef{NodeID: n.ID, Column: c.Name}).String(),
		})
	}
	return rec
}

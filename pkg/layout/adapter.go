package layout

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/lineage"
	"github.com/matzehuels/lineageview/pkg/observability"
)

// Adapter runs an Engine over a lineage graph and writes the result into the
// graph's position cache.
type Adapter struct {
	engine Engine
	cfg    Config
	logger *log.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for layout events.
func WithLogger(l *log.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithConfig overrides the spacing configuration.
func WithConfig(cfg Config) Option {
	return func(a *Adapter) { a.cfg = cfg }
}

// NewAdapter creates an adapter for engine with [DefaultConfig].
func NewAdapter(engine Engine, opts ...Option) *Adapter {
	a := &Adapter{engine: engine, cfg: DefaultConfig(), logger: log.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Engine returns the wrapped engine.
func (a *Adapter) Engine() Engine { return a.engine }

// Config returns the spacing configuration.
func (a *Adapter) Config() Config { return a.cfg }

// Input reduces g to engine input. Widths are fixed per type; heights are
// estimated from each node's current expansion state. Self-loops are dropped.
func Input(g *lineage.Graph) ([]SizedNode, []EdgeRef) {
	nodes := make([]SizedNode, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		size := EstimateSize(n, g.IsExpanded(n.ID))
		nodes = append(nodes, SizedNode{ID: n.ID, Width: size.Width, Height: size.Height})
	}
	edges := make([]EdgeRef, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		if e.Source == e.Target {
			continue
		}
		edges = append(edges, EdgeRef{Source: e.Source, Target: e.Target})
	}
	return nodes, edges
}

// Compute runs the engine and returns top-left rectangles keyed by node ID.
// The graph is not modified.
func (a *Adapter) Compute(ctx context.Context, g *lineage.Graph) (map[string]geom.Rect, error) {
	nodes, edges := Input(g)
	name := a.engine.Name()

	observability.Layout().OnLayoutStart(ctx, name, len(nodes))
	start := time.Now()
	a.logger.Debug("computing layout", "engine", name, "nodes", len(nodes), "edges", len(edges))

	centers, err := a.engine.ComputeLayout(ctx, nodes, edges, a.cfg)
	if err == nil {
		err = checkComplete(nodes, centers)
	}
	elapsed := time.Since(start)
	observability.Layout().OnLayoutComplete(ctx, name, elapsed, err)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeLayoutFailed, err, "%s layout", name)
		}
		return nil, err
	}

	rects := make(map[string]geom.Rect, len(nodes))
	for _, n := range nodes {
		c := centers[n.ID]
		rects[n.ID] = geom.Rect{X: c.X - n.Width/2, Y: c.Y - n.Height/2, Width: n.Width, Height: n.Height}
	}
	a.logger.Debug("layout complete", "engine", name, "nodes", len(nodes), "duration", elapsed)
	return rects, nil
}

// Apply computes a layout and overwrites g's position cache with it.
func (a *Adapter) Apply(ctx context.Context, g *lineage.Graph) error {
	rects, err := a.Compute(ctx, g)
	if err != nil {
		return err
	}
	for id, r := range rects {
		g.SetRect(id, r)
	}
	return nil
}

func checkComplete(nodes []SizedNode, centers map[string]geom.Point) error {
	for _, n := range nodes {
		if _, ok := centers[n.ID]; !ok {
			return errors.New(errors.ErrCodeLayoutFailed, "engine returned no position for node %q", n.ID)
		}
	}
	return nil
}

// Package cli implements the lineageview command-line interface.
package cli

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageview/internal/config"
	"github.com/matzehuels/lineageview/pkg/buildinfo"
	"github.com/matzehuels/lineageview/pkg/cache"
	"github.com/matzehuels/lineageview/pkg/diagram"
	"github.com/matzehuels/lineageview/pkg/document"
	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/layout"
	"github.com/matzehuels/lineageview/pkg/layout/graphviz"
	"github.com/matzehuels/lineageview/pkg/layout/layered"
	"github.com/matzehuels/lineageview/pkg/observability"
	"github.com/matzehuels/lineageview/pkg/viewport"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "lineageview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
	cacheStats *cacheStats
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The configuration file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		cfg:        config.Default(),
		cacheStats: &cacheStats{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the active configuration.
func (c *CLI) Config() config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Lineageview lays out and explores data-lineage diagrams",
		Long: `Lineageview lays out data-lineage graphs (tables, pipelines and dashboards)
left to right, routes table and column-level edges, and lets you explore the
result interactively or export it as SVG, PDF or PNG.

Without an input file every command works on a built-in example.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/lineageview/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.columnsCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.exampleCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("configuration loaded", "engine", cfg.Layout.Engine, "cache", cfg.Cache.Enabled)
	return nil
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine builds the configured layout engine. Unless caching is disabled
// it is wrapped in a file-backed cache scoped to the running version. The
// returned close function releases the cache.
func (c *CLI) newEngine(noCache bool) (layout.Engine, func() error, error) {
	var engine layout.Engine
	switch c.cfg.Layout.Engine {
	case config.EngineGraphviz:
		engine = graphviz.New()
	case config.EngineLayered, "":
		engine = layered.New()
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "unknown layout engine %q", c.cfg.Layout.Engine)
	}

	store := c.newCache(noCache || !c.cfg.Cache.Enabled)
	if _, ok := store.(*cache.NullCache); ok {
		return engine, store.Close, nil
	}

	observability.SetCacheHooks(c.cacheStats)
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Get().Version+":")
	return layout.NewCachedEngine(engine, store, keyer), store.Close, nil
}

// newCache opens the layout cache. Any failure degrades to a NullCache so a
// read-only home directory never blocks a layout.
func (c *CLI) newCache(disabled bool) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := c.cfg.CacheDir()
	if err != nil {
		c.Logger.Debug("cache directory unavailable", "err", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// newDiagram creates a diagram wired to the configuration.
func (c *CLI) newDiagram(engine layout.Engine, opts ...diagram.Option) *diagram.Diagram {
	base := []diagram.Option{
		diagram.WithLogger(c.Logger),
		diagram.WithLayoutConfig(c.cfg.LayoutConfig()),
		diagram.WithViewportConfig(c.cfg.ViewportConfig()),
		diagram.WithViewportSize(c.cfg.ViewportSize()),
	}
	return diagram.New(engine, append(base, opts...)...)
}

// loadDiagram reads path (or the built-in example) and lays it out. Headless
// commands use the immediate scheduler so the initial fit has run by the time
// this returns.
func (c *CLI) loadDiagram(ctx context.Context, path string, engine layout.Engine, opts ...diagram.Option) (*diagram.Diagram, error) {
	doc, fallback, err := document.LoadOrExample(path, c.Logger)
	if err != nil {
		return nil, err
	}
	if fallback && path == "" {
		c.Logger.Info("No input given, using the built-in example")
	}

	d := c.newDiagram(engine, append([]diagram.Option{diagram.WithScheduler(viewport.ImmediateScheduler{})}, opts...)...)
	if err := d.Load(ctx, doc); err != nil {
		return nil, err
	}
	return d, nil
}

// =============================================================================
// Cache Statistics
// =============================================================================

// cacheStats counts layout cache hits so commands can report whether a
// result was computed or reused.
type cacheStats struct {
	observability.NoopCacheHooks
	hits atomic.Int64
}

func (s *cacheStats) OnCacheHit(context.Context, string) { s.hits.Add(1) }

// Hits returns the number of hits seen so far.
func (s *cacheStats) Hits() int64 { return s.hits.Load() }

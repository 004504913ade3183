package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineageview/internal/config"
	"github.com/matzehuels/lineageview/pkg/cache"
	"github.com/matzehuels/lineageview/pkg/diagram"
	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/layout"
	"github.com/matzehuels/lineageview/pkg/observability"
)

const eps = 1e-6

// newTestCLI returns a CLI with a silent logger, no config file and the
// cache rooted in a temporary directory.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.cfg.Cache.Dir = t.TempDir()
	return c
}

func loadTestDiagram(t *testing.T, c *CLI) *diagram.Diagram {
	t.Helper()
	engine, closeCache, err := c.newEngine(true)
	if err != nil {
		t.Fatalf("newEngine() error = %v", err)
	}
	t.Cleanup(func() { closeCache() })
	d, err := c.loadDiagram(context.Background(), "", engine)
	if err != nil {
		t.Fatalf("loadDiagram() error = %v", err)
	}
	return d
}

func TestRootCommandSubcommands(t *testing.T) {
	root := newTestCLI(t).RootCommand()

	want := []string{"layout", "render", "columns", "view", "example", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v; want the %s command", name, cmd, err, name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("root command has no --config flag")
	}
}

func TestLoadConfig(t *testing.T) {
	c := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[layout]\nengine = \"graphviz\"\nrank_sep = 200\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c.configPath = path
	if err := c.loadConfig(); err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if got := c.Config().Layout.Engine; got != config.EngineGraphviz {
		t.Errorf("Layout.Engine = %q, want %q", got, config.EngineGraphviz)
	}
	if got := c.Config().Layout.RankSep; got != 200 {
		t.Errorf("Layout.RankSep = %v, want 200", got)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	c := newTestCLI(t)
	c.configPath = filepath.Join(t.TempDir(), "missing.toml")

	err := c.loadConfig()
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("loadConfig() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestNewEngine(t *testing.T) {
	tests := []struct {
		name       string
		engine     string
		noCache    bool
		wantName   string
		wantCached bool
		wantErr    bool
	}{
		{"layered cached", config.EngineLayered, false, "layered", true, false},
		{"layered uncached", config.EngineLayered, true, "layered", false, false},
		{"graphviz uncached", config.EngineGraphviz, true, "graphviz", false, false},
		{"unknown", "spring", true, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(observability.Reset)
			c := newTestCLI(t)
			c.cfg.Layout.Engine = tt.engine

			engine, closeCache, err := c.newEngine(tt.noCache)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer closeCache()

			if engine.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", engine.Name(), tt.wantName)
			}
			_, cached := engine.(*layout.CachedEngine)
			if cached != tt.wantCached {
				t.Errorf("engine is cached = %v, want %v", cached, tt.wantCached)
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	c := newTestCLI(t)

	if _, ok := c.newCache(true).(*cache.NullCache); !ok {
		t.Error("newCache(true) is not a NullCache")
	}

	fc, ok := c.newCache(false).(*cache.FileCache)
	if !ok {
		t.Fatal("newCache(false) is not a FileCache")
	}
	defer fc.Close()
	if fc.Dir() != c.cfg.Cache.Dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), c.cfg.Cache.Dir)
	}
}

func TestCacheDisabledByConfig(t *testing.T) {
	c := newTestCLI(t)
	c.cfg.Cache.Enabled = false

	engine, closeCache, err := c.newEngine(false)
	if err != nil {
		t.Fatalf("newEngine() error = %v", err)
	}
	defer closeCache()
	if _, cached := engine.(*layout.CachedEngine); cached {
		t.Error("engine is cached although the config disables the cache")
	}
}

func TestBuildDiagramReportsCacheHit(t *testing.T) {
	t.Cleanup(observability.Reset)
	c := newTestCLI(t)
	ctx := context.Background()

	_, cached, err := c.buildDiagram(ctx, "", false, stateOpts{})
	if err != nil {
		t.Fatalf("buildDiagram() error = %v", err)
	}
	if cached {
		t.Error("first build reported a cache hit")
	}

	d, cached, err := c.buildDiagram(ctx, "", false, stateOpts{})
	if err != nil {
		t.Fatalf("buildDiagram() error = %v", err)
	}
	if !cached {
		t.Error("second build did not report a cache hit")
	}
	if d.Graph().NodeCount() != 7 {
		t.Errorf("NodeCount() = %d, want 7", d.Graph().NodeCount())
	}
}

func TestLoadDiagramUsesViewportConfig(t *testing.T) {
	c := newTestCLI(t)
	c.cfg.Viewport.Width, c.cfg.Viewport.Height = 640, 480

	d := loadTestDiagram(t, c)
	size := d.Surface().ViewportSize()
	if size.Width != 640 || size.Height != 480 {
		t.Errorf("ViewportSize() = %v, want 640x480", size)
	}
	f := d.Frame()
	for _, n := range f.Nodes {
		r := f.Transform.RectToView(n.Rect)
		if r.X < -eps || r.Y < -eps || r.Right() > 640+eps || r.Bottom() > 480+eps {
			t.Errorf("node %s at %v is outside the fitted viewport", n.ID, r)
		}
	}
}

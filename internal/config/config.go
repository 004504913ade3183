// Package config loads the lineageview configuration file.
//
// The file is TOML and every key is optional:
//
//	[layout]
//	engine = "layered"   # or "graphviz"
//	node_sep = 60
//	rank_sep = 180
//	margin_x = 60
//	margin_y = 60
//
//	[viewport]
//	width = 1280
//	height = 800
//	min_scale = 0.15
//	max_scale = 2.5
//	zoom_step = 0.1
//	wheel_in = 1.08
//	wheel_out = 0.92
//	fit_padding = 60
//	settle_ms = 280
//	bulk_settle_ms = 300
//
//	[cache]
//	enabled = true
//	dir = "~/.cache/lineageview"
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lineageview/pkg/errors"
	"github.com/matzehuels/lineageview/pkg/geom"
	"github.com/matzehuels/lineageview/pkg/layout"
	"github.com/matzehuels/lineageview/pkg/viewport"
)

const appName = "lineageview"

// Engine names accepted by [Layout.Engine].
const (
	EngineLayered  = "layered"
	EngineGraphviz = "graphviz"
)

// Config is the full configuration.
type Config struct {
	Layout   Layout   `toml:"layout"`
	Viewport Viewport `toml:"viewport"`
	Cache    Cache    `toml:"cache"`
}

// Layout configures the layout step.
type Layout struct {
	Engine  string  `toml:"engine"`
	NodeSep float64 `toml:"node_sep"`
	RankSep float64 `toml:"rank_sep"`
	MarginX float64 `toml:"margin_x"`
	MarginY float64 `toml:"margin_y"`
}

// Viewport configures the canvas and interaction constants.
type Viewport struct {
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	MinScale     float64 `toml:"min_scale"`
	MaxScale     float64 `toml:"max_scale"`
	ZoomStep     float64 `toml:"zoom_step"`
	WheelIn      float64 `toml:"wheel_in"`
	WheelOut     float64 `toml:"wheel_out"`
	FitPadding   float64 `toml:"fit_padding"`
	SettleMS     int     `toml:"settle_ms"`
	BulkSettleMS int     `toml:"bulk_settle_ms"`
}

// Cache configures the layout cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	lc := layout.DefaultConfig()
	vc := viewport.DefaultConfig()
	return Config{
		Layout: Layout{
			Engine:  EngineLayered,
			NodeSep: lc.NodeSep,
			RankSep: lc.RankSep,
			MarginX: lc.MarginX,
			MarginY: lc.MarginY,
		},
		Viewport: Viewport{
			Width:        1280,
			Height:       800,
			MinScale:     vc.MinScale,
			MaxScale:     vc.MaxScale,
			ZoomStep:     vc.ZoomStep,
			WheelIn:      vc.WheelIn,
			WheelOut:     vc.WheelOut,
			FitPadding:   vc.FitPadding,
			SettleMS:     int(vc.SettleDelay / time.Millisecond),
			BulkSettleMS: int(vc.BulkSettleDelay / time.Millisecond),
		},
		Cache: Cache{Enabled: true},
	}
}

// Load reads path on top of the defaults. An empty path loads
// [DefaultPath] if that file exists and the defaults otherwise.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := Decode(string(data), &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Decode parses TOML into cfg, keeping fields the document does not set,
// and validates the result.
func Decode(data string, cfg *Config) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}
	switch c.Layout.Engine {
	case EngineLayered, EngineGraphviz:
	default:
		return bad("layout.engine %q: want %q or %q", c.Layout.Engine, EngineLayered, EngineGraphviz)
	}
	if c.Layout.NodeSep < 0 || c.Layout.RankSep < 0 || c.Layout.MarginX < 0 || c.Layout.MarginY < 0 {
		return bad("layout spacing must not be negative")
	}
	v := c.Viewport
	if v.Width <= 0 || v.Height <= 0 {
		return bad("viewport size %vx%v must be positive", v.Width, v.Height)
	}
	if v.MinScale <= 0 || v.MaxScale < v.MinScale {
		return bad("viewport scale range [%v, %v] is invalid", v.MinScale, v.MaxScale)
	}
	if v.ZoomStep <= 0 {
		return bad("viewport.zoom_step must be positive")
	}
	if v.WheelIn <= 1 || v.WheelOut <= 0 || v.WheelOut >= 1 {
		return bad("viewport wheel factors need wheel_in > 1 and 0 < wheel_out < 1")
	}
	if v.FitPadding < 0 || v.SettleMS < 0 || v.BulkSettleMS < 0 {
		return bad("viewport padding and settle delays must not be negative")
	}
	return nil
}

// LayoutConfig returns the layout spacing.
func (c *Config) LayoutConfig() layout.Config {
	return layout.Config{
		NodeSep: c.Layout.NodeSep,
		RankSep: c.Layout.RankSep,
		MarginX: c.Layout.MarginX,
		MarginY: c.Layout.MarginY,
	}
}

// ViewportConfig returns the interaction constants.
func (c *Config) ViewportConfig() viewport.Config {
	v := c.Viewport
	return viewport.Config{
		MinScale:        v.MinScale,
		MaxScale:        v.MaxScale,
		ZoomStep:        v.ZoomStep,
		WheelIn:         v.WheelIn,
		WheelOut:        v.WheelOut,
		FitPadding:      v.FitPadding,
		SettleDelay:     time.Duration(v.SettleMS) * time.Millisecond,
		BulkSettleDelay: time.Duration(v.BulkSettleMS) * time.Millisecond,
	}
}

// ViewportSize returns the canvas size.
func (c *Config) ViewportSize() geom.Size {
	return geom.Size{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

// CacheDir returns the configured cache directory, expanding a leading "~/",
// or the XDG default (~/.cache/lineageview).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return expandHome(c.Cache.Dir)
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// DefaultPath returns $XDG_CONFIG_HOME/lineageview/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

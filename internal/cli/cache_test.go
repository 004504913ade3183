package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/lineageview/pkg/cache"
)

func TestCacheClearCommand(t *testing.T) {
	c := newTestCLI(t)
	dir := c.cfg.Cache.Dir

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"layout:a", "layout:b"} {
		if err := fc.Set(ctx, key, []byte(`{}`), time.Hour); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after clear, want 0", len(entries))
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	c := newTestCLI(t)
	c.cfg.Cache.Dir = filepath.Join(t.TempDir(), "never-created")

	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Errorf("cache clear on a missing dir error = %v", err)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c := newTestCLI(t)
	dir, err := c.cfg.CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error = %v", err)
	}
	if dir != c.cfg.Cache.Dir {
		t.Errorf("CacheDir() = %q, want %q", dir, c.cfg.Cache.Dir)
	}
}

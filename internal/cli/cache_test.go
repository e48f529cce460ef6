package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	// Verify the expected structure: $HOME/.cache/graphweave
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCLICacheDirFromConfig(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.Config.Cache.Dir = "/tmp/custom"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/custom" {
		t.Errorf("cacheDir() = %q, want /tmp/custom", dir)
	}
}

func TestCacheClear(t *testing.T) {
	c := newTestCLI(t)
	dir := filepath.Join(t.TempDir(), "cache")
	c.Config.Cache.Dir = dir

	if err := os.MkdirAll(filepath.Join(dir, "ab"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ab", "entry.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, c, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache dir should exist after clear: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after clear", len(entries))
	}
}

func TestCachePath(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Cache.Dir = "/var/cache/gw"

	out, err := runCLI(t, c, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if out != "/var/cache/gw\n" {
		t.Errorf("output = %q", out)
	}
}

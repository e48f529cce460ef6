package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	tests := []struct {
		name  string
		key   string
		value any
		into  func() any
	}{
		{"ids", "http://x/api/nodes", []string{"a", "b"}, func() any { return &[]string{} }},
		{"string", "k2", "test", func() any { return new(string) }},
		{"object", "k3", map[string]any{"nodes": []any{}}, func() any { return &map[string]any{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			ok, err := c.Get(tt.key, tt.into())
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if !ok {
				t.Fatal("Get() returned false for existing key")
			}
		})
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	var result string
	ok, err := c.Get("missing", &result)
	if err != nil || ok {
		t.Errorf("Get(missing) = %v, %v; want false, nil", ok, err)
	}
}

func TestCache_Expiration(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var res string
	now = now.Add(59 * time.Minute)
	if ok, err := c.Get("key", &res); !ok || err != nil || res != "value" {
		t.Fatalf("Get() before TTL = %v, %v, %q", ok, err, res)
	}

	res = ""
	now = now.Add(2 * time.Minute)
	ok, err := c.Get("key", &res)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("got error %v, want ErrExpired", err)
	}
	if ok || res != "" {
		t.Errorf("Get() after TTL = %v, %q", ok, res)
	}
}

func TestCache_NoTTL(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 0)
	c.now = func() time.Time { return time.Unix(0, 0) }
	_ = c.Set("key", 42)

	c.now = time.Now
	var v int
	if ok, err := c.Get("key", &v); !ok || err != nil || v != 42 {
		t.Errorf("Get() = %v, %v, %d", ok, err, v)
	}
}

func TestCache_Layout(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewCache(dir, time.Hour)
	_ = c.Namespace("h:").Set("/nodes", []string{"a"})

	path := c.Namespace("h:").keyPath("/nodes")
	if filepath.Dir(filepath.Dir(path)) != dir {
		t.Errorf("entry %s is not sharded under %s", path, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Key != "h:/nodes" || string(e.Value) != `["a"]` {
		t.Errorf("entry = %+v, %v", e, err)
	}

	tmps, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".tmp-*"))
	if len(tmps) != 0 {
		t.Errorf("temporary files left behind: %v", tmps)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("/nodes/%d", i%4)
			_ = c.Set(key, i)
			var v int
			if _, err := c.Get(key, &v); err != nil {
				t.Errorf("Get(%s) = %v", key, err)
			}
		}()
	}
	wg.Wait()
}

func TestCache_Delete(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 0)
	_ = c.Set("key", 1)
	if err := c.Delete("key"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := c.Delete("key"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
	var v int
	if ok, _ := c.Get("key", &v); ok {
		t.Error("Get() after Delete returned true")
	}
}

func TestDefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".cache", "graphweave", "http"); dir != want {
		t.Errorf("DefaultDir() = %s, want %s", dir, want)
	}
}

func TestCache_Namespace(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	prod := c.Namespace("prod:")
	staging := c.Namespace("staging:")
	_ = prod.Set("nodes", "prod-data")
	_ = staging.Set("nodes", "staging-data")

	var got string
	if ok, err := prod.Get("nodes", &got); !ok || err != nil || got != "prod-data" {
		t.Errorf("prod.Get() = %v, %v, %q", ok, err, got)
	}
	if ok, err := staging.Get("nodes", &got); !ok || err != nil || got != "staging-data" {
		t.Errorf("staging.Get() = %v, %v, %q", ok, err, got)
	}
	if ok, _ := c.Get("nodes", &got); ok {
		t.Error("namespaced value visible without prefix")
	}

	chained := prod.Namespace("v1:")
	_ = chained.Set("k", "v")
	if ok, _ := c.Namespace("prod:v1:").Get("k", &got); !ok {
		t.Error("chained namespace should equal concatenated prefix")
	}
	if chained.Dir() != c.Dir() || chained.TTL() != c.TTL() {
		t.Error("namespace should share dir and TTL")
	}
}

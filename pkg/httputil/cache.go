package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when an entry exists but is older
// than the cache TTL. The caller should refetch and [Cache.Set] the result.
var ErrExpired = errors.New("cache entry expired")

// entry is the on-disk envelope of a cached response.
type entry struct {
	Key      string          `json:"key"`
	StoredAt time.Time       `json:"stored_at"`
	Value    json.RawMessage `json:"value"`
}

// Cache stores JSON-encodable responses as one file per key.
//
// File names are the SHA-256 of the namespaced key, sharded by the first
// two hex digits. Writes go through a temporary file and a rename, so
// concurrent readers and writers never observe a partial entry and a Cache
// may be shared by goroutines and processes.
//
// Use [Cache.Namespace] for scoped views that prefix every key:
//
//	staging := cache.Namespace("staging.example.com:")
//	staging.Set("/nodes", ids) // key becomes "staging.example.com:/nodes"
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

// NewCache creates a Cache in dir (or [DefaultDir] when empty). A TTL of 0
// keeps entries forever.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl, now: time.Now}, nil
}

// DefaultDir returns ~/.cache/graphweave/http.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "graphweave", "http"), nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the entry lifetime; 0 means entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get decodes the entry for key into v. It reports a miss as (false, nil)
// and a stale entry as (false, ErrExpired); v is left unchanged in both cases.
func (c *Cache) Get(key string, v any) (bool, error) {
	data, err := os.ReadFile(c.keyPath(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false, err
	}
	if c.ttl > 0 && c.now().Sub(e.StoredAt) > c.ttl {
		return false, ErrExpired
	}
	if err := json.Unmarshal(e.Value, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v under key, replacing any existing entry and restarting its TTL.
func (c *Cache) Set(key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry{Key: c.prefix + key, StoredAt: c.now(), Value: value})
	if err != nil {
		return err
	}

	path := c.keyPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Namespace returns a view of the cache whose keys are prefixed with
// prefix. Views share the directory and TTL and can be nested.
func (c *Cache) Namespace(prefix string) *Cache {
	ns := *c
	ns.prefix = c.prefix + prefix
	return &ns
}

// Delete removes the entry for key. A missing entry is not an error.
func (c *Cache) Delete(key string) error {
	err := os.Remove(c.keyPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(c.prefix + key))
	name := hex.EncodeToString(h[:])
	return filepath.Join(c.dir, name[:2], name)
}

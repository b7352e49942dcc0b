// Package cache implements a file-backed key-value cache with TTL-aware
// reads. Each Cache owns one JSON document on disk, a flat mapping from key
// to {ts, value}. Reads never lock; writes serialize across processes with an
// advisory lock on a sibling lock file and land via temp-file-plus-rename so
// a concurrent reader never observes a torn document.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

type entry struct {
	TS    float64         `json:"ts"`
	Value json.RawMessage `json:"value"`
}

// Cache is bound to a single backing file. Two instances over the same path
// in different processes are safe; two goroutines sharing one instance must
// not call Set concurrently with each other's flock (the per-run tool never
// does).
type Cache struct {
	path string
	lock *flock.Flock
}

// New returns a Cache backed by path. The file does not need to exist.
func New(path string) *Cache {
	return &Cache{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Get returns the cached value for key if it is younger than ttl. A missing,
// corrupt, or non-object backing document behaves exactly like an empty
// cache. Get takes no lock; it may observe a slightly stale document, which
// is within the staleness already granted by the TTL.
func (c *Cache) Get(key string, ttl time.Duration) (json.RawMessage, bool) {
	doc := c.load()
	e, ok := doc[key]
	if !ok {
		return nil, false
	}
	age := nowSeconds() - e.TS
	if age > ttl.Seconds() {
		return nil, false
	}
	return e.Value, true
}

// Set stores value under key. It holds an exclusive lock on the sibling lock
// file for the duration of load-merge-write, re-reading the document first so
// keys written by concurrent processes survive. The lock is released on every
// exit path.
func (c *Cache) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("locking cache: %w", err)
	}
	defer c.lock.Unlock()

	doc := c.load()
	doc[key] = entry{TS: nowSeconds(), Value: raw}

	return c.write(doc)
}

// load reads the whole backing document, degrading to an empty one on any
// read or decode failure.
func (c *Cache) load() map[string]entry {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return map[string]entry{}
	}
	var doc map[string]entry
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return map[string]entry{}
	}
	return doc
}

// write persists the document atomically: encode to a temp file in the same
// directory, fsync, then rename over the final path.
func (c *Cache) write(doc map[string]entry) error {
	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encoding cache document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing cache document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

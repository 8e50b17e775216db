package world

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ChicagoDave/trailworld/pkg/spec"
)

// Key identifies a recipe: the SHA-256 of its JSON encoding after defaults
// are applied, so a recipe and its defaulted form share a key.
func Key(r *spec.Recipe) (string, error) {
	d := r.WithDefaults()
	data, err := json.Marshal(&d)
	if err != nil {
		return "", fmt.Errorf("encoding recipe: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Cache memoizes generated worlds by recipe key. Concurrent requests for
// the same recipe share one generation.
type Cache struct {
	opts  Options
	limit int

	mu      sync.Mutex
	entries map[string]*World
	order   []string

	group singleflight.Group
}

// NewCache creates a cache holding at most limit worlds (at least 1).
func NewCache(limit int, opts Options) *Cache {
	if limit < 1 {
		limit = 1
	}
	return &Cache{opts: opts, limit: limit, entries: make(map[string]*World)}
}

// Get returns the world for r, generating it on a miss. hit reports
// whether the world came from the cache.
func (c *Cache) Get(r *spec.Recipe) (w *World, hit bool, err error) {
	key, err := Key(r)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	if w, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return w, true, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		w, err := Generate(r, c.opts)
		if err != nil {
			return nil, err
		}
		c.store(key, w)
		return w, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*World), false, nil
}

// Len returns the number of cached worlds.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) store(key string, w *World) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return
	}
	c.entries[key] = w
	c.order = append(c.order, key)
	for len(c.order) > c.limit {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

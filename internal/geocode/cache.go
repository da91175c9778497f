// Package geocode upgrades station place names through a reverse
// geocoding service, best-effort, with caching and conservative pacing.
package geocode

import (
	"fmt"
	"log/slog"
	"sync"
)

// Key quantizes a coordinate pair to three decimal places (roughly a
// hundred meters), which is plenty for sensors on the same road segment
// to share one lookup.
func Key(lat, lng float64) string {
	return fmt.Sprintf("%.3f,%.3f", lat, lng)
}

// Cache maps quantized coordinates to resolved place names. It lives
// for the whole process, never evicts, and tolerates concurrent use:
// a lost update on the same key at worst costs one redundant lookup.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
	store   *Store
	logger  *slog.Logger
}

// NewCache creates an in-memory cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]string),
		logger:  slog.Default(),
	}
}

// NewPersistentCache creates a cache backed by a sqlite store at path.
// Previously resolved names are loaded up front; writes go through.
func NewPersistentCache(path string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := OpenStore(path)
	if err != nil {
		return nil, err
	}
	entries, err := store.Load()
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Cache{
		entries: entries,
		store:   store,
		logger:  logger,
	}, nil
}

// Get returns the cached place name for a key.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.entries[key]
	return name, ok
}

// Put stores a resolved name. Persistence failures only log; the
// in-memory entry still lands so the process never re-looks-up.
func (c *Cache) Put(key, name string) {
	c.mu.Lock()
	c.entries[key] = name
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Put(key, name); err != nil {
			c.logger.Warn("geocode cache write failed", "key", key, "error", err)
		}
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close releases the backing store, if any.
func (c *Cache) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

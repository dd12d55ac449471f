package fpcache

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"dupescan/internal/fingerprint"
	"dupescan/internal/logging"
)

type entry struct {
	size     int64
	modTime  time.Time
	value    fingerprint.Fingerprint
	storedAt time.Time
}

// Cache memoizes fingerprint extraction across analysis runs. It is the only
// resource shared by concurrently running analyses: lookups take a read lock,
// inserts a write lock, and the expensive compute happens outside both.
// Concurrent misses on the same key may each compute once; the last write
// wins, which is harmless because fresh computations for one identity are
// equal.
type Cache struct {
	logger     *slog.Logger
	maxEntries int

	mu      sync.RWMutex
	entries map[string]entry // keyed by file path
}

// New creates a cache. maxEntries bounds the entry count; 0 means unbounded.
func New(maxEntries int, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "fpcache")
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Cache{
		logger:     logger,
		maxEntries: maxEntries,
		entries:    make(map[string]entry),
	}
}

// GetOrCompute returns the cached fingerprint for id when fresh, otherwise
// runs compute, stores the result, and returns it. An entry is fresh only
// while the file's size and modification time still match the identity it
// was computed under.
func (c *Cache) GetOrCompute(id fingerprint.Identity, compute func() (fingerprint.Fingerprint, error)) (fingerprint.Fingerprint, error) {
	if value, ok := c.lookup(id); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return fingerprint.Fingerprint{}, err
	}
	c.store(id, value)
	return value, nil
}

func (c *Cache) lookup(id fingerprint.Identity) (fingerprint.Fingerprint, bool) {
	path := strings.TrimSpace(id.Path)
	if path == "" {
		return fingerprint.Fingerprint{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, found := c.entries[path]
	if !found {
		return fingerprint.Fingerprint{}, false
	}
	if cached.size != id.Size || !cached.modTime.Equal(id.ModTime) {
		return fingerprint.Fingerprint{}, false
	}
	return cached.value, true
}

func (c *Cache) store(id fingerprint.Identity, value fingerprint.Fingerprint) {
	path := strings.TrimSpace(id.Path)
	if path == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[path]; !exists {
		c.evictLocked()
	}
	c.entries[path] = entry{
		size:     id.Size,
		modTime:  id.ModTime,
		value:    value,
		storedAt: time.Now(),
	}

	c.logger.Debug("cached fingerprint",
		logging.String("path", path),
		logging.Int64("size", id.Size))
}

// evictLocked makes room for one insert by dropping the oldest entry when the
// cache is at capacity. Correctness does not depend on the eviction order.
func (c *Cache) evictLocked() {
	if c.maxEntries == 0 || len(c.entries) < c.maxEntries {
		return
	}
	var oldestPath string
	var oldestAt time.Time
	for path, cached := range c.entries {
		if oldestPath == "" || cached.storedAt.Before(oldestAt) {
			oldestPath = path
			oldestAt = cached.storedAt
		}
	}
	if oldestPath != "" {
		delete(c.entries, oldestPath)
		c.logger.Debug("evicted fingerprint", logging.String("path", oldestPath))
	}
}

// Invalidate drops the entry for path, if any.
func (c *Cache) Invalidate(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Package cache memoizes aggregation results keyed by a stable fingerprint
// of the input record set and the resolved time window. It is a pure
// optimization: removing it changes latency, never results.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize bounds the cache to a few dozen analysis results; each entry
// is a derived aggregate, not raw records, so memory stays small.
const DefaultSize = 32

// Fingerprint derives a stable key from the identities of the input records
// plus the resolved window bounds. Identifiers are sorted first so the key
// is independent of fetch order.
func Fingerprint(kind string, recordIDs []string, since, until time.Time) string {
	sorted := make([]string, len(recordIDs))
	copy(sorted, recordIDs)
	sort.Strings(sorted)

	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(since.UTC().Format(time.RFC3339Nano)))
	h.Write([]byte{0})
	h.Write([]byte(until.UTC().Format(time.RFC3339Nano)))
	for _, id := range sorted {
		h.Write([]byte{0})
		h.Write([]byte(id))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Cache is a bounded LRU of computed analysis results. Safe for concurrent
// use. Duplicate in-flight computations for the same fingerprint are
// possible under contention; that is wasted work, not incorrectness.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache[string, any]
}

// New builds a cache bounded to size entries; size <= 0 means DefaultSize.
func New(size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	// lru.New only fails on a non-positive size, which is excluded above.
	store, _ := lru.New[string, any](size)
	return &Cache{lru: store}
}

// GetOrCompute returns the cached value for fingerprint, computing and
// storing it on a miss. The compute function runs outside the lock so a slow
// computation does not serialize unrelated lookups.
func (c *Cache) GetOrCompute(fingerprint string, compute func() any) any {
	c.mu.Lock()
	if value, ok := c.lru.Get(fingerprint); ok {
		c.mu.Unlock()
		return value
	}
	c.mu.Unlock()

	value := compute()

	c.mu.Lock()
	c.lru.Add(fingerprint, value)
	c.mu.Unlock()
	return value
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

package query

import (
	"sync"
	"sync/atomic"
	"time"
)

// Entry is a cached value with the time it was stored
type Entry[T any] struct {
	Data      T
	UpdatedAt time.Time
}

// Cache provides thread-safe storage of resource values keyed by resource key
type Cache[T any] struct {
	entries map[string]Entry[T]
	mu      sync.RWMutex
	now     func() time.Time

	// Statistics (accessed atomically)
	reads  uint64
	writes uint64
}

// NewCache creates an empty cache
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]Entry[T]),
		now:     time.Now,
	}
}

// Set stores a value under key and returns the stored entry
func (c *Cache[T]) Set(key string, data T) Entry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := Entry[T]{Data: data, UpdatedAt: c.now()}
	c.entries[key] = entry
	atomic.AddUint64(&c.writes, 1)
	return entry
}

// Get returns a copy of the entry stored under key
func (c *Cache[T]) Get(key string) (Entry[T], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	atomic.AddUint64(&c.reads, 1)
	entry, exists := c.entries[key]
	return entry, exists
}

// Remove deletes the entry stored under key
func (c *Cache[T]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	atomic.AddUint64(&c.writes, 1)
}

// Clear removes all entries
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry[T])
	atomic.AddUint64(&c.writes, 1)
}

// Stats returns cache statistics
func (c *Cache[T]) Stats() (entries, reads, writes uint64) {
	c.mu.RLock()
	entries = uint64(len(c.entries))
	c.mu.RUnlock()

	reads = atomic.LoadUint64(&c.reads)
	writes = atomic.LoadUint64(&c.writes)
	return entries, reads, writes
}

package ratelimit

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the in-memory counter cache. Distinct-client
// churn beyond the bound evicts least-recently-used counters, capping
// memory at the cost of forgetting the coldest windows.
const DefaultMaxEntries = 50_000

type memoryEntry struct {
	key     string
	count   int64
	resetAt time.Time
}

// MemoryCounter is a bounded LRU of fixed-window counters for
// single-instance deployments. All operations take one mutex; the hot path
// is a map hit plus a list move.
type MemoryCounter struct {
	max int
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
}

// NewMemoryCounter creates a bounded counter cache. maxEntries <= 0 takes
// [DefaultMaxEntries].
func NewMemoryCounter(maxEntries int) *MemoryCounter {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCounter{
		max:     maxEntries,
		now:     time.Now,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Incr applies fixed-window semantics: the count resets to 1 whenever the
// window has lapsed, otherwise it increments.
func (c *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		if now.After(entry.resetAt) {
			entry.count = 1
			entry.resetAt = now.Add(window)
		} else {
			entry.count++
		}
		c.order.MoveToFront(elem)
		return entry.count, nil
	}

	if len(c.entries) >= c.max {
		c.evictOldestLocked()
	}

	entry := &memoryEntry{key: key, count: 1, resetAt: now.Add(window)}
	c.entries[key] = c.order.PushFront(entry)
	return 1, nil
}

// Len reports the number of tracked counters.
func (c *MemoryCounter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCounter) evictOldestLocked() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	entry := oldest.Value.(*memoryEntry)
	c.order.Remove(oldest)
	delete(c.entries, entry.key)
}

package travel

import (
	"container/list"
	"sync"
	"time"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

// Cache is an in-process, read-mostly, size-bounded cache of TravelResults
// keyed by (origin, destination, mode, departure_bucket). Entries older
// than ttl are treated as misses. When the entry count reaches maxLen,
// insertion evicts the oldest entry first, per §4.2/§5.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxLen  int
	entries map[string]*list.Element
	order   *list.List // front = oldest
}

type cacheEntry struct {
	key       string
	result    canonical.TravelResult
	insertedAt time.Time
}

// NewCache constructs a Cache with the given TTL and maximum entry count.
func NewCache(ttl time.Duration, maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 5000
	}
	return &Cache{
		ttl:     ttl,
		maxLen:  maxLen,
		entries: make(map[string]*list.Element, maxLen),
		order:   list.New(),
	}
}

// Get returns the cached result for key if present and younger than ttl.
func (c *Cache) Get(key string) (canonical.TravelResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return canonical.TravelResult{}, false
	}
	entry := el.Value.(*cacheEntry)
	if time.Since(entry.insertedAt) >= c.ttl {
		c.removeLocked(el)
		return canonical.TravelResult{}, false
	}
	return entry.result, true
}

// Put inserts or refreshes the entry for key, evicting the oldest entry
// first if the cache is at capacity.
func (c *Cache) Put(key string, result canonical.TravelResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
	for len(c.entries) >= c.maxLen {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
	}
	entry := &cacheEntry{key: key, result: result, insertedAt: time.Now()}
	el := c.order.PushBack(entry)
	c.entries[key] = el
}

// Len reports the current entry count, for tests/metrics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) removeLocked(el *list.Element) {
	entry := el.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.order.Remove(el)
}

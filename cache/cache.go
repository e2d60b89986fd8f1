package cache

import (
	"container/heap"
	"container/list"
	"sync"
	"time"
)

// LFU heap compaction bounds. The heap tolerates stale tuples and discards
// them lazily at pop time; compaction keeps it from growing unboundedly when
// Get far outpaces eviction.
const (
	lfuCompactFactor = 4
	lfuCompactMin    = 64
)

// entry is the record stored per key. It is replaced, not mutated in place,
// when a key is overwritten.
type entry[V any] struct {
	value        V
	createdAt    time.Time
	lastAccessed time.Time
	accessCount  uint64
	insertSeq    uint64
}

// lfuItem is a heap tuple. A popped tuple is live only if its count matches
// the entry's current access count.
type lfuItem[K comparable] struct {
	count uint64
	seq   uint64
	key   K
}

type lfuHeap[K comparable] []lfuItem[K]

func (h lfuHeap[K]) Len() int { return len(h) }

func (h lfuHeap[K]) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count < h[j].count
	}
	return h[i].seq < h[j].seq
}

func (h lfuHeap[K]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *lfuHeap[K]) Push(x any) { *h = append(*h, x.(lfuItem[K])) }

func (h *lfuHeap[K]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Cache is a bounded in-memory key/value store with a fixed eviction policy
// and optional TTL.
//
// Contract:
// - Concurrency: safe for concurrent use; one mutex covers each
//   read-modify-write sequence.
// - Errors: Get never errors; it returns (zero, false) on miss or expiry.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	cfg     Config
	entries map[K]*entry[V]

	// Ordering deque for LRU, FIFO, and TTLOnly; element values are keys.
	order *list.List
	elems map[K]*list.Element

	// Min-heap for LFU with lazy invalidation of stale tuples.
	lfu lfuHeap[K]
	seq uint64
}

// New creates a Cache with the given configuration.
func New[K comparable, V any](cfg Config) (*Cache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Cache[K, V]{
		cfg:     cfg,
		entries: make(map[K]*entry[V]),
		order:   list.New(),
		elems:   make(map[K]*list.Element),
	}, nil
}

// Get retrieves a value. Expired entries are removed on access, not just
// filtered. A hit updates the policy's recency or frequency bookkeeping.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	now := time.Now()
	if c.cfg.TTL > 0 && now.Sub(e.createdAt) > c.cfg.TTL {
		c.removeKey(key)
		return zero, false
	}

	e.accessCount++
	e.lastAccessed = now

	switch c.cfg.Policy {
	case LRU:
		c.order.MoveToBack(c.elems[key])
	case LFU:
		c.pushLFU(key, e.accessCount)
	}

	return e.value, true
}

// Put inserts or replaces a value. When the cache is at capacity and the key
// is new, exactly one entry is evicted first; replacing an existing key never
// triggers eviction.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.cfg.MaxSize {
		c.evictOne()
	}

	now := time.Now()
	c.seq++
	c.entries[key] = &entry[V]{
		value:     value,
		createdAt: now, lastAccessed: now,
		insertSeq: c.seq,
	}

	switch c.cfg.Policy {
	case LFU:
		c.pushLFU(key, 0)
	default:
		if el, ok := c.elems[key]; ok {
			c.order.MoveToBack(el)
		} else {
			c.elems[key] = c.order.PushBack(key)
		}
	}
}

// Delete removes a key, reporting whether it was present. Idempotent.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeKey(key)
}

// Clear resets all internal structures atomically.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*entry[V])
	c.order.Init()
	c.elems = make(map[K]*list.Element)
	c.lfu = nil
	c.seq = 0
}

// Len returns the current number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the cache's current shape.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:    len(c.entries),
		MaxSize: c.cfg.MaxSize,
		Policy:  c.cfg.Policy,
		TTL:     c.cfg.TTL,
	}
}

// removeKey deletes a key from the map and ordering deque. LFU heap tuples
// are left stale and discarded lazily at eviction time.
func (c *Cache[K, V]) removeKey(key K) bool {
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	if el, ok := c.elems[key]; ok {
		c.order.Remove(el)
		delete(c.elems, key)
	}
	return true
}

// evictOne removes a single entry per the configured policy. A logically
// empty cache is a no-op. Amortized O(1) for the deque policies, O(log n)
// for LFU.
func (c *Cache[K, V]) evictOne() {
	if len(c.entries) == 0 {
		return
	}

	switch c.cfg.Policy {
	case LFU:
		for c.lfu.Len() > 0 {
			item := heap.Pop(&c.lfu).(lfuItem[K])
			e, ok := c.entries[item.key]
			if !ok || e.accessCount != item.count {
				// Stale tuple from a prior access count.
				continue
			}
			c.removeKey(item.key)
			return
		}
	default:
		if front := c.order.Front(); front != nil {
			c.removeKey(front.Value.(K))
		}
	}
}

func (c *Cache[K, V]) pushLFU(key K, count uint64) {
	c.seq++
	heap.Push(&c.lfu, lfuItem[K]{count: count, seq: c.seq, key: key})

	if len(c.lfu) > lfuCompactMin && len(c.lfu) > lfuCompactFactor*len(c.entries) {
		c.compactLFU()
	}
}

// compactLFU rebuilds the heap from live entries only, dropping every stale
// tuple. Ties among equal counts fall back to insertion order.
func (c *Cache[K, V]) compactLFU() {
	fresh := make(lfuHeap[K], 0, len(c.entries))
	for key, e := range c.entries {
		fresh = append(fresh, lfuItem[K]{count: e.accessCount, seq: e.insertSeq, key: key})
	}
	heap.Init(&fresh)
	c.lfu = fresh
}

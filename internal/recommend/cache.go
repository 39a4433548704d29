// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package recommend

import (
	"sync"
	"time"
)

// cacheEntry is a node in the result cache's doubly-linked list.
type cacheEntry struct {
	key       string
	value     []Recommendation
	prev      *cacheEntry
	next      *cacheEntry
	expiresAt time.Time
}

// resultCache is a thread-safe LRU cache with TTL holding full rankings
// per (generation, anchor). Storing the complete ranking and slicing per
// request keeps truncated results prefix-stable across k values.
//
// A hashmap provides O(1) lookup; sentinel-noded doubly-linked list
// ordering gives O(1) eviction.
type resultCache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	items map[string]*cacheEntry
	head  *cacheEntry
	tail  *cacheEntry

	hits   int64
	misses int64
}

// newResultCache creates a cache with the given capacity and TTL.
func newResultCache(capacity int, ttl time.Duration) *resultCache {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	c := &resultCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*cacheEntry, capacity),
		head:     &cacheEntry{},
		tail:     &cacheEntry{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// get retrieves a ranking. Found entries move to the front.
func (c *resultCache) get(key string) ([]Recommendation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.items[key]
	if !exists {
		c.misses++
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.removeEntry(entry)
		c.misses++
		return nil, false
	}

	c.moveToFront(entry)
	c.hits++
	return entry.value, true
}

// add stores a ranking, evicting the least recently used entries when
// over capacity.
func (c *resultCache) add(key string, value []Recommendation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)
	if entry, exists := c.items[key]; exists {
		entry.value = value
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		return
	}

	entry := &cacheEntry{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(entry)
	c.items[key] = entry

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// purge drops every entry. Called on generation swap so stale rankings
// never outlive their data.
func (c *resultCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*cacheEntry, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// stats returns hit/miss counters and the current size.
func (c *resultCache) stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.items)
}

// Internal methods (must be called with lock held)

func (c *resultCache) addToFront(entry *cacheEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *resultCache) moveToFront(entry *cacheEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

func (c *resultCache) removeEntry(entry *cacheEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
}

func (c *resultCache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeEntry(oldest)
}

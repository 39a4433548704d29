// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package recommend

import (
	"fmt"
	"testing"
	"time"

	"github.com/librarium/librarium/internal/catalog"
)

func ranking(isbns ...string) []Recommendation {
	recs := make([]Recommendation, len(isbns))
	for i, isbn := range isbns {
		recs[i] = Recommendation{Book: catalog.Book{ISBN: isbn}}
	}
	return recs
}

func TestResultCacheGetAdd(t *testing.T) {
	c := newResultCache(10, time.Minute)

	if _, ok := c.get("gen1:b:x"); ok {
		t.Error("empty cache should miss")
	}

	c.add("gen1:b:x", ranking("a", "b"))
	got, ok := c.get("gen1:b:x")
	if !ok || len(got) != 2 {
		t.Fatalf("get after add = %v, %v", got, ok)
	}

	hits, misses, size := c.stats()
	if hits != 1 || misses != 1 || size != 1 {
		t.Errorf("stats = %d hits %d misses %d size, want 1/1/1", hits, misses, size)
	}
}

func TestResultCacheEvictsLRU(t *testing.T) {
	c := newResultCache(2, time.Minute)

	c.add("k1", ranking("a"))
	c.add("k2", ranking("b"))
	c.get("k1") // k1 becomes most recently used
	c.add("k3", ranking("c"))

	if _, ok := c.get("k2"); ok {
		t.Error("k2 should have been evicted as least recently used")
	}
	if _, ok := c.get("k1"); !ok {
		t.Error("recently used k1 should survive eviction")
	}
	if _, ok := c.get("k3"); !ok {
		t.Error("newest k3 should survive eviction")
	}
}

func TestResultCacheTTLExpiry(t *testing.T) {
	c := newResultCache(10, time.Minute)
	c.add("k1", ranking("a"))

	// Force expiry instead of sleeping.
	c.mu.Lock()
	c.items["k1"].expiresAt = time.Now().Add(-time.Second)
	c.mu.Unlock()

	if _, ok := c.get("k1"); ok {
		t.Error("expired entry should miss")
	}
	if _, _, size := c.stats(); size != 0 {
		t.Errorf("expired entry should be removed, size = %d", size)
	}
}

func TestResultCachePurge(t *testing.T) {
	c := newResultCache(10, time.Minute)
	for i := 0; i < 5; i++ {
		c.add(fmt.Sprintf("k%d", i), ranking("a"))
	}

	c.purge()
	if _, _, size := c.stats(); size != 0 {
		t.Errorf("size after purge = %d, want 0", size)
	}
	// The list must be reusable after a purge.
	c.add("fresh", ranking("b"))
	if _, ok := c.get("fresh"); !ok {
		t.Error("cache unusable after purge")
	}
}

func TestResultCacheUpdateExisting(t *testing.T) {
	c := newResultCache(10, time.Minute)
	c.add("k1", ranking("a"))
	c.add("k1", ranking("a", "b", "c"))

	got, ok := c.get("k1")
	if !ok || len(got) != 3 {
		t.Errorf("updated entry = %v, want 3 results", got)
	}
	if _, _, size := c.stats(); size != 1 {
		t.Errorf("size = %d, want 1 after in-place update", size)
	}
}

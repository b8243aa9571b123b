package market

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheCapacity is the entry bound used when callers have no reason
// to pick their own.
const DefaultCacheCapacity = 500

type cacheKey struct {
	ticker   string
	interval Interval
}

type cacheEntry struct {
	start  time.Time
	end    time.Time
	series Series
}

// Cache memoizes raw provider payloads per (ticker, interval) with LRU
// eviction. An entry keeps the range it covers so lookups only hit when the
// cached payload spans the requested range; the payload itself is stored
// unsliced and callers cut it down after retrieval. The underlying LRU is
// safe for concurrent use, so one Cache may be shared across runs.
type Cache struct {
	lru *lru.Cache[cacheKey, cacheEntry]
}

// NewCache creates a cache bounded to capacity entries.
func NewCache(capacity int) (*Cache, error) {
	l, err := lru.New[cacheKey, cacheEntry](capacity)
	if err != nil {
		return nil, fmt.Errorf("new cache: %w", err)
	}
	return &Cache{lru: l}, nil
}

// Get returns the raw cached payload for (ticker, interval) if it covers
// [start, end].
func (c *Cache) Get(ticker string, iv Interval, start, end time.Time) (Series, bool) {
	e, ok := c.lru.Get(cacheKey{ticker, iv})
	if !ok {
		return nil, false
	}
	if start.Before(e.start) || end.After(e.end) {
		return nil, false
	}
	return e.series, true
}

// Put stores a raw provider payload and the range it covers. A payload that
// covers less than the existing entry is dropped rather than narrowing it.
func (c *Cache) Put(ticker string, iv Interval, start, end time.Time, s Series) {
	key := cacheKey{ticker, iv}
	if old, ok := c.lru.Get(key); ok {
		if !start.Before(old.start) && !end.After(old.end) {
			return
		}
	}
	c.lru.Add(key, cacheEntry{start: start, end: end, series: s})
}

// Len returns the number of live entries.
func (c *Cache) Len() int { return c.lru.Len() }

package dataset

import (
	"github.com/hupe1980/vizsync/internal/cache"
	"github.com/hupe1980/vizsync/internal/resource"
	"github.com/hupe1980/vizsync/model"
)

// DefaultCacheBytes is the frame cache capacity used when none is given.
const DefaultCacheBytes = 16 << 20

type frameKey struct {
	gen       uint64
	index     int
	normalize bool
}

// Cache memoizes frames per (pack generation, index, options). It is safe
// for concurrent use.
type Cache struct {
	lru *cache.LRU[frameKey, []model.Row]
}

// NewCache creates a frame cache of capacity bytes. rc, if not nil, is
// charged for every cached frame.
func NewCache(capacity int64, rc *resource.Controller) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheBytes
	}
	return &Cache{lru: cache.NewLRU[frameKey, []model.Row](capacity, rc)}
}

// Frame returns the frame of p at index, deriving and caching it on a miss.
// gen identifies p; callers bump it whenever the pack changes. Cached frames
// are shared and must not be mutated.
func (c *Cache) Frame(p *model.Pack, gen uint64, index int, opts Options) []model.Row {
	key := frameKey{gen: gen, index: index, normalize: opts.Normalize}
	if rows, ok := c.lru.Get(key); ok {
		return rows
	}
	rows := Frame(p, index, opts)
	var dims int
	if p != nil {
		dims = len(p.Dimensions)
	}
	c.lru.Set(key, rows, frameCost(len(rows), dims))
	return rows
}

// Drop removes every frame of generations older than gen.
func (c *Cache) Drop(gen uint64) {
	c.lru.Invalidate(func(k frameKey) bool { return k.gen < gen })
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	return c.lru.Stats()
}

// frameCost approximates the heap footprint of a frame.
func frameCost(rows, dims int) int64 {
	const rowOverhead, valueCost = 96, 48
	return int64(rows) * int64(rowOverhead+dims*valueCost)
}

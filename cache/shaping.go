// Package cache provides an optional memoization layer for shaping results.
//
// The textrun pipeline itself never caches: every request recomputes
// attributes, runs, and glyphs. For callers that shape the same paragraphs
// repeatedly (editors, UI relayout), ShapingCache stores assembled
// GlyphStreams keyed by a (text, fontSize) fingerprint, and Shaper wraps an
// Engine with transparent lookup.
package cache

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/textrun"
)

// Default configuration constants.
const (
	// DefaultShardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	DefaultShardCount = 16

	// DefaultCapacity is the default maximum entries per shard.
	DefaultCapacity = 256

	// shardMask is used for fast shard selection (DefaultShardCount - 1).
	shardMask = DefaultShardCount - 1
)

// Key identifies one shaping request. Every parameter that affects the
// resulting GlyphStream must be folded in: the text, the font size, the
// primary font, and a caller-chosen salt covering the rest of the engine
// configuration (style, fallback chain, base direction).
type Key struct {
	// TextHash is the FNV-1a hash of the text.
	TextHash uint64

	// SizeBits is the IEEE 754 bit pattern of the font size. Bit patterns
	// compare exactly where floats would not.
	SizeBits uint64

	// FontHash is the FNV-1a hash of the primary font key.
	FontHash uint64

	// Salt distinguishes engines with otherwise identical inputs.
	Salt uint64
}

// NewKey creates a Key from shaping parameters.
func NewKey(text string, fontSize float64, font textrun.FontKey, salt uint64) Key {
	return Key{
		TextHash: hashString(text),
		SizeBits: math.Float64bits(fontSize),
		FontHash: hashString(string(font)),
		Salt:     salt,
	}
}

// hashString computes the FNV-1a hash of a string.
func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// shardHash mixes all key fields for shard selection.
func (k *Key) shardHash() uint64 {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:], k.TextHash)
	binary.LittleEndian.PutUint64(buf[8:], k.SizeBits)
	binary.LittleEndian.PutUint64(buf[16:], k.FontHash)
	binary.LittleEndian.PutUint64(buf[24:], k.Salt)

	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// ShapingCache is a thread-safe, sharded LRU cache for assembled glyph
// streams.
//
// Cached streams are shared: callers must treat a returned *GlyphStream as
// read-only.
type ShapingCache struct {
	shards   [DefaultShardCount]*cacheShard
	capacity int // per-shard capacity

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// cacheShard is a single shard with its own mutex for reduced contention.
type cacheShard struct {
	mu      sync.RWMutex
	entries map[Key]*cacheEntry
	lru     *lruList[Key]
}

// cacheEntry holds a cached stream with its LRU node.
type cacheEntry struct {
	value *textrun.GlyphStream
	node  *lruNode[Key]
}

// NewShapingCache creates a cache with the given per-shard capacity.
// Total capacity is approximately capacity * DefaultShardCount.
// If capacity <= 0, DefaultCapacity is used.
func NewShapingCache(capacity int) *ShapingCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	c := &ShapingCache{capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &cacheShard{
			entries: make(map[Key]*cacheEntry),
			lru:     newLRUList[Key](),
		}
	}
	return c
}

// getShard returns the shard for a key.
func (c *ShapingCache) getShard(key *Key) *cacheShard {
	return c.shards[key.shardHash()&shardMask]
}

// Get retrieves a cached stream. On a hit the entry moves to the front of
// its shard's LRU list.
func (c *ShapingCache) Get(key Key) (*textrun.GlyphStream, bool) {
	shard := c.getShard(&key)

	shard.mu.RLock()
	_, exists := shard.entries[key]
	shard.mu.RUnlock()

	if !exists {
		c.misses.Add(1)
		return nil, false
	}

	shard.mu.Lock()
	entry, ok := shard.entries[key]
	if !ok {
		// Evicted between the two locks.
		shard.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}
	shard.lru.MoveToFront(entry.node)
	value := entry.value
	shard.mu.Unlock()

	c.hits.Add(1)
	return value, true
}

// Set stores a stream, evicting least recently used entries past capacity.
// The value is stored as-is, not copied.
func (c *ShapingCache) Set(key Key, value *textrun.GlyphStream) {
	if value == nil {
		return
	}

	shard := c.getShard(&key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	if existing, ok := shard.entries[key]; ok {
		existing.value = value
		shard.lru.MoveToFront(existing.node)
		return
	}

	for shard.lru.Len() >= c.capacity {
		oldest, ok := shard.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(shard.entries, oldest)
		c.evictions.Add(1)
	}

	node := shard.lru.PushFront(key)
	shard.entries[key] = &cacheEntry{value: value, node: node}
}

// GetOrCreate returns the cached stream or computes and stores it. The
// create function runs with the shard lock held to prevent a thundering
// herd; keep it fast or use Get/Set for fallible producers.
func (c *ShapingCache) GetOrCreate(key Key, create func() *textrun.GlyphStream) *textrun.GlyphStream {
	shard := c.getShard(&key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	if entry, ok := shard.entries[key]; ok {
		shard.lru.MoveToFront(entry.node)
		c.hits.Add(1)
		return entry.value
	}

	c.misses.Add(1)

	value := create()
	if value == nil {
		return nil
	}

	for shard.lru.Len() >= c.capacity {
		oldest, ok := shard.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(shard.entries, oldest)
		c.evictions.Add(1)
	}

	node := shard.lru.PushFront(key)
	shard.entries[key] = &cacheEntry{value: value, node: node}
	return value
}

// Delete removes an entry. Returns true if it was present.
func (c *ShapingCache) Delete(key Key) bool {
	shard := c.getShard(&key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	entry, ok := shard.entries[key]
	if !ok {
		return false
	}
	shard.lru.Remove(entry.node)
	delete(shard.entries, key)
	return true
}

// Clear removes all entries.
func (c *ShapingCache) Clear() {
	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.entries = make(map[Key]*cacheEntry)
		shard.lru.Clear()
		shard.mu.Unlock()
	}
}

// Len returns the total number of entries across all shards.
func (c *ShapingCache) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}

// Capacity returns the per-shard capacity.
func (c *ShapingCache) Capacity() int { return c.capacity }

// Stats contains cache statistics for monitoring.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	HitRate   float64
	Evictions uint64
}

// ReadStats returns current statistics. Mostly lock-free (atomic counters).
func (c *ShapingCache) ReadStats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:       c.Len(),
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: c.evictions.Load(),
	}
}

// Shaper wraps an Engine with transparent result caching. One Shaper must
// wrap exactly one engine configuration; the salt separates multiple Shapers
// sharing a ShapingCache.
type Shaper struct {
	engine *textrun.Engine
	cache  *ShapingCache
	salt   uint64
}

// NewShaper creates a caching front for the engine. A nil cache gets a
// default one.
func NewShaper(engine *textrun.Engine, c *ShapingCache, salt uint64) *Shaper {
	if c == nil {
		c = NewShapingCache(DefaultCapacity)
	}
	return &Shaper{engine: engine, cache: c, salt: salt}
}

// SplitAndShape returns the cached stream for (text, fontSize) or shapes and
// caches it. The returned stream is shared; treat it as read-only.
func (s *Shaper) SplitAndShape(text string, fontSize float64) (*textrun.GlyphStream, error) {
	key := NewKey(text, fontSize, "", s.salt)

	if stream, ok := s.cache.Get(key); ok {
		return stream, nil
	}

	stream, err := s.engine.SplitAndShape(text, fontSize)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, stream)
	return stream, nil
}

// Cache exposes the underlying cache for stats and invalidation.
func (s *Shaper) Cache() *ShapingCache { return s.cache }

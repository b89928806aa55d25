package filegate

import (
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/filegate/filegate/fsys"
	"github.com/filegate/filegate/integrity"
)

// Stats is a point-in-time snapshot of the cache counters. Hits, Misses and
// Evictions are cumulative and only reset by an explicit ResetStats call.
type Stats struct {
	Entries    int
	TotalBytes int64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	// HitRate is Hits / (Hits + Misses); zero before the first request.
	HitRate float64
}

// entry is one cached file version. content is never mutated after creation;
// a changed file always produces a replacement entry.
type entry struct {
	content     []byte
	size        int64
	modTime     time.Time // filesystem mtime captured at cache time
	fingerprint string    // empty when integrity checking is off
	lastAccess  time.Time
	accessCount uint64
}

type engineConfig struct {
	fs    fsys.Filesystem
	log   Logger
	hooks Hooks
	clock Clock

	maxBytes    int64
	maxEntries  int
	maxFileSize int64
	ttl         time.Duration
	verify      bool
	disabled    bool
}

// cacheEngine owns the entry table and its strict LRU order, the dual-budget
// accounting (entry count and total bytes) and the stats counters. Every
// mutation runs under mu; the LRU structure doubles as the entry table so a
// key is in the order list iff it is in the table.
type cacheEngine struct {
	mu  sync.Mutex
	lru *lru.LRU[string, *entry]

	fs    fsys.Filesystem
	log   Logger
	hooks Hooks
	clock Clock

	maxBytes    int64
	maxEntries  int
	maxFileSize int64
	ttl         time.Duration
	verify      bool
	disabled    bool

	totalBytes int64
	hits       uint64
	misses     uint64
	evictions  uint64

	// removal reason observed by onEvict; only written under mu.
	cause string
}

func newCacheEngine(cfg engineConfig) *cacheEngine {
	c := &cacheEngine{
		fs:          cfg.fs,
		log:         cfg.log,
		hooks:       cfg.hooks,
		clock:       cfg.clock,
		maxBytes:    cfg.maxBytes,
		maxEntries:  cfg.maxEntries,
		maxFileSize: cfg.maxFileSize,
		ttl:         cfg.ttl,
		verify:      cfg.verify,
		disabled:    cfg.disabled,
		cause:       EvictCapacity,
	}
	// maxEntries is validated positive by New, so this cannot fail.
	l, _ := lru.NewLRU[string, *entry](cfg.maxEntries, c.onEvict)
	c.lru = l
	return c
}

// onEvict fires for every removal (capacity, TTL, staleness, integrity,
// explicit invalidation, clear) and keeps the byte aggregate in step with the
// table. Explicit removals are not counted as evictions.
func (c *cacheEngine) onEvict(key string, e *entry) {
	c.totalBytes -= e.size
	switch c.cause {
	case EvictExplicit, EvictClear, evictReplaced:
	default:
		c.evictions++
	}
	c.hooks.Evicted(key, c.cause)
}

// get returns the cached content for key, re-verifying the entry against the
// live filesystem first. A modification-time mismatch (or a vanished file)
// drops the entry as stale; a fingerprint mismatch drops it as corrupt and
// logs a warning. Either way the call reports a miss — stale or tampered
// content is never served.
func (c *cacheEngine) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return nil, false
	}

	e, ok := c.lru.Peek(key)
	if !ok {
		c.misses++
		return nil, false
	}

	info, err := c.fs.Stat(key)
	if err != nil || !info.ModTime().Equal(e.modTime) {
		c.hooks.StaleEntry(key)
		c.removeLocked(key, EvictStale)
		c.misses++
		c.log.Debug("dropped stale entry", Fields{"key": key})
		return nil, false
	}

	if c.verify && !integrity.Verify(e.content, e.fingerprint) {
		c.log.Warn("cached content failed integrity re-verification", Fields{
			"key":  key,
			"size": e.size,
		})
		c.hooks.IntegrityMismatch(key)
		c.removeLocked(key, EvictIntegrity)
		c.misses++
		return nil, false
	}

	c.lru.Get(key) // recency bump
	e.lastAccess = c.clock.Now()
	e.accessCount++
	c.hits++
	return e.content, true
}

// put caches content for key. Oversized content (per-file ceiling, or bigger
// than the whole byte budget) is a soft failure: logged, reported to hooks,
// never an error — the caller's read has already succeeded. The eviction
// pre-pass restores both budgets before the new entry is accepted.
func (c *cacheEngine) put(key string, content []byte, modTime time.Time) bool {
	if c.disabled {
		return false
	}
	size := int64(len(content))
	if size > c.maxFileSize {
		c.log.Debug("content exceeds per-file ceiling, not cached", Fields{
			"key":  key,
			"size": humanize.IBytes(uint64(size)),
		})
		c.hooks.PutRejected(key, size)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Replacing an entry retires the old version without counting an
	// eviction; removing it first keeps the byte pre-pass from seeing the
	// old size.
	c.removeLocked(key, evictReplaced)

	for c.totalBytes+size > c.maxBytes && c.lru.Len() > 0 {
		c.cause = EvictCapacity
		c.lru.RemoveOldest()
	}
	if c.totalBytes+size > c.maxBytes {
		// Cache is empty and the content still does not fit.
		c.log.Warn("content exceeds the whole memory budget, not cached", Fields{
			"key":    key,
			"size":   humanize.IBytes(uint64(size)),
			"budget": humanize.IBytes(uint64(c.maxBytes)),
		})
		c.hooks.PutRejected(key, size)
		return false
	}

	e := &entry{
		content:    content,
		size:       size,
		modTime:    modTime,
		lastAccess: c.clock.Now(),
	}
	if c.verify {
		e.fingerprint = integrity.Fingerprint(content)
	}

	c.cause = EvictCapacity
	c.lru.Add(key, e) // evicts the LRU head itself when at maxEntries
	c.totalBytes += size
	return true
}

// invalidate removes key if present and reports whether anything was removed.
func (c *cacheEngine) invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(key, EvictExplicit)
}

// clear empties the table and the byte aggregate. Cumulative stats counters
// survive; resetStats is a separate explicit call.
func (c *cacheEngine) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cause = EvictClear
	c.lru.Purge()
	c.cause = EvictCapacity
	c.totalBytes = 0
}

// expireOlderThan evicts every entry whose last access is older than the TTL
// relative to now, returning the number removed. The LRU order is exactly
// last-access order, so the scan stops at the first entry young enough.
func (c *cacheEngine) expireOlderThan(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var victims []string
	for _, k := range c.lru.Keys() { // oldest access first
		e, ok := c.lru.Peek(k)
		if !ok {
			continue
		}
		if now.Sub(e.lastAccess) <= c.ttl {
			break
		}
		victims = append(victims, k)
	}
	for _, k := range victims {
		c.removeLocked(k, EvictTTL)
	}
	if len(victims) > 0 {
		c.log.Debug("ttl sweep expired entries", Fields{"expired": len(victims)})
	}
	return len(victims)
}

func (c *cacheEngine) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{
		Entries:    c.lru.Len(),
		TotalBytes: c.totalBytes,
		Hits:       c.hits,
		Misses:     c.misses,
		Evictions:  c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

func (c *cacheEngine) resetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits, c.misses, c.evictions = 0, 0, 0
}

func (c *cacheEngine) removeLocked(key, cause string) bool {
	prev := c.cause
	c.cause = cause
	ok := c.lru.Remove(key)
	c.cause = prev
	return ok
}

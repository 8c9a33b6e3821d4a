package comparator

import (
	"sync"
	"sync/atomic"

	"pdiff/imageprocessor"
	"pdiff/logging"
	"pdiff/types"
)

type cacheEntry struct {
	fingerprint imageprocessor.Fingerprint
	info        types.ImageInfo
	err         error
}

// CacheStats counts how fingerprints were obtained
type CacheStats struct {
	Computed  int64
	StoreHits int64
	Discarded int64
}

// FingerprintCache memoizes fingerprints by path for the lifetime of one run.
// Each key is written once; a racing duplicate computation is discarded.
// Failures are cached as well, so a bad image is reported once.
type FingerprintCache struct {
	engine  *imageprocessor.Engine
	store   FingerprintStore
	entries sync.Map

	computed  atomic.Int64
	storeHits atomic.Int64
	discarded atomic.Int64
}

// NewFingerprintCache creates a cache on top of engine. store may be nil.
func NewFingerprintCache(engine *imageprocessor.Engine, store FingerprintStore) *FingerprintCache {
	return &FingerprintCache{
		engine: engine,
		store:  store,
	}
}

// Get returns the fingerprint and metadata of path, computing them on first use
func (c *FingerprintCache) Get(path string) (imageprocessor.Fingerprint, types.ImageInfo, error) {
	if v, ok := c.entries.Load(path); ok {
		e := v.(*cacheEntry)
		return e.fingerprint, e.info, e.err
	}

	entry := c.compute(path)

	actual, loaded := c.entries.LoadOrStore(path, entry)
	if loaded {
		c.discarded.Add(1)
	}
	e := actual.(*cacheEntry)
	return e.fingerprint, e.info, e.err
}

// Stats returns the counters collected so far
func (c *FingerprintCache) Stats() CacheStats {
	return CacheStats{
		Computed:  c.computed.Load(),
		StoreHits: c.storeHits.Load(),
		Discarded: c.discarded.Load(),
	}
}

// lookup returns the entry for path without computing it
func (c *FingerprintCache) lookup(path string) (*cacheEntry, bool) {
	v, ok := c.entries.Load(path)
	if !ok {
		return nil, false
	}
	return v.(*cacheEntry), true
}

func (c *FingerprintCache) compute(path string) *cacheEntry {
	if c.store != nil {
		if entry := c.fromStore(path); entry != nil {
			c.storeHits.Add(1)
			return entry
		}
	}

	fp, info, err := c.engine.Fingerprint(path)
	c.computed.Add(1)
	if err != nil {
		return &cacheEntry{info: info, err: err}
	}

	if c.store != nil {
		hasher := c.engine.Hasher()
		if err := c.store.Store(info, hasher.Name(), hasher.Size(), fp.Len(), fp.Hex()); err != nil {
			logging.LogWarning("Cannot store fingerprint for %s: %v", path, err)
		}
	}

	return &cacheEntry{fingerprint: fp, info: info}
}

// fromStore returns a cache entry built from the persistent store, or nil on a miss
func (c *FingerprintCache) fromStore(path string) *cacheEntry {
	info, err := c.engine.Describe(path)
	if err != nil {
		return nil
	}

	hasher := c.engine.Hasher()
	stored, ok, err := c.store.Lookup(info, hasher.Name(), hasher.Size())
	if err != nil {
		logging.LogWarning("Fingerprint store lookup failed: %v", err)
		return nil
	}
	if !ok || stored.Bits != hasher.Bits() {
		return nil
	}

	fp, err := imageprocessor.ParseFingerprint(stored.Hash, stored.Bits)
	if err != nil {
		logging.LogWarning("Ignoring stored fingerprint for %s: %v", path, err)
		return nil
	}

	info = stored.Info
	if info.Width == 0 || info.Height == 0 {
		if w, h, err := imageprocessor.ProbeDimensions(path); err == nil {
			info.Width, info.Height = w, h
		}
	}
	c.engine.Enrich(&info)

	logging.DebugLog("Fingerprint for %s loaded from store", path)
	return &cacheEntry{fingerprint: fp, info: info}
}

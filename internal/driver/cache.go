package driver

import (
	"crypto/sha256"
	"sync"

	"taglint/internal/extract"
)

// CacheKey identifies one extraction: the file content plus the exact
// catalog it was extracted with. Rule changes do not touch it; rules
// run after extraction and are cheap.
type CacheKey [32]byte

func cacheKey(content []byte, fingerprint [32]byte) CacheKey {
	h := sha256.New()
	h.Write(content)
	h.Write(fingerprint[:])
	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}

// profileCache is the per-process cache of base profiles. Profiles are
// cloned on both ends so the cached copy never sees the compound tags
// a caller folds in afterwards.
type profileCache struct {
	mu    sync.RWMutex
	byKey map[CacheKey]*extract.Profile
}

func newProfileCache(capHint int) *profileCache {
	return &profileCache{byKey: make(map[CacheKey]*extract.Profile, capHint)}
}

func (c *profileCache) Get(key CacheKey) (*extract.Profile, bool) {
	c.mu.RLock()
	p, ok := c.byKey[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (c *profileCache) Put(key CacheKey, p *extract.Profile) {
	clone := p.Clone()
	c.mu.Lock()
	c.byKey[key] = clone
	c.mu.Unlock()
}

func (c *profileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}

package driver

import "sync"

type memEntry struct {
	key     Digest
	payload *DiskPayload
}

// UnitCache is a per-process IR cache keyed by unit name. It sits in front of
// DiskCache: a hit skips both the disk and the pipeline.
type UnitCache struct {
	mu     sync.RWMutex
	byName map[string]memEntry
}

// NewUnitCache creates a UnitCache with the given capacity hint.
func NewUnitCache(capHint int) *UnitCache {
	return &UnitCache{byName: make(map[string]memEntry, capHint)}
}

// Get returns the payload stored for name if it was stored under key.
func (c *UnitCache) Get(name string, key Digest) (*DiskPayload, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	rec, ok := c.byName[name]
	c.mu.RUnlock()
	if !ok || rec.key != key {
		return nil, false
	}
	return rec.payload, true
}

// Put replaces the entry for name.
func (c *UnitCache) Put(name string, key Digest, payload *DiskPayload) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.byName[name] = memEntry{key: key, payload: payload}
	c.mu.Unlock()
}

// Len is the number of cached units.
func (c *UnitCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byName)
}

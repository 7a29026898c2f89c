package pipeline

import (
	"sync"

	"github.com/dfac-tools/menubuilder/models"
)

// lookupCache deduplicates external lookups for repeated item names within
// one run. The first caller for a key performs the fetch; concurrent
// callers for the same key wait on the in-flight entry instead of issuing
// a duplicate request.
type lookupCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	ready chan struct{}
	facts *models.NutritionFacts
	ok    bool
}

func newLookupCache() *lookupCache {
	return &lookupCache{entries: make(map[string]*cacheEntry)}
}

func (c *lookupCache) get(key string, fetch func() (*models.NutritionFacts, bool)) (*models.NutritionFacts, bool) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		<-e.ready
		return e.facts, e.ok
	}
	e := &cacheEntry{ready: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	e.facts, e.ok = fetch()
	close(e.ready)
	return e.facts, e.ok
}

package offers

import (
	"fmt"
	"sync"
	"time"
)

// listingCache memoizes marketplace pages. The listing is the hottest
// read path and tolerates briefly stale results; publishes and archives
// flush it.
type listingCache struct {
	mu   sync.RWMutex
	data map[string]*listingEntry
	ttl  time.Duration
}

type listingEntry struct {
	listing    *MarketplaceListing
	expiration time.Time
}

func newListingCache(ttl time.Duration) *listingCache {
	return &listingCache{
		data: make(map[string]*listingEntry),
		ttl:  ttl,
	}
}

func (c *listingCache) key(filters *MarketplaceFilters) string {
	sport, state, search := "", "", ""
	if filters.Sport != nil {
		sport = *filters.Sport
	}
	if filters.State != nil {
		state = *filters.State
	}
	if filters.Search != nil {
		search = *filters.Search
	}
	return fmt.Sprintf("%s|%s|%s|%d|%d", sport, state, search, filters.Page, filters.PageSize)
}

func (c *listingCache) get(filters *MarketplaceFilters) (*MarketplaceListing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[c.key(filters)]
	if !ok || time.Now().After(entry.expiration) {
		return nil, false
	}
	return entry.listing, true
}

func (c *listingCache) set(filters *MarketplaceFilters, listing *MarketplaceListing) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Expired entries pile up between flushes; sweep them while we
	// hold the lock anyway.
	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.expiration) {
			delete(c.data, key)
		}
	}

	c.data[c.key(filters)] = &listingEntry{
		listing:    listing,
		expiration: now.Add(c.ttl),
	}
}

func (c *listingCache) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*listingEntry)
}

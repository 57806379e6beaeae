package engine

import (
	"fmt"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	lru "github.com/hashicorp/golang-lru"
)

// Deriver produces the dashboard for a settled selection state.
type Deriver interface {
	Derive(state domain.SelectionState) Dashboard
}

// CacheObserver is notified of view cache lookups.
type CacheObserver interface {
	ObserveViewCache(hit bool)
}

// CachedDeriver wraps a Deriver with an in-memory LRU keyed by the settled
// state. Derivations are pure over an immutable registry, so entries never
// go stale. Every call returns its own copy of the dashboard.
type CachedDeriver struct {
	inner    Deriver
	cache    *lru.Cache
	observer CacheObserver
}

// NewCachedDeriver creates a cache decorator holding up to maxEntries
// dashboards. A nil observer is allowed.
func NewCachedDeriver(inner Deriver, maxEntries int, observer CacheObserver) (*CachedDeriver, error) {
	cache, err := lru.New(maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create view cache: %w", err)
	}
	return &CachedDeriver{inner: inner, cache: cache, observer: observer}, nil
}

// Derive returns the cached dashboard for state, deriving it on a miss.
func (c *CachedDeriver) Derive(state domain.SelectionState) Dashboard {
	key := state.Key()
	if v, ok := c.cache.Get(key); ok {
		c.observe(true)
		return v.(Dashboard).Clone()
	}
	c.observe(false)

	dash := c.inner.Derive(state)
	c.cache.Add(key, dash.Clone())
	return dash
}

// Len returns the number of cached dashboards.
func (c *CachedDeriver) Len() int { return c.cache.Len() }

func (c *CachedDeriver) observe(hit bool) {
	if c.observer != nil {
		c.observer.ObserveViewCache(hit)
	}
}

package osrm

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/transfer-center/internal/domain"
	"github.com/couchcryptid/transfer-center/internal/observability"
)

// CachedRouter wraps a RoadRouter with an in-memory LRU cache. Origin and
// destination coordinates are keyed at 4 decimals (~11m), which is plenty for
// facility-to-facility routes.
type CachedRouter struct {
	inner   domain.RoadRouter
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedRouter creates a cache decorator around a road router.
func NewCachedRouter(inner domain.RoadRouter, maxEntries int, metrics *observability.Metrics) *CachedRouter {
	return &CachedRouter{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedRouter) Route(ctx context.Context, origin, destination domain.Location) (domain.RoadRoute, error) {
	key := fmt.Sprintf("%.4f,%.4f;%.4f,%.4f",
		origin.Latitude, origin.Longitude,
		destination.Latitude, destination.Longitude,
	)
	if route, ok := c.cache.get(key); ok {
		c.metrics.RouteCache.WithLabelValues("hit").Inc()
		return route, nil
	}
	c.metrics.RouteCache.WithLabelValues("miss").Inc()

	route, err := c.inner.Route(ctx, origin, destination)
	if err != nil {
		return route, err
	}
	c.cache.put(key, route)
	return route, nil
}

// lruCache is a simple thread-safe LRU cache for road routes.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.RoadRoute
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.RoadRoute, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.RoadRoute{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.RoadRoute) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}

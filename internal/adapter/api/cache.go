package api

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/domain"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/observability"
)

// TrendSource fetches a facility's report history.
type TrendSource interface {
	FetchTrend(ctx context.Context, id domain.FacilityID) ([]domain.ReportRecord, error)
}

// CachedTrendSource wraps a TrendSource with an in-memory LRU cache. It is
// also a snapshot sink: every published dashboard means new reports may have
// landed, so the cache is dropped.
type CachedTrendSource struct {
	inner   TrendSource
	cache   *lruCache[domain.FacilityID, []domain.ReportRecord]
	metrics *observability.Metrics
	// epoch advances on Invalidate; fetches that straddle it are not cached.
	epoch atomic.Uint64
}

// NewCachedTrendSource creates a cache decorator around a trend source.
func NewCachedTrendSource(inner TrendSource, maxEntries int, metrics *observability.Metrics) *CachedTrendSource {
	return &CachedTrendSource{
		inner:   inner,
		cache:   newLRUCache[domain.FacilityID, []domain.ReportRecord](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedTrendSource) FetchTrend(ctx context.Context, id domain.FacilityID) ([]domain.ReportRecord, error) {
	if history, ok := c.cache.get(id); ok {
		c.metrics.TrendCache.WithLabelValues("hit").Inc()
		return slices.Clone(history), nil
	}
	c.metrics.TrendCache.WithLabelValues("miss").Inc()

	epoch := c.epoch.Load()
	history, err := c.inner.FetchTrend(ctx, id)
	if err != nil {
		return nil, err
	}
	// Empty histories are not cached so a facility's first report shows up.
	if len(history) > 0 && c.epoch.Load() == epoch {
		c.cache.put(id, slices.Clone(history))
	}
	return history, nil
}

// Invalidate drops every cached history.
func (c *CachedTrendSource) Invalidate() {
	c.epoch.Add(1)
	c.cache.clear()
}

// LoadSnapshot invalidates the cache whenever the poller publishes.
func (c *CachedTrendSource) LoadSnapshot(_ context.Context, _ domain.Dashboard) error {
	c.Invalidate()
	return nil
}

// lruCache is a small thread-safe LRU map.
type lruCache[K comparable, V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[K]*entry[K, V]
	head       *entry[K, V] // most recently used
	tail       *entry[K, V] // least recently used
}

type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

func newLRUCache[K comparable, V any](maxEntries int) *lruCache[K, V] {
	return &lruCache[K, V]{
		maxEntries: maxEntries,
		entries:    make(map[K]*entry[K, V]),
	}
}

func (c *lruCache[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[K, V]) put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[K, V]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*entry[K, V])
	c.head, c.tail = nil, nil
}

func (c *lruCache[K, V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[K, V]) addToFront(e *entry[K, V]) {
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

func (c *lruCache[K, V]) remove(e *entry[K, V]) {
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

func (c *lruCache[K, V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}

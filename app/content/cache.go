package content

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/folio/app/card"
	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 5 * time.Minute

type cacheEntry[T any] struct {
	data      T
	fetchedAt time.Time
}

// Cache is an in-memory get-or-fetch cache. A failed refetch returns the
// stale entry when one exists.
type Cache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry[T]
	now     func() time.Time
	group   singleflight.Group
}

func NewCache[T any](ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{
		ttl:     ttl,
		entries: make(map[string]cacheEntry[T]),
		now:     time.Now,
	}
}

// GetOrFetch returns the entry for key, fetching it when missing or stale.
// Concurrent misses on one key share a single fetch.
func (c *Cache[T]) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	existing, ok, fresh := c.lookup(key)
	if fresh {
		return existing.data, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		// Another caller may have stored the key between lookup and Do.
		if entry, _, fresh := c.lookup(key); fresh {
			return entry.data, nil
		}

		fetchedAt := c.now()
		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = cacheEntry[T]{data: data, fetchedAt: fetchedAt}
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		if ok {
			slog.Warn("Fetch failed, serving stale data", "key", key, "age", c.now().Sub(existing.fetchedAt), "error", err)
			return existing.data, nil
		}
		var zero T
		return zero, err
	}
	if shared {
		slog.Debug("Shared in-flight fetch", "key", key)
	}

	data, _ := v.(T)
	return data, nil
}

func (c *Cache[T]) lookup(key string) (entry cacheEntry[T], ok, fresh bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok = c.entries[key]
	return entry, ok, ok && c.now().Sub(entry.fetchedAt) < c.ttl
}

// Expire marks every entry as stale without dropping it, so the next read
// refetches but can still fall back to the old data.
func (c *Cache[T]) Expire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		entry.fetchedAt = time.Time{}
		c.entries[key] = entry
	}
}

func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Cached serves a source through a Cache keyed by the source name
type Cached struct {
	source Source
	cache  *Cache[[]card.Card]
}

func NewCached(source Source, cache *Cache[[]card.Card]) *Cached {
	return &Cached{source: source, cache: cache}
}

func (c *Cached) Name() string {
	return c.source.Name()
}

func (c *Cached) Load(ctx context.Context) ([]card.Card, error) {
	return c.cache.GetOrFetch(ctx, c.source.Name(), c.source.Load)
}

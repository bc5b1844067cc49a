// Package cache provides the expiring key-value layer backing both the
// item-price cache and the inventory-total cache. A Cache binds one namespace
// and one default TTL to a Store; the two caches are separate instances over
// the same store, never sharing keys.
package cache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Store is the durable key-value seam. Get must not return entries whose
// expiry has passed, even if they have not been purged yet. Put unconditionally
// overwrites any prior entry for the key (last-writer-wins).
type Store interface {
	Get(ctx context.Context, namespace, key string) (float64, bool, error)
	Put(ctx context.Context, namespace, key string, value float64, ttl time.Duration) error
}

type Cache struct {
	store     Store
	namespace string
	ttl       time.Duration
	log       *logrus.Entry
}

func New(store Store, namespace string, ttl time.Duration) *Cache {
	return &Cache{
		store:     store,
		namespace: namespace,
		ttl:       ttl,
		log:       logrus.WithField("cache", namespace),
	}
}

// Get returns the cached value for key if a fresh entry exists. Store errors
// are logged and reported as a miss so a flaky store degrades to recomputation
// instead of failing the request.
func (c *Cache) Get(ctx context.Context, key string) (float64, bool) {
	value, ok, err := c.store.Get(ctx, c.namespace, key)
	if err != nil {
		c.log.WithError(err).Warn("cache read failed, treating as miss")
		return 0, false
	}
	return value, ok
}

// Put upserts value under key with the cache's default TTL. Write failures are
// logged and swallowed; the worst case is a refetch on the next request.
func (c *Cache) Put(ctx context.Context, key string, value float64) {
	if err := c.store.Put(ctx, c.namespace, key, value, c.ttl); err != nil {
		c.log.WithError(err).Warn("cache write failed")
	}
}

// TTL returns the cache's default time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

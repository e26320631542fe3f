// Package cache keeps recent search results per normalized query.
package cache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
)

const keyPrefix = "product_search_cache_"

// Store is the persistence behind the cache.
type Store interface {
	// Get returns models.ErrNotFound on a miss.
	Get(ctx context.Context, key string) (*models.CacheEntry, error)
	// Set returns models.ErrCacheFull when the store cannot take more entries.
	Set(ctx context.Context, key string, entry models.CacheEntry) error
	Delete(ctx context.Context, keys ...string) error
	// Entries lists stored keys ordered by creation time, oldest first.
	Entries(ctx context.Context) ([]Item, error)
	Clear(ctx context.Context) error
}

type Item struct {
	Key       string
	CreatedAt time.Time
}

// Cache is best effort: store failures are logged and never returned from
// Get or Put.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewCache(conf *config.Config, store Store) *Cache {
	return New(store, conf.Cache.TTL)
}

func New(store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &Cache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// NormalizeKey lowercases and trims query and joins its words with "_".
func NormalizeKey(query string) string {
	return keyPrefix + strings.Join(strings.Fields(strings.ToLower(query)), "_")
}

// Get returns the entry for query while it is younger than the TTL. Expired
// entries are deleted on access.
func (c *Cache) Get(ctx context.Context, query string) (models.CacheEntry, bool) {
	key := NormalizeKey(query)
	entry, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Warnw(ctx, "cache get failed", "key", key, "error", err)
		}
		return models.CacheEntry{}, false
	}
	if entry.Expired(c.now(), c.ttl) {
		if err := c.store.Delete(ctx, key); err != nil {
			log.Warnw(ctx, "cache delete expired failed", "key", key, "error", err)
		}
		return models.CacheEntry{}, false
	}
	return *entry, true
}

// Put stores products for query. A failed write evicts the oldest half of
// the entries and is retried once.
func (c *Cache) Put(ctx context.Context, query string, products []models.ProductRecord, source models.Source) {
	key := NormalizeKey(query)
	entry := models.CacheEntry{
		Query:     strings.TrimSpace(query),
		Products:  slices.Clone(products),
		Source:    source,
		CreatedAt: c.now().UTC(),
	}

	err := c.store.Set(ctx, key, entry)
	if err == nil {
		return
	}
	log.Warnw(ctx, "cache write failed, evicting oldest entries", "key", key, "error", err)

	if err := c.evictOldestHalf(ctx); err != nil {
		log.Warnw(ctx, "cache eviction failed", "error", err)
	}
	if err := c.store.Set(ctx, key, entry); err != nil {
		log.Errorw(ctx, "cache write retry failed", "key", key, "error", err)
	}
}

func (c *Cache) evictOldestHalf(ctx context.Context) error {
	items, err := c.store.Entries(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	n := len(items) / 2
	if n == 0 && len(items) > 0 {
		n = 1
	}
	if n == 0 {
		return nil
	}
	keys := make([]string, 0, n)
	for _, it := range items[:n] {
		keys = append(keys, it.Key)
	}
	return c.store.Delete(ctx, keys...)
}

func (c *Cache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

func (c *Cache) Stats(ctx context.Context) (models.CacheStats, error) {
	items, err := c.store.Entries(ctx)
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("list entries: %w", err)
	}
	now := c.now()
	stats := models.CacheStats{TotalEntries: len(items)}
	for _, it := range items {
		if now.Sub(it.CreatedAt) >= c.ttl {
			stats.ExpiredEntries++
		} else {
			stats.ValidEntries++
		}
	}
	return stats, nil
}

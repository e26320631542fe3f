package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/redis/go-redis/v9"
)

const redisIndexKey = "product_search_cache:index"

type redisStore struct {
	rdb      redis.UniversalClient
	capacity int
	expiry   time.Duration
}

// NewRedisStore shares cached results between instances. Entries expire in
// redis after expiry; the index sorted set is scored by creation time.
func NewRedisStore(rdb redis.UniversalClient, capacity int, expiry time.Duration) Store {
	return &redisStore{
		rdb:      rdb,
		capacity: capacity,
		expiry:   expiry,
	}
}

func (r *redisStore) Get(ctx context.Context, key string) (*models.CacheEntry, error) {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", key, err)
	}
	return &entry, nil
}

func (r *redisStore) Set(ctx context.Context, key string, entry models.CacheEntry) error {
	if r.capacity > 0 {
		_, err := r.rdb.ZScore(ctx, redisIndexKey, key).Result()
		if errors.Is(err, redis.Nil) {
			size, err := r.rdb.ZCard(ctx, redisIndexKey).Result()
			if err != nil {
				return fmt.Errorf("redis zcard: %w", err)
			}
			if size >= int64(r.capacity) {
				return models.ErrCacheFull
			}
		} else if err != nil {
			return fmt.Errorf("redis zscore: %w", err)
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key, data, r.expiry)
		p.ZAdd(ctx, redisIndexKey, redis.Z{
			Score:  float64(entry.CreatedAt.UnixMilli()),
			Member: key,
		})
		return nil
	})
	if err != nil {
		if isOutOfMemory(err) {
			return fmt.Errorf("%w: %w", models.ErrCacheFull, err)
		}
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	members := make([]any, len(keys))
	for i, k := range keys {
		members[i] = k
	}
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, keys...)
		p.ZRem(ctx, redisIndexKey, members...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// Entries drops index members whose value already expired in redis.
func (r *redisStore) Entries(ctx context.Context) ([]Item, error) {
	zs, err := r.rdb.ZRangeWithScores(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrange: %w", err)
	}
	if len(zs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(zs))
	for i, z := range zs {
		keys[i] = fmt.Sprint(z.Member)
	}
	exists := make([]*redis.IntCmd, len(keys))
	_, err = r.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, k := range keys {
			exists[i] = p.Exists(ctx, k)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis exists: %w", err)
	}

	items := make([]Item, 0, len(keys))
	stale := make([]any, 0)
	for i, k := range keys {
		if exists[i].Val() == 0 {
			stale = append(stale, k)
			continue
		}
		items = append(items, Item{Key: k, CreatedAt: time.UnixMilli(int64(zs[i].Score))})
	}
	if len(stale) > 0 {
		if err := r.rdb.ZRem(ctx, redisIndexKey, stale...).Err(); err != nil {
			return nil, fmt.Errorf("redis zrem: %w", err)
		}
	}
	return items, nil
}

func (r *redisStore) Clear(ctx context.Context) error {
	keys, err := r.rdb.ZRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("redis zrange: %w", err)
	}
	keys = append(keys, redisIndexKey)
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func isOutOfMemory(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM")
}

package cache

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
)

type memoryStore struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string]models.CacheEntry
}

// NewMemoryStore keeps up to capacity entries in process. A non positive
// capacity means unbounded.
func NewMemoryStore(capacity int) Store {
	return &memoryStore{
		capacity: capacity,
		entries:  make(map[string]models.CacheEntry),
	}
}

func (m *memoryStore) Get(_ context.Context, key string) (*models.CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	e.Products = slices.Clone(e.Products)
	return &e, nil
}

func (m *memoryStore) Set(_ context.Context, key string, entry models.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; !exists && m.capacity > 0 && len(m.entries) >= m.capacity {
		return models.ErrCacheFull
	}
	entry.Products = slices.Clone(entry.Products)
	m.entries[key] = entry
	return nil
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *memoryStore) Entries(_ context.Context) ([]Item, error) {
	m.mu.RLock()
	items := make([]Item, 0, len(m.entries))
	for k, e := range m.entries {
		items = append(items, Item{Key: k, CreatedAt: e.CreatedAt})
	}
	m.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].Key < items[j].Key
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (m *memoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]models.CacheEntry)
	return nil
}

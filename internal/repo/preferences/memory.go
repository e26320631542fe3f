// Package preferences keeps session preferences in process memory, used
// when no database is configured.
package preferences

import (
	"context"
	"slices"
	"sync"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Preferences
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]models.Preferences)}
}

func (r *MemoryRepository) Get(_ context.Context, sessionID string) (*models.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prefs, ok := r.items[sessionID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return clonePreferences(prefs), nil
}

func (r *MemoryRepository) Upsert(_ context.Context, prefs *models.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[prefs.SessionID] = *clonePreferences(*prefs)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[sessionID]; !ok {
		return models.ErrNotFound
	}
	delete(r.items, sessionID)
	return nil
}

func clonePreferences(p models.Preferences) *models.Preferences {
	p.FavoriteBrands = slices.Clone(p.FavoriteBrands)
	p.Colors = slices.Clone(p.Colors)
	return &p
}

package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticStores []models.Store

func (s staticStores) Enabled() []models.Store { return s }

type storeFunc func(ctx context.Context) ([]models.ProductRecord, error)

type fakeSearcher struct {
	mu    sync.Mutex
	calls map[string]int
	funcs map[string]storeFunc
}

func newFakeSearcher(funcs map[string]storeFunc) *fakeSearcher {
	return &fakeSearcher{calls: map[string]int{}, funcs: funcs}
}

func (f *fakeSearcher) SearchStore(ctx context.Context, store models.Store, _ string) ([]models.ProductRecord, error) {
	f.mu.Lock()
	f.calls[store.ID]++
	fn := f.funcs[store.ID]
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx)
}

func (f *fakeSearcher) called(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func product(store, title string) models.ProductRecord {
	return models.ProductRecord{ID: store + "-" + title, Title: title, Price: "100", Store: store}
}

func titles(products []models.ProductRecord) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Title
	}
	return out
}

func storeList(ids ...string) staticStores {
	out := make(staticStores, len(ids))
	for i, id := range ids {
		out[i] = models.Store{ID: id, DisplayName: id, Enabled: true}
	}
	return out
}

func TestOrchestratorSearch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("merges in registry order not arrival order", func(t *testing.T) {
		t.Parallel()
		searcher := newFakeSearcher(map[string]storeFunc{
			"slow": func(context.Context) ([]models.ProductRecord, error) {
				time.Sleep(50 * time.Millisecond)
				return []models.ProductRecord{product("slow", "Slow Dress")}, nil
			},
			"fast": func(context.Context) ([]models.ProductRecord, error) {
				return []models.ProductRecord{product("fast", "Fast Dress")}, nil
			},
		})
		o := NewOrchestratorWith(OrchestratorConfig{MaxStores: 2, StoreTimeout: time.Second}, storeList("slow", "fast"), searcher)

		got := o.Search(ctx, "dress", 10)
		assert.Equal(t, []string{"Slow Dress", "Fast Dress"}, titles(got))
	})

	t.Run("hung store is abandoned", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		defer close(release)
		searcher := newFakeSearcher(map[string]storeFunc{
			"hung": func(context.Context) ([]models.ProductRecord, error) {
				<-release
				return []models.ProductRecord{product("hung", "Late Dress")}, nil
			},
			"ok": func(context.Context) ([]models.ProductRecord, error) {
				return []models.ProductRecord{product("ok", "On Time Dress")}, nil
			},
		})
		o := NewOrchestratorWith(OrchestratorConfig{MaxStores: 2, StoreTimeout: 100 * time.Millisecond}, storeList("hung", "ok"), searcher)

		start := time.Now()
		got := o.Search(ctx, "dress", 10)
		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, []string{"On Time Dress"}, titles(got))
	})

	t.Run("failures stay per store", func(t *testing.T) {
		t.Parallel()
		searcher := newFakeSearcher(map[string]storeFunc{
			"broken": func(context.Context) ([]models.ProductRecord, error) {
				return nil, errors.New("connection refused")
			},
			"panics": func(context.Context) ([]models.ProductRecord, error) {
				panic("bad selector")
			},
			"ok": func(context.Context) ([]models.ProductRecord, error) {
				return []models.ProductRecord{product("ok", "Blue Jeans")}, nil
			},
		})
		o := NewOrchestratorWith(OrchestratorConfig{MaxStores: 3, StoreTimeout: time.Second}, storeList("broken", "panics", "ok"), searcher)

		got := o.Search(ctx, "jeans", 10)
		assert.Equal(t, []string{"Blue Jeans"}, titles(got))
	})

	t.Run("only the first stores are queried", func(t *testing.T) {
		t.Parallel()
		searcher := newFakeSearcher(nil)
		o := NewOrchestratorWith(OrchestratorConfig{MaxStores: 2, StoreTimeout: time.Second}, storeList("a", "b", "c"), searcher)

		o.Search(ctx, "shirt", 10)
		assert.Equal(t, 1, searcher.called("a"))
		assert.Equal(t, 1, searcher.called("b"))
		assert.Zero(t, searcher.called("c"))
	})

	t.Run("dedupes case different titles and caps", func(t *testing.T) {
		t.Parallel()
		searcher := newFakeSearcher(map[string]storeFunc{
			"a": func(context.Context) ([]models.ProductRecord, error) {
				return []models.ProductRecord{product("a", "Red Dress"), product("a", "Green Dress")}, nil
			},
			"b": func(context.Context) ([]models.ProductRecord, error) {
				return []models.ProductRecord{product("b", "red  DRESS"), product("b", "Blue Dress"), product("b", "Pink Dress")}, nil
			},
		})
		o := NewOrchestratorWith(OrchestratorConfig{MaxStores: 2, StoreTimeout: time.Second}, storeList("a", "b"), searcher)

		got := o.Search(ctx, "dress", 3)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"Red Dress", "Green Dress", "Blue Dress"}, titles(got))
		assert.Equal(t, "a", got[0].Store)
	})

	t.Run("no stores", func(t *testing.T) {
		t.Parallel()
		o := NewOrchestratorWith(OrchestratorConfig{MaxStores: 2}, storeList(), newFakeSearcher(nil))
		got := o.Search(ctx, "dress", 10)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/extractor"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/fetcher"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/stores"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
	"golang.org/x/sync/errgroup"
)

type storeSearcher struct {
	fetcher   fetcher.Fetcher
	extractor *extractor.Extractor
}

func NewStoreSearcher(f fetcher.Fetcher, e *extractor.Extractor) StoreSearcher {
	return &storeSearcher{fetcher: f, extractor: e}
}

func (s *storeSearcher) SearchStore(ctx context.Context, store models.Store, query string) ([]models.ProductRecord, error) {
	res, err := s.fetcher.Fetch(ctx, store, query)
	if err != nil {
		return nil, err
	}
	if res.Empty() {
		log.Debugw(ctx, "store returned no content", "store", store.ID, "status", res.StatusCode)
		return nil, nil
	}
	products, err := s.extractor.Extract(res.Body, store)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", store.ID, err)
	}
	return products, nil
}

type Orchestrator interface {
	// Search never fails: stores that error or time out contribute nothing.
	Search(ctx context.Context, query string, maxResults int) []models.ProductRecord
}

type OrchestratorConfig struct {
	MaxStores    int
	StoreTimeout time.Duration
}

type orchestrator struct {
	conf     OrchestratorConfig
	stores   StoreLister
	searcher StoreSearcher
}

func NewOrchestrator(conf *config.Config, registry *stores.Registry, searcher StoreSearcher) Orchestrator {
	return NewOrchestratorWith(OrchestratorConfig{
		MaxStores:    conf.Search.MaxStores,
		StoreTimeout: conf.Search.StoreTimeout,
	}, registry, searcher)
}

func NewOrchestratorWith(conf OrchestratorConfig, lister StoreLister, searcher StoreSearcher) Orchestrator {
	if conf.StoreTimeout <= 0 {
		conf.StoreTimeout = 4 * time.Second
	}
	return &orchestrator{
		conf:     conf,
		stores:   lister,
		searcher: searcher,
	}
}

// Search queries the first MaxStores enabled stores concurrently and merges
// their products in registry order, deduplicated by title.
func (o *orchestrator) Search(ctx context.Context, query string, maxResults int) []models.ProductRecord {
	targets := o.stores.Enabled()
	if len(targets) > o.conf.MaxStores {
		targets = targets[:max(o.conf.MaxStores, 0)]
	}
	if len(targets) == 0 {
		return []models.ProductRecord{}
	}

	// Each task writes only its own slot, so no lock is needed.
	results := make([][]models.ProductRecord, len(targets))
	var g errgroup.Group
	for i, store := range targets {
		g.Go(func() error {
			results[i] = o.searchStore(ctx, store, query)
			return nil
		})
	}
	_ = g.Wait()

	var merged []models.ProductRecord
	for _, r := range results {
		merged = append(merged, r...)
	}
	return models.DedupeByTitle(merged, maxResults)
}

type storeOutcome struct {
	products []models.ProductRecord
	err      error
}

// searchStore races the store search against its timeout. A task that does
// not finish in time is abandoned and whatever it returns later is dropped.
func (o *orchestrator) searchStore(ctx context.Context, store models.Store, query string) []models.ProductRecord {
	ctx, cancel := context.WithTimeout(ctx, o.conf.StoreTimeout)
	defer cancel()

	start := time.Now()
	ch := make(chan storeOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- storeOutcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		products, err := o.searcher.SearchStore(ctx, store, query)
		ch <- storeOutcome{products: products, err: err}
	}()

	select {
	case <-ctx.Done():
		log.Warnw(ctx, "store search abandoned", "store", store.ID, "elapsed", time.Since(start).String(), "error", ctx.Err())
		return nil
	case out := <-ch:
		if out.err != nil {
			log.Warnw(ctx, "store search failed", "store", store.ID, "error", out.err)
			return nil
		}
		log.Debugw(ctx, "store search done", "store", store.ID, "count", len(out.products), "elapsed", time.Since(start).String())
		return out.products
	}
}

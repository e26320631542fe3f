package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
)

type SearchUsecase interface {
	// Search validates query and answers it from the cache or the fallback
	// chain. Only validation errors are returned.
	Search(ctx context.Context, query string, maxResults int) (*models.SearchResult, error)
	// ResolveProducts runs scraping, the alternate source and the mock
	// generator in order and returns the first non empty result.
	ResolveProducts(ctx context.Context, query string, maxResults int) ([]models.ProductRecord, models.Source)
	CacheStats(ctx context.Context) (models.CacheStats, error)
	ClearCache(ctx context.Context) error
}

type SearchConfig struct {
	Deadline         time.Duration
	AlternateReserve time.Duration
	MaxResults       int
	CacheMock        bool
}

type searchUsecase struct {
	conf         SearchConfig
	orchestrator Orchestrator
	alternate    AlternateSource
	cache        ResultCache
	events       EventPublisher
	stageLatency *prometheus.HistogramVec
	now          func() time.Time
}

func NewSearchUsecase(
	conf *config.Config,
	orchestrator Orchestrator,
	alternate AlternateSource,
	cache ResultCache,
	events EventPublisher,
) (SearchUsecase, error) {
	return NewSearchUsecaseWith(SearchConfig{
		Deadline:         conf.Search.Deadline,
		AlternateReserve: conf.Search.AlternateReserve,
		MaxResults:       conf.Search.MaxResults,
		CacheMock:        conf.Cache.CacheMock,
	}, orchestrator, alternate, cache, events)
}

func NewSearchUsecaseWith(
	conf SearchConfig,
	orchestrator Orchestrator,
	alternate AlternateSource,
	cache ResultCache,
	events EventPublisher,
) (SearchUsecase, error) {
	if conf.Deadline <= 0 {
		conf.Deadline = 8 * time.Second
	}
	if conf.MaxResults <= 0 {
		conf.MaxResults = 15
	}
	if conf.AlternateReserve < 0 || conf.AlternateReserve >= conf.Deadline {
		conf.AlternateReserve = 0
	}
	hist, err := util.GetHistogramVec("search_stage_duration_seconds", "stage", "source")
	if err != nil {
		return nil, fmt.Errorf("register search metrics: %w", err)
	}
	return &searchUsecase{
		conf:         conf,
		orchestrator: orchestrator,
		alternate:    alternate,
		cache:        cache,
		events:       events,
		stageLatency: hist,
		now:          time.Now,
	}, nil
}

func (u *searchUsecase) Search(ctx context.Context, query string, maxResults int) (*models.SearchResult, error) {
	q, err := NormalizeQuery(query)
	if err != nil {
		return nil, err
	}
	if maxResults <= 0 || maxResults > u.conf.MaxResults {
		maxResults = u.conf.MaxResults
	}
	start := u.now()

	if entry, ok := u.cache.Get(ctx, q); ok {
		products := entry.Products
		if len(products) > maxResults {
			products = products[:maxResults]
		}
		res := &models.SearchResult{
			Query:     q,
			Products:  products,
			Source:    entry.Source,
			Cached:    true,
			CreatedAt: entry.CreatedAt,
		}
		u.observe("total", res.Source, start)
		u.publish(ctx, res, start)
		return res, nil
	}

	ctx, cancel := context.WithTimeout(ctx, u.conf.Deadline)
	defer cancel()

	products, source := u.ResolveProducts(ctx, q, maxResults)
	if source != models.SourceMock || u.conf.CacheMock {
		// The request deadline may be spent already; the write must not fail
		// because of it.
		u.cache.Put(context.WithoutCancel(ctx), q, products, source)
	}

	res := &models.SearchResult{
		Query:     q,
		Products:  products,
		Source:    source,
		CreatedAt: u.now(),
	}
	u.observe("total", source, start)
	u.publish(ctx, res, start)
	log.Infow(ctx, "search completed", "query", q, "source", source, "count", len(products), "duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

func (u *searchUsecase) ResolveProducts(ctx context.Context, query string, maxResults int) ([]models.ProductRecord, models.Source) {
	if products := u.scrape(ctx, query, maxResults); len(products) > 0 {
		return products, models.SourceScraping
	}
	if products := u.searchAlternate(ctx, query, maxResults); len(products) > 0 {
		return products, models.SourceAlternate
	}
	start := u.now()
	products := MockProducts(query, maxResults)
	u.observe("mock", models.SourceMock, start)
	log.Infow(ctx, "using mock products", "query", query, "count", len(products))
	return products, models.SourceMock
}

// scrape gives the orchestrator what is left of the deadline minus the
// alternate source reserve.
func (u *searchUsecase) scrape(ctx context.Context, query string, maxResults int) (products []models.ProductRecord) {
	start := u.now()
	defer func() {
		if r := recover(); r != nil {
			log.Errorw(ctx, "scraping panicked", "query", query, "panic", r)
			products = nil
		}
		u.observe("scraping", models.SourceScraping, start)
	}()

	if u.alternate != nil && u.conf.AlternateReserve > 0 {
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithDeadline(ctx, deadline.Add(-u.conf.AlternateReserve))
			defer cancel()
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return u.orchestrator.Search(ctx, query, maxResults)
}

func (u *searchUsecase) searchAlternate(ctx context.Context, query string, maxResults int) (products []models.ProductRecord) {
	if u.alternate == nil {
		return nil
	}
	start := u.now()
	defer func() {
		if r := recover(); r != nil {
			log.Errorw(ctx, "alternate source panicked", "source", u.alternate.Name(), "panic", r)
			products = nil
		}
		u.observe("alternate", models.SourceAlternate, start)
	}()

	if ctx.Err() != nil {
		log.Warnw(ctx, "no budget left for alternate source", "source", u.alternate.Name())
		return nil
	}
	found, err := u.alternate.Search(ctx, query, maxResults)
	if err != nil {
		log.Warnw(ctx, "alternate source failed", "source", u.alternate.Name(), "error", err)
		return nil
	}
	return models.DedupeByTitle(found, maxResults)
}

func (u *searchUsecase) observe(stage string, source models.Source, start time.Time) {
	u.stageLatency.WithLabelValues(stage, string(source)).Observe(u.now().Sub(start).Seconds())
}

func (u *searchUsecase) publish(ctx context.Context, res *models.SearchResult, start time.Time) {
	event := models.SearchEvent{
		RequestID:  log.RequestID(ctx),
		Query:      res.Query,
		Source:     res.Source,
		Cached:     res.Cached,
		Count:      len(res.Products),
		DurationMs: u.now().Sub(start).Milliseconds(),
		CreatedAt:  u.now().UTC(),
	}
	if err := u.events.PublishSearchCompleted(context.WithoutCancel(ctx), event); err != nil {
		log.Warnw(ctx, "publish search event failed", "query", res.Query, "error", err)
	}
}

func (u *searchUsecase) CacheStats(ctx context.Context) (models.CacheStats, error) {
	return u.cache.Stats(ctx)
}

func (u *searchUsecase) ClearCache(ctx context.Context) error {
	return u.cache.Clear(ctx)
}

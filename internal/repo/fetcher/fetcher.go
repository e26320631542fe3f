// Package fetcher downloads store search pages.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/stores"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/util"
	"golang.org/x/time/rate"
)

const (
	acceptHeader         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptLanguageHeader = "en-US,en;q=0.5"
)

var (
	ErrUpstream       = errors.New("upstream error")
	errBudgetExceeded = errors.New("retry backoff exceeds deadline")
)

type Fetcher interface {
	// Fetch downloads the search page of store for query. A 4xx answer is an
	// empty result, not an error.
	Fetch(ctx context.Context, store models.Store, query string) (*Result, error)
}

type URLBuilder interface {
	SearchURL(store models.Store, query string) (string, error)
}

// URLFunc adapts a function to URLBuilder.
type URLFunc func(store models.Store, query string) (string, error)

func (f URLFunc) SearchURL(store models.Store, query string) (string, error) {
	return f(store, query)
}

type Result struct {
	URL        string
	StatusCode int
	Body       string
	Attempts   int
}

func (r *Result) Empty() bool {
	return r == nil || r.Body == ""
}

type Config struct {
	Timeout      time.Duration
	Retries      int
	Backoff      time.Duration
	RPS          float64
	Burst        int
	UserAgent    string
	MaxBodyBytes int
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 3 * time.Second
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Retries > 2 {
		c.Retries = 2
	}
	if c.Backoff <= 0 {
		c.Backoff = 300 * time.Millisecond
	}
	if c.Burst <= 0 {
		c.Burst = 2
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 2 << 20
	}
}

type fetcher struct {
	cfg    Config
	client *resty.Client
	urls   URLBuilder

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewFetcher is the fx constructor.
func NewFetcher(conf *config.Config, registry *stores.Registry) Fetcher {
	return New(Config{
		Timeout:   conf.Search.FetchTimeout,
		Retries:   conf.Search.Retries,
		Backoff:   conf.Search.RetryBackoff,
		RPS:       conf.Search.StoreRPS,
		UserAgent: conf.Search.UserAgent,
	}, registry)
}

func New(cfg Config, urls URLBuilder) Fetcher {
	cfg.defaults()
	f := &fetcher{
		cfg:      cfg,
		urls:     urls,
		limiters: make(map[string]*rate.Limiter),
	}
	f.client = util.NewRestyClient(
		util.WithTimeout(cfg.Timeout),
		util.WithRetry(cfg.Retries, cfg.Backoff, cfg.Backoff*4),
		util.WithRetryPolicy(retryPolicy),
	).
		SetRetryAfter(f.retryAfter).
		SetResponseBodyLimit(cfg.MaxBodyBytes).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", acceptHeader).
		SetHeader("Accept-Language", acceptLanguageHeader)
	return f
}

func (f *fetcher) Fetch(ctx context.Context, store models.Store, query string) (*Result, error) {
	target, err := f.urls.SearchURL(store, query)
	if err != nil {
		return nil, fmt.Errorf("build search url: %w", err)
	}
	if err := f.limiter(store.ID).Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", store.ID, err)
	}

	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		Get(target)
	res := &Result{URL: target}
	if resp != nil {
		res.StatusCode = resp.StatusCode()
		res.Attempts = resp.Request.Attempt
	}
	if err != nil {
		log.Debugw(ctx, "fetch failed",
			"store", store.ID,
			"attempts", res.Attempts,
			"latency_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return res, fmt.Errorf("get %s: %w", store.ID, err)
	}

	switch {
	case util.IsClientError(res.StatusCode):
		log.Debugw(ctx, "store rejected search", "store", store.ID, "status", res.StatusCode)
		return res, nil
	case res.StatusCode >= 500:
		return res, fmt.Errorf("%w: %s answered %d", ErrUpstream, store.ID, res.StatusCode)
	}

	body := resp.Body()
	res.Body = string(body)
	log.Debugw(ctx, "fetched store page",
		"store", store.ID,
		"status", res.StatusCode,
		"attempts", res.Attempts,
		"bytes", len(body),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (f *fetcher) limiter(storeID string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[storeID]
	if !ok {
		limit := rate.Inf
		if f.cfg.RPS > 0 {
			limit = rate.Limit(f.cfg.RPS)
		}
		l = rate.NewLimiter(limit, f.cfg.Burst)
		f.limiters[storeID] = l
	}
	return l
}

// retryAfter grows the wait exponentially and refuses to sleep past the
// request deadline.
func (f *fetcher) retryAfter(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	attempt := 1
	ctx := context.Background()
	if resp != nil && resp.Request != nil {
		attempt = max(resp.Request.Attempt, 1)
		ctx = resp.Request.Context()
	}
	wait := time.Duration(float64(f.cfg.Backoff) * math.Pow(2, float64(attempt-1)))
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= wait {
		return 0, errBudgetExceeded
	}
	return wait, nil
}

// retryPolicy retries transient failures only. Any 4xx, including 429, is
// final, and so is a page over the body limit.
func retryPolicy(r *resty.Response, err error) bool {
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return false
	}
	if r != nil && r.RawResponse != nil && util.IsClientError(r.StatusCode()) {
		return false
	}
	return util.DefaultRetryPolicy(r, err)
}

package alternate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/stores"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
	g "github.com/serpapi/google-search-results-golang"
	"github.com/spf13/cast"
)

type SerpAPIConfig struct {
	APIKey  string
	Country string
}

type searchFunc func(params map[string]string, apiKey string) (map[string]any, error)

type serpAPI struct {
	conf   SerpAPIConfig
	search searchFunc
	stores storeIndex
	now    func() time.Time
}

func NewSerpAPI(conf SerpAPIConfig, registry *stores.Registry) Source {
	if conf.Country == "" {
		conf.Country = "eg"
	}
	return &serpAPI{
		conf:   conf,
		search: googleShopping,
		stores: newStoreIndex(registry),
		now:    time.Now,
	}
}

func googleShopping(params map[string]string, apiKey string) (map[string]any, error) {
	s := g.NewGoogleSearch(params, apiKey)
	return s.GetJSON()
}

func (s *serpAPI) Name() string {
	return ProviderSerpAPI
}

type serpResult struct {
	data map[string]any
	err  error
}

// Search runs a google_shopping query. The client library has no context
// support, so the call is abandoned when ctx is done.
func (s *serpAPI) Search(ctx context.Context, query string, max int) ([]models.ProductRecord, error) {
	params := map[string]string{
		"engine": "google_shopping",
		"q":      query,
		"gl":     s.conf.Country,
		"hl":     "en",
	}

	ch := make(chan serpResult, 1)
	go func() {
		data, err := s.search(params, s.conf.APIKey)
		ch <- serpResult{data: data, err: err}
	}()

	var res serpResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("serpapi search: %w", ctx.Err())
	case res = <-ch:
	}
	if res.err != nil {
		return nil, fmt.Errorf("serpapi search: %w", res.err)
	}

	items, _ := res.data["shopping_results"].([]any)
	createdAt := s.now()
	products := make([]models.ProductRecord, 0, len(items))
	for i, raw := range items {
		if max > 0 && len(products) >= max {
			break
		}
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		link := cast.ToString(item["link"])
		if link == "" {
			link = cast.ToString(item["product_link"])
		}
		store := s.stores.lookup(link)
		if merchant := cast.ToString(item["source"]); merchant != "" {
			store.name = merchant
		}
		p, err := models.NewProductRecord(models.ProductInput{
			StoreID:   "serpapi",
			Position:  i,
			Title:     cast.ToString(item["title"]),
			Price:     serpPrice(item),
			Currency:  "EGP",
			Image:     cast.ToString(item["thumbnail"]),
			Link:      link,
			Store:     store.name,
			CreatedAt: createdAt,
		})
		if err != nil {
			log.Debugw(ctx, "skip serpapi result", "link", link, "error", err)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// serpPrice prefers the numeric extracted_price over the display string.
func serpPrice(item map[string]any) string {
	if v := cast.ToFloat64(item["extracted_price"]); v > 0 {
		return cast.ToString(v)
	}
	if p := PriceFromSnippet(cast.ToString(item["price"])); p != "" {
		return p
	}
	return strings.TrimSpace(cast.ToString(item["price"]))
}

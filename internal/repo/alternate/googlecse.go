package alternate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/stores"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/util"
	"github.com/tidwall/gjson"
)

// Custom Search returns at most 10 items per request.
const googleMaxNum = 10

var snippetPrice = regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)\s*(?:EGP|LE|£)`)

type GoogleCSEConfig struct {
	URL     string
	APIKey  string
	CX      string
	Timeout time.Duration
}

type googleCSE struct {
	conf   GoogleCSEConfig
	client *resty.Client
	stores storeIndex
	now    func() time.Time
}

func NewGoogleCSE(conf GoogleCSEConfig, registry *stores.Registry) Source {
	if conf.Timeout <= 0 {
		conf.Timeout = 3 * time.Second
	}
	return &googleCSE{
		conf:   conf,
		client: util.NewRestyClient(util.WithTimeout(conf.Timeout), util.WithRetry(0, 0, 0)),
		stores: newStoreIndex(registry),
		now:    time.Now,
	}
}

func (g *googleCSE) Name() string {
	return ProviderGoogleCSE
}

func (g *googleCSE) Search(ctx context.Context, query string, max int) ([]models.ProductRecord, error) {
	num := max
	if num <= 0 || num > googleMaxNum {
		num = googleMaxNum
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key": g.conf.APIKey,
			"cx":  g.conf.CX,
			"q":   g.scopedQuery(query),
			"num": strconv.Itoa(num),
		}).
		Get(g.conf.URL)
	if err != nil {
		return nil, fmt.Errorf("google search request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("google search returned status %d", resp.StatusCode())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("google search returned invalid json")
	}

	createdAt := g.now()
	var products []models.ProductRecord
	gjson.GetBytes(body, "items").ForEach(func(key, item gjson.Result) bool {
		link := item.Get("link").String()
		store := g.stores.lookup(link)
		p, err := models.NewProductRecord(models.ProductInput{
			StoreID:   "google",
			Position:  int(key.Int()),
			Title:     item.Get("title").String(),
			Price:     PriceFromSnippet(item.Get("snippet").String()),
			Currency:  "EGP",
			Image:     imageOf(item),
			Link:      link,
			Store:     store.name,
			CreatedAt: createdAt,
		})
		if err != nil {
			log.Debugw(ctx, "skip google result", "link", link, "error", err)
			return true
		}
		products = append(products, p)
		return max <= 0 || len(products) < max
	})
	return products, nil
}

// scopedQuery restricts the search to the registry domains.
func (g *googleCSE) scopedQuery(query string) string {
	sites := g.stores.sites()
	if len(sites) == 0 {
		return query
	}
	parts := make([]string, len(sites))
	for i, s := range sites {
		parts[i] = "site:" + s
	}
	return query + " " + strings.Join(parts, " OR ")
}

func imageOf(item gjson.Result) string {
	if src := item.Get("pagemap.cse_image.0.src").String(); src != "" {
		return src
	}
	return item.Get("pagemap.metatags.0.og:image").String()
}

// PriceFromSnippet finds an amount followed by an Egyptian currency marker
// and returns it without thousands separators.
func PriceFromSnippet(snippet string) string {
	m := snippetPrice.FindStringSubmatch(snippet)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], ",", "")
}

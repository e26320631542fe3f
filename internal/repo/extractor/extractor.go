// Package extractor turns store search pages into product records using
// generic selector heuristics.
package extractor

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
)

const (
	candidateSelector = `[class*="product"], [class*="item"], [data-qa*="product"]`
	titleSelector     = `[class*="title"], [class*="name"], h2, h3, a`
	priceSelector     = `[class*="price"], [data-qa*="price"]`

	defaultMaxCandidates = 5
)

var priceRegexp = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

type Extractor struct {
	maxCandidates int
	now           func() time.Time
}

func NewExtractor(conf *config.Config) *Extractor {
	return New(conf.Search.CandidatesPerStore)
}

func New(maxCandidates int) *Extractor {
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	return &Extractor{
		maxCandidates: maxCandidates,
		now:           time.Now,
	}
}

// Extract parses html and returns the products found among the first
// candidates, in document order. Malformed candidates are skipped.
func (e *Extractor) Extract(html string, store models.Store) ([]models.ProductRecord, error) {
	if strings.TrimSpace(html) == "" {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s html: %w", store.ID, err)
	}

	now := e.now()
	products := make([]models.ProductRecord, 0, e.maxCandidates)
	candidates := doc.Find(candidateSelector)
	if candidates.Length() > e.maxCandidates {
		candidates = candidates.Slice(0, e.maxCandidates)
	}
	candidates.Each(func(i int, s *goquery.Selection) {
		p, err := models.NewProductRecord(models.ProductInput{
			StoreID:   store.ID,
			Position:  i,
			Title:     s.Find(titleSelector).First().Text(),
			Price:     ExtractPrice(s.Find(priceSelector).First().Text()),
			Currency:  store.Currency,
			Image:     ResolveURL(store.BaseURL, imageSource(s)),
			Link:      linkOf(s, store.BaseURL),
			Store:     store.DisplayName,
			CreatedAt: now,
		})
		if err != nil {
			return
		}
		products = append(products, p)
	})
	return products, nil
}

// ExtractPrice returns the first numeric token of text with thousands
// separators removed, or an empty string.
func ExtractPrice(text string) string {
	match := priceRegexp.FindString(text)
	return strings.ReplaceAll(match, ",", "")
}

// ResolveURL makes ref absolute against base. Protocol relative references
// get https.
func ResolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return base + ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return base + ref
	}
	return b.ResolveReference(r).String()
}

func imageSource(s *goquery.Selection) string {
	img := s.Find("img").First()
	if src, ok := img.Attr("src"); ok && src != "" && !strings.HasPrefix(src, "data:") {
		return src
	}
	if src, ok := img.Attr("data-src"); ok {
		return src
	}
	return ""
}

func linkOf(s *goquery.Selection, base string) string {
	href, ok := s.Find("a[href]").First().Attr("href")
	if !ok && goquery.NodeName(s) == "a" {
		href, _ = s.Attr("href")
	}
	if href == "" {
		return base
	}
	return ResolveURL(base, href)
}

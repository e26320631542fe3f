package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
)

type mockCategory struct {
	name     string
	keywords []string
	noun     string
	styles   []string
	base     int
	step     int
	store    string
	link     string
}

// Categories are matched in order; the first one whose keyword appears in
// the query wins.
var mockCategories = []mockCategory{
	{
		name:     "dress",
		keywords: []string{"dress"},
		noun:     "Dress",
		styles:   []string{"Elegant", "Casual", "Formal", "Summer", "Evening"},
		base:     200,
		step:     50,
		store:    "Noon Egypt",
		link:     "https://www.noon.com/egypt-en",
	},
	{
		name:     "jeans",
		keywords: []string{"jean", "pant"},
		noun:     "Jeans",
		styles:   []string{"Classic", "Slim Fit", "Skinny", "Straight", "Relaxed"},
		base:     300,
		step:     50,
		store:    "Namshi",
		link:     "https://www.namshi.com",
	},
	{
		name:     "shirt",
		keywords: []string{"shirt", "top"},
		noun:     "Shirt",
		styles:   []string{"Classic", "Casual", "Formal", "Polo", "Oversized"},
		base:     150,
		step:     30,
		store:    "Noon Egypt",
		link:     "https://www.noon.com/egypt-en",
	},
	{
		name:     "jacket",
		keywords: []string{"jacket", "coat", "blazer"},
		noun:     "Jacket",
		styles:   []string{"Denim", "Leather", "Bomber", "Puffer", "Linen"},
		base:     500,
		step:     100,
		store:    "Zara Egypt",
		link:     "https://www.zara.com/eg/en",
	},
	{
		name:     "shoes",
		keywords: []string{"shoe", "sneaker", "boot", "sandal"},
		noun:     "Shoes",
		styles:   []string{"Running", "Casual", "Leather", "Canvas", "High-Top"},
		base:     400,
		step:     75,
		store:    "Max Fashion",
		link:     "https://www.maxfashion.com/eg/en",
	},
}

const (
	genericMockCount = 3
	genericMockBase  = 200
	genericMockStep  = 100
)

// MockProducts synthesizes placeholder products for query. It is pure and
// never returns an empty list for a non empty query.
func MockProducts(query string, maxResults int) []models.ProductRecord {
	lower := strings.ToLower(query)
	for _, c := range mockCategories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.products(maxResults)
			}
		}
	}
	return genericMocks(query, maxResults)
}

func (c mockCategory) products(maxResults int) []models.ProductRecord {
	n := len(c.styles)
	if maxResults > 0 {
		n = min(n, maxResults)
	}
	out := make([]models.ProductRecord, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.ProductRecord{
			ID:           fmt.Sprintf("mock-%s-%d", c.name, i),
			Title:        c.styles[i-1] + " " + c.noun,
			Price:        strconv.Itoa(c.base + i*c.step),
			Currency:     "EGP",
			Link:         c.link,
			Store:        c.store,
			Availability: models.DefaultAvailability,
		})
	}
	return out
}

// genericMocks numbers the titles so they stay distinct after dedupe.
func genericMocks(query string, maxResults int) []models.ProductRecord {
	n := genericMockCount
	if maxResults > 0 {
		n = min(n, maxResults)
	}
	title := `Product for "` + strings.TrimSpace(query) + `"`
	out := make([]models.ProductRecord, 0, n)
	for i := 1; i <= n; i++ {
		suffix := " #" + strconv.Itoa(i)
		out = append(out, models.ProductRecord{
			ID:           fmt.Sprintf("mock-product-%d", i),
			Title:        truncateRunes(title, models.MaxTitleLength-len(suffix)) + suffix,
			Price:        strconv.Itoa(genericMockBase + i*genericMockStep),
			Currency:     "EGP",
			Link:         "https://www.noon.com/egypt-en",
			Store:        "Noon Egypt",
			Availability: models.DefaultAvailability,
		})
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package extractor

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStore = models.Store{
	ID:          "noon-egypt",
	DisplayName: "Noon Egypt",
	BaseURL:     "https://www.noon.com",
	Currency:    "EGP",
}

const listingHTML = `<html><body>
<div class="product-card">
  <h2 class="title"> Floral Summer Dress </h2>
  <span class="price">EGP 1,299.50</span>
  <img src="//cdn.noon.com/dress.jpg">
  <a href="/egypt-en/floral-dress/p/1">view</a>
</div>
<div class="product-card">
  <h3>Ab</h3>
  <span class="price">EGP 100</span>
</div>
<div class="product-card">
  <div class="name">Linen Shirt</div>
  <span data-qa="price-now">899</span>
  <img src="data:image/gif;base64,R0lG" data-src="/images/shirt.jpg">
  <a href="https://www.noon.com/egypt-en/shirt/p/3">view</a>
</div>
<div class="product-card">
  <div class="title">No Price Jacket</div>
</div>
</body></html>`

func TestExtract(t *testing.T) {
	t.Parallel()
	e := New(5)
	e.now = func() time.Time { return time.UnixMilli(42) }

	products, err := e.Extract(listingHTML, testStore)
	require.NoError(t, err)
	require.Len(t, products, 2)

	dress := products[0]
	assert.Equal(t, "noon-egypt-0-42", dress.ID)
	assert.Equal(t, "Floral Summer Dress", dress.Title)
	assert.Equal(t, "1299.50", dress.Price)
	assert.Equal(t, "EGP", dress.Currency)
	assert.Equal(t, "https://cdn.noon.com/dress.jpg", dress.Image)
	assert.Equal(t, "https://www.noon.com/egypt-en/floral-dress/p/1", dress.Link)
	assert.Equal(t, "Noon Egypt", dress.Store)
	assert.Equal(t, models.DefaultAvailability, dress.Availability)

	shirt := products[1]
	assert.Equal(t, "noon-egypt-2-42", shirt.ID)
	assert.Equal(t, "Linen Shirt", shirt.Title)
	assert.Equal(t, "899", shirt.Price)
	assert.Equal(t, "https://www.noon.com/images/shirt.jpg", shirt.Image)
	assert.Equal(t, "https://www.noon.com/egypt-en/shirt/p/3", shirt.Link)
}

func TestExtractCandidateCap(t *testing.T) {
	t.Parallel()
	var b strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, `<li class="item"><a href="/p/%d">Item number %d</a><b class="price">%d</b></li>`, i, i, 100+i)
	}

	products, err := New(5).Extract(b.String(), testStore)
	require.NoError(t, err)
	require.Len(t, products, 5)
	assert.Equal(t, "Item number 0", products[0].Title)
	assert.Equal(t, "https://www.noon.com/p/4", products[4].Link)

	products, err = New(10).Extract(b.String(), testStore)
	require.NoError(t, err)
	assert.Len(t, products, 10)
}

func TestExtractEdgeCases(t *testing.T) {
	t.Parallel()

	t.Run("empty page", func(t *testing.T) {
		t.Parallel()
		products, err := New(5).Extract("", testStore)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("no candidates", func(t *testing.T) {
		t.Parallel()
		products, err := New(5).Extract("<html><body><p>nothing here</p></body></html>", testStore)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("long titles are truncated and missing links fall back to the store", func(t *testing.T) {
		t.Parallel()
		html := fmt.Sprintf(`<div class="product"><h2>%s</h2><span class="price">10</span></div>`, strings.Repeat("x", 140))
		products, err := New(5).Extract(html, testStore)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Len(t, products[0].Title, models.MaxTitleLength)
		assert.Equal(t, testStore.BaseURL, products[0].Link)
		assert.Empty(t, products[0].Image)
	})
}

func TestExtractPrice(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"EGP 1,299.50":     "1299.50",
		"Now, 299 LE":      "299",
		"1,000,000":        "1000000",
		"Price on request": "",
		"12.5 was 20":      "12.5",
	}
	for in, want := range tests {
		assert.Equal(t, want, ExtractPrice(in), in)
	}
}

func TestResolveURL(t *testing.T) {
	t.Parallel()
	base := "https://www.zara.com"
	assert.Equal(t, "", ResolveURL(base, " "))
	assert.Equal(t, "http://x.test/a.jpg", ResolveURL(base, "http://x.test/a.jpg"))
	assert.Equal(t, "https://static.zara.net/a.jpg", ResolveURL(base, "//static.zara.net/a.jpg"))
	assert.Equal(t, "https://www.zara.com/eg/en/a.html", ResolveURL(base, "/eg/en/a.html"))
	assert.Equal(t, "https://www.zara.com/a.html", ResolveURL(base, "a.html"))
}

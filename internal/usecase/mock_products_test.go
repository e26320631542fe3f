package usecase

import (
	"strings"
	"testing"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProducts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query   string
		noun    string
		idStart string
	}{
		{query: "blue jeans", noun: "Jeans", idStart: "mock-jeans-"},
		{query: "Summer DRESS", noun: "Dress", idStart: "mock-dress-"},
		{query: "cargo pants", noun: "Jeans", idStart: "mock-jeans-"},
		{query: "white t-shirt", noun: "Shirt", idStart: "mock-shirt-"},
		{query: "leather jacket", noun: "Jacket", idStart: "mock-jacket-"},
		{query: "running shoes", noun: "Shoes", idStart: "mock-shoes-"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			got := MockProducts(tt.query, 15)
			require.Len(t, got, 5)
			for _, p := range got {
				assert.Contains(t, p.Title, tt.noun)
				assert.True(t, strings.HasPrefix(p.ID, tt.idStart), p.ID)
				assert.Equal(t, "EGP", p.Currency)
				assert.Equal(t, models.DefaultAvailability, p.Availability)
				assert.True(t, strings.HasPrefix(p.Link, "https://"))
			}
		})
	}

	t.Run("dress prices", func(t *testing.T) {
		t.Parallel()
		got := MockProducts("dress", 15)
		assert.Equal(t, "Elegant Dress", got[0].Title)
		assert.Equal(t, "250", got[0].Price)
		assert.Equal(t, "450", got[4].Price)
	})

	t.Run("unmatched query gets generic products", func(t *testing.T) {
		t.Parallel()
		got := MockProducts("xk19qz", 15)
		require.Len(t, got, 3)
		assert.Equal(t, `Product for "xk19qz" #1`, got[0].Title)
		assert.Equal(t, "mock-product-1", got[0].ID)
		assert.Equal(t, "300", got[0].Price)
		assert.Len(t, models.DedupeByTitle(got, 0), 3)
	})

	t.Run("capped at max results", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, MockProducts("dress", 2), 2)
		assert.Len(t, MockProducts("xk19qz", 1), 1)
	})

	t.Run("long generic titles stay within limit", func(t *testing.T) {
		t.Parallel()
		got := MockProducts(strings.Repeat("z", 200), 3)
		for _, p := range got {
			assert.LessOrEqual(t, len([]rune(p.Title)), models.MaxTitleLength)
		}
		assert.Len(t, models.DedupeByTitle(got, 0), 3)
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, MockProducts("jeans", 15), MockProducts("jeans", 15))
	})
}

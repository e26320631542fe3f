package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength      = 100
	DefaultAvailability = "In Stock"
)

// ProductRecord is a single product offer. Values are never mutated after
// construction.
type ProductRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	Image        string `json:"image"`
	Link         string `json:"link"`
	Store        string `json:"store"`
	Availability string `json:"availability"`
}

type ProductInput struct {
	StoreID      string
	Position     int
	Title        string
	Price        string
	Currency     string
	Image        string
	Link         string
	Store        string
	Availability string
	CreatedAt    time.Time
}

// NewProductRecord builds a record, rejecting candidates without a usable
// title or price.
func NewProductRecord(in ProductInput) (ProductRecord, error) {
	title := strings.TrimSpace(in.Title)
	if utf8.RuneCountInString(title) < 3 {
		return ProductRecord{}, fmt.Errorf("%w: title %q too short", ErrInvalidProduct, title)
	}
	price := strings.TrimSpace(in.Price)
	if price == "" {
		return ProductRecord{}, fmt.Errorf("%w: missing price", ErrInvalidProduct)
	}
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	availability := in.Availability
	if availability == "" {
		availability = DefaultAvailability
	}
	return ProductRecord{
		ID:           fmt.Sprintf("%s-%d-%d", in.StoreID, in.Position, createdAt.UnixMilli()),
		Title:        TruncateTitle(title),
		Price:        price,
		Currency:     in.Currency,
		Image:        in.Image,
		Link:         in.Link,
		Store:        in.Store,
		Availability: availability,
	}, nil
}

func TruncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= MaxTitleLength {
		return title
	}
	return string([]rune(title)[:MaxTitleLength])
}

// NormalizeTitle is the dedupe key of a product title.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// DedupeByTitle keeps the first product of every normalized title, in order,
// and stops once max products are collected. A non positive max means no cap.
func DedupeByTitle(products []ProductRecord, max int) []ProductRecord {
	seen := make(map[string]struct{}, len(products))
	out := make([]ProductRecord, 0, len(products))
	for _, p := range products {
		if max > 0 && len(out) >= max {
			break
		}
		key := NormalizeTitle(p.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

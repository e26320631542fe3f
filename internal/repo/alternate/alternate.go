// Package alternate holds the web search sources the fallback chain queries
// when scraping the stores directly yields nothing.
package alternate

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/stores"
)

const (
	ProviderNone      = "none"
	ProviderGoogleCSE = "googlecse"
	ProviderSerpAPI   = "serpapi"
)

type Source interface {
	Name() string
	Search(ctx context.Context, query string, max int) ([]models.ProductRecord, error)
}

// New returns the configured source, or nil when no provider is set up.
func New(conf *config.Config, registry *stores.Registry) (Source, error) {
	c := conf.Alternate
	switch c.Provider {
	case ProviderNone, "":
		return nil, nil
	case ProviderGoogleCSE:
		if c.GoogleAPIKey == "" || c.GoogleCX == "" {
			return nil, fmt.Errorf("%w: google api key and cx are required", models.ErrAlternateNotConfigured)
		}
		return NewGoogleCSE(GoogleCSEConfig{
			URL:     c.GoogleURL,
			APIKey:  c.GoogleAPIKey,
			CX:      c.GoogleCX,
			Timeout: c.Timeout,
		}, registry), nil
	case ProviderSerpAPI:
		if c.SerpAPIKey == "" {
			return nil, fmt.Errorf("%w: serpapi key is required", models.ErrAlternateNotConfigured)
		}
		return NewSerpAPI(SerpAPIConfig{
			APIKey:  c.SerpAPIKey,
			Country: c.Country,
		}, registry), nil
	default:
		return nil, fmt.Errorf("unknown alternate provider %q", c.Provider)
	}
}

type storeInfo struct {
	host     string
	name     string
	currency string
}

// storeIndex maps result links back to the registry stores.
type storeIndex []storeInfo

func newStoreIndex(registry *stores.Registry) storeIndex {
	var idx storeIndex
	for _, s := range registry.All() {
		u, err := url.Parse(s.BaseURL)
		if err != nil {
			continue
		}
		idx = append(idx, storeInfo{
			host:     trimWWW(u.Hostname()),
			name:     s.DisplayName,
			currency: s.Currency,
		})
	}
	return idx
}

// sites lists the registry domains, www prefix removed.
func (idx storeIndex) sites() []string {
	out := make([]string, 0, len(idx))
	for _, s := range idx {
		out = append(out, s.host)
	}
	return out
}

// lookup names the store that owns link. Unknown hosts are named after their
// first domain label.
func (idx storeIndex) lookup(link string) storeInfo {
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return storeInfo{name: "Online Store"}
	}
	host := trimWWW(strings.ToLower(u.Hostname()))
	for _, s := range idx {
		if host == s.host || strings.HasSuffix(host, "."+s.host) {
			return s
		}
	}
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return storeInfo{name: "Online Store"}
	}
	return storeInfo{host: host, name: strings.ToUpper(label[:1]) + label[1:]}
}

func trimWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

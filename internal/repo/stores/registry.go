// Package stores loads the immutable list of stores the search pipeline queries.
package stores

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"slices"

	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/tmplx"
	"gopkg.in/yaml.v3"
)

//go:embed stores.yaml
var defaultStores []byte

type file struct {
	Stores []models.Store `yaml:"stores"`
}

// Registry is safe for concurrent use because it is never modified after Load.
type Registry struct {
	stores    []models.Store
	templates map[string]*tmplx.Template
}

func NewRegistry(cfg *config.Config) (*Registry, error) {
	if cfg.Stores.File == "" {
		return Parse(defaultStores)
	}
	return Load(cfg.Stores.File)
}

func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stores file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode stores: %w", err)
	}
	return New(f.Stores)
}

// New validates stores and compiles their search url templates.
func New(stores []models.Store) (*Registry, error) {
	r := &Registry{
		stores:    make([]models.Store, 0, len(stores)),
		templates: make(map[string]*tmplx.Template, len(stores)),
	}
	for _, s := range stores {
		if s.ID == "" {
			return nil, fmt.Errorf("store without id")
		}
		if _, ok := r.templates[s.ID]; ok {
			return nil, fmt.Errorf("duplicate store id %q", s.ID)
		}
		base, err := url.Parse(s.BaseURL)
		if err != nil || !base.IsAbs() {
			return nil, fmt.Errorf("store %s: base url %q must be absolute", s.ID, s.BaseURL)
		}
		if !slices.Contains(tmplx.ExtractFields(s.SearchURL), "Query") {
			return nil, fmt.Errorf("store %s: search url must reference .Query", s.ID)
		}
		tmpl, err := tmplx.Parse(s.ID, s.SearchURL, tmplx.WithValidate(searchData{Query: "test"}, validateURL))
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", s.ID, err)
		}
		if s.DisplayName == "" {
			s.DisplayName = s.ID
		}
		r.templates[s.ID] = tmpl
		r.stores = append(r.stores, s)
	}
	return r, nil
}

type searchData struct {
	Query string
}

func validateURL(b *bytes.Buffer) error {
	u, err := url.Parse(b.String())
	if err != nil {
		return err
	}
	if !u.IsAbs() {
		return fmt.Errorf("rendered url %q is not absolute", b.String())
	}
	return nil
}

// All returns a copy of every store in registry order.
func (r *Registry) All() []models.Store {
	return slices.Clone(r.stores)
}

// Enabled returns the enabled stores in registry order.
func (r *Registry) Enabled() []models.Store {
	out := make([]models.Store, 0, len(r.stores))
	for _, s := range r.stores {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) SearchURL(store models.Store, query string) (string, error) {
	tmpl, ok := r.templates[store.ID]
	if !ok {
		return "", fmt.Errorf("%w: %s", models.ErrStoreNotFound, store.ID)
	}
	return tmpl.RenderString(searchData{Query: query})
}

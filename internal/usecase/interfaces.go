package usecase

import (
	"context"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
)

// StoreSearcher fetches and extracts the products of a single store.
type StoreSearcher interface {
	SearchStore(ctx context.Context, store models.Store, query string) ([]models.ProductRecord, error)
}

type StoreLister interface {
	Enabled() []models.Store
}

type AlternateSource interface {
	Name() string
	Search(ctx context.Context, query string, max int) ([]models.ProductRecord, error)
}

type ResultCache interface {
	Get(ctx context.Context, query string) (models.CacheEntry, bool)
	Put(ctx context.Context, query string, products []models.ProductRecord, source models.Source)
	Stats(ctx context.Context) (models.CacheStats, error)
	Clear(ctx context.Context) error
}

type EventPublisher interface {
	PublishSearchCompleted(ctx context.Context, event models.SearchEvent) error
}

// IntentClassifier may always answer models.IntentUnknown; callers fall back
// to keyword heuristics.
type IntentClassifier interface {
	Classify(ctx context.Context, text string, prefs *models.Preferences) (models.IntentResult, error)
}

type StyleAdvisor interface {
	Advise(ctx context.Context, req AdviceRequest) (string, error)
}

type AdviceRequest struct {
	Message     string
	History     []models.ChatMessage
	Preferences *models.Preferences
}

type PreferenceRepository interface {
	// Get returns models.ErrNotFound when nothing is stored for the session.
	Get(ctx context.Context, sessionID string) (*models.Preferences, error)
	Upsert(ctx context.Context, prefs *models.Preferences) error
	Delete(ctx context.Context, sessionID string) error
}

package mongodb

import (
	"context"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// PreferenceRepository stores one document per chat session, keyed by session id.
type PreferenceRepository struct {
	baseRepo[models.Preferences]
}

func NewPreferenceRepository(db *DB) *PreferenceRepository {
	return &PreferenceRepository{
		baseRepo: newBaseRepo[models.Preferences](db.Database),
	}
}

func (r *PreferenceRepository) Get(ctx context.Context, sessionID string) (*models.Preferences, error) {
	return r.FindOne(ctx, bson.M{"_id": sessionID})
}

func (r *PreferenceRepository) Upsert(ctx context.Context, prefs *models.Preferences) error {
	return r.ReplaceOne(ctx, bson.M{"_id": prefs.SessionID}, *prefs)
}

func (r *PreferenceRepository) Delete(ctx context.Context, sessionID string) error {
	return r.DeleteOne(ctx, bson.M{"_id": sessionID})
}

package preferences

import (
	"context"
	"testing"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing session", func(t *testing.T) {
		t.Parallel()
		repo := NewMemoryRepository()
		_, err := repo.Get(ctx, "nobody")
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "nobody"), models.ErrNotFound)
	})

	t.Run("upsert get delete", func(t *testing.T) {
		t.Parallel()
		repo := NewMemoryRepository()
		prefs := &models.Preferences{SessionID: "s1", Style: "boho", Colors: []string{"green"}}
		require.NoError(t, repo.Upsert(ctx, prefs))

		prefs.Colors[0] = "red"
		got, err := repo.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "boho", got.Style)
		assert.Equal(t, []string{"green"}, got.Colors)

		got.Style = "changed"
		again, err := repo.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "boho", again.Style)

		require.NoError(t, repo.Delete(ctx, "s1"))
		_, err = repo.Get(ctx, "s1")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/nguyentranbao-ct/shop-assistant/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearch struct {
	usecase.SearchUsecase
	max int
}

func (s *stubSearch) Search(_ context.Context, query string, maxResults int) (*models.SearchResult, error) {
	q, err := usecase.NormalizeQuery(query)
	if err != nil {
		return nil, err
	}
	s.max = maxResults
	return &models.SearchResult{Query: q, Products: usecase.MockProducts(q, 2), Source: models.SourceMock}, nil
}

func TestRunSearch(t *testing.T) {
	t.Parallel()

	t.Run("prints response", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		uc := &stubSearch{}
		require.NoError(t, runSearch(context.Background(), uc, "blue jeans", 10, &out))
		assert.Equal(t, 10, uc.max)
		assert.Contains(t, out.String(), `"source": "mock"`)
		assert.Contains(t, out.String(), `"count": 2`)
	})

	t.Run("validation error", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		err := runSearch(context.Background(), &stubSearch{}, "x", 0, &out)
		assert.ErrorIs(t, err, models.ErrQueryTooShort)
		assert.Contains(t, out.String(), "minimum 2 characters")
	})
}

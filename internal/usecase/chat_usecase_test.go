package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPreferences struct {
	mu    sync.Mutex
	items map[string]models.Preferences
}

func newMemoryPreferences() *memoryPreferences {
	return &memoryPreferences{items: map[string]models.Preferences{}}
}

func (m *memoryPreferences) Get(_ context.Context, id string) (*models.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (m *memoryPreferences) Upsert(_ context.Context, p *models.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[p.SessionID] = *p
	return nil
}

func (m *memoryPreferences) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

type fakeClassifier struct {
	res models.IntentResult
	err error
}

func (f fakeClassifier) Classify(context.Context, string, *models.Preferences) (models.IntentResult, error) {
	return f.res, f.err
}

type fakeAdvisor struct {
	reply string
	err   error
	got   AdviceRequest
}

func (f *fakeAdvisor) Advise(_ context.Context, req AdviceRequest) (string, error) {
	f.got = req
	return f.reply, f.err
}

type fakeSearch struct {
	SearchUsecase
	queries []string
	result  *models.SearchResult
}

func (f *fakeSearch) Search(_ context.Context, query string, _ int) (*models.SearchResult, error) {
	q, err := NormalizeQuery(query)
	if err != nil {
		return nil, err
	}
	f.queries = append(f.queries, q)
	res := *f.result
	res.Query = q
	return &res, nil
}

func TestChat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dresses := &models.SearchResult{
		Source: models.SourceScraping,
		Products: []models.ProductRecord{
			{Title: "Red Dress", Price: "250"},
			{Title: "Silk Dress", Price: "900"},
		},
	}

	t.Run("search by keywords when classifier is unsure", func(t *testing.T) {
		t.Parallel()
		search := &fakeSearch{result: dresses}
		uc := NewChatUsecase(search, NewPreferenceUsecase(newMemoryPreferences()),
			fakeClassifier{res: models.IntentResult{Intent: models.IntentUnknown}}, nil)

		reply, err := uc.Chat(ctx, ChatRequest{SessionID: "s1", Message: "find me a dress under 500"})
		require.NoError(t, err)
		assert.Equal(t, models.ActionSearchProduct, reply.Action)
		assert.Equal(t, []string{"me a dress"}, search.queries)
		require.Len(t, reply.Products, 1)
		assert.Equal(t, "Red Dress", reply.Products[0].Title)
		assert.Equal(t, models.SourceScraping, reply.Source)
	})

	t.Run("search from classifier output", func(t *testing.T) {
		t.Parallel()
		search := &fakeSearch{result: dresses}
		uc := NewChatUsecase(search, NewPreferenceUsecase(newMemoryPreferences()),
			fakeClassifier{res: models.IntentResult{
				Intent:    models.IntentProductSearch,
				Extracted: map[string]string{"query": "silk dress"},
			}}, nil)

		reply, err := uc.Chat(ctx, ChatRequest{SessionID: "s1", Message: "something silky for tonight"})
		require.NoError(t, err)
		assert.Equal(t, []string{"silk dress"}, search.queries)
		assert.Len(t, reply.Products, 2)
	})

	t.Run("unusable query asks for clarification", func(t *testing.T) {
		t.Parallel()
		uc := NewChatUsecase(&fakeSearch{result: dresses}, NewPreferenceUsecase(newMemoryPreferences()),
			fakeClassifier{res: models.IntentResult{Intent: models.IntentProductSearch, Extracted: map[string]string{"query": "x"}}}, nil)

		reply, err := uc.Chat(ctx, ChatRequest{SessionID: "s1", Message: "x"})
		require.NoError(t, err)
		assert.Equal(t, "What product are you looking for?", reply.Reply)
		assert.Empty(t, reply.Products)
	})

	t.Run("memorizes preferences", func(t *testing.T) {
		t.Parallel()
		repo := newMemoryPreferences()
		uc := NewChatUsecase(&fakeSearch{result: dresses}, NewPreferenceUsecase(repo), nil, nil)

		reply, err := uc.Chat(ctx, ChatRequest{SessionID: "s2", Message: "I usually prefer casual clothes for work on a budget"})
		require.NoError(t, err)
		assert.Equal(t, models.ActionMemorizePreference, reply.Action)
		require.NotNil(t, reply.Preferences)
		assert.Equal(t, "casual", reply.Preferences.Style)
		assert.Equal(t, "work", reply.Preferences.Occasion)
		assert.Equal(t, "$", reply.Preferences.Budget)

		stored, err := repo.Get(ctx, "s2")
		require.NoError(t, err)
		assert.Equal(t, "casual", stored.Style)
	})

	t.Run("advice uses preferences", func(t *testing.T) {
		t.Parallel()
		repo := newMemoryPreferences()
		require.NoError(t, repo.Upsert(ctx, &models.Preferences{SessionID: "s3", Style: "formal"}))
		advisor := &fakeAdvisor{reply: " Try a navy blazer. "}
		uc := NewChatUsecase(&fakeSearch{result: dresses}, NewPreferenceUsecase(repo), nil, advisor)

		reply, err := uc.Chat(ctx, ChatRequest{SessionID: "s3", Message: "What should I wear to a wedding?"})
		require.NoError(t, err)
		assert.Equal(t, models.ActionStyleAdvice, reply.Action)
		assert.Equal(t, "Try a navy blazer.", reply.Reply)
		assert.Equal(t, "formal", advisor.got.Preferences.Style)
	})

	t.Run("advisor failure gets a canned reply", func(t *testing.T) {
		t.Parallel()
		advisor := &fakeAdvisor{err: errors.New("quota")}
		uc := NewChatUsecase(&fakeSearch{result: dresses}, NewPreferenceUsecase(newMemoryPreferences()),
			fakeClassifier{err: errors.New("unavailable")}, advisor)

		reply, err := uc.Chat(ctx, ChatRequest{SessionID: "s4", Message: "hi, tell me about fashion trends"})
		require.NoError(t, err)
		assert.Equal(t, models.ActionGeneralConversation, reply.Action)
		assert.Equal(t, FallbackReply("fashion"), reply.Reply)
	})
}

func TestClassifyByKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msg  string
		want models.Intent
	}{
		{msg: "/search linen shirt", want: models.IntentProductSearch},
		{msg: "I want new shoes", want: models.IntentProductSearch},
		{msg: "I love minimalist looks", want: models.IntentPreferenceUpdate},
		{msg: "any advice for a first date?", want: models.IntentStyleAdvice},
		{msg: "how long is delivery?", want: models.IntentQuestion},
		{msg: "hello", want: models.IntentGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyByKeywords(tt.msg).Intent)
		})
	}
}

func TestPreferenceUsecase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := NewPreferenceUsecase(newMemoryPreferences())

	prefs, err := uc.Get(ctx, "new")
	require.NoError(t, err)
	assert.False(t, prefs.HasAny())

	style := "sporty"
	prefs, err = uc.Update(ctx, "new", models.PreferencesPatch{Style: &style, Colors: []string{"black"}})
	require.NoError(t, err)
	assert.Equal(t, "sporty", prefs.Style)
	assert.False(t, prefs.LastUpdated.IsZero())

	prefs, err = uc.Update(ctx, "new", models.PreferencesPatch{Colors: []string{"Black", "white"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"black", "white"}, prefs.Colors)

	require.NoError(t, uc.Reset(ctx, "new"))
	prefs, err = uc.Get(ctx, "new")
	require.NoError(t, err)
	assert.False(t, prefs.HasAny())
}

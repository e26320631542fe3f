package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPreferencesApply(t *testing.T) {
	t.Parallel()
	style := "casual"
	budget := "$$"
	now := time.Now()

	p := &Preferences{SessionID: "s1", Colors: []string{"Blue"}}
	assert.False(t, (&Preferences{}).HasAny())

	p.Apply(PreferencesPatch{Style: &style, Budget: &budget, Colors: []string{"blue", "red"}}, now)

	assert.Equal(t, "casual", p.Style)
	assert.Equal(t, "$$", p.Budget)
	assert.Equal(t, []string{"Blue", "red"}, p.Colors)
	assert.Equal(t, now, p.LastUpdated)
	assert.True(t, p.HasAny())
	assert.Equal(t, "Style: casual | Budget: $$ | Colors: Blue, red", p.Summary())
}

func TestActionFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ActionSearchProduct, ActionFor(IntentProductSearch))
	assert.Equal(t, ActionMemorizePreference, ActionFor(IntentPreferenceUpdate))
	assert.Equal(t, ActionGeneralConversation, ActionFor(IntentUnknown))
}

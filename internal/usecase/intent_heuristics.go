package usecase

import (
	"strings"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
)

var (
	searchKeywords     = []string{"find", "search", "show", "looking for", "need", "want", "buy", "where can i"}
	productKeywords    = []string{"shirt", "jeans", "dress", "jacket", "shoes", "pants", "top", "bottom", "outfit"}
	preferenceKeywords = []string{"prefer", "like", "usually", "always", "favorite", "love"}
	adviceKeywords     = []string{"what should", "what to wear", "recommend", "suggest", "advice"}
	styleQuestionWords = []string{"wear", "outfit", "style", "fashion", "recommend", "suggest"}
)

type keywordValue struct {
	keywords []string
	value    string
}

// Checked in order, so multi word styles come before their single words.
var (
	styleValues = []keywordValue{
		{[]string{"smart casual"}, "smart casual"},
		{[]string{"casual"}, "casual"},
		{[]string{"formal"}, "formal"},
		{[]string{"streetwear"}, "streetwear"},
		{[]string{"business"}, "business"},
		{[]string{"sporty"}, "sporty"},
		{[]string{"minimalist"}, "minimalist"},
	}
	occasionValues = []keywordValue{
		{[]string{"work", "office"}, "work"},
		{[]string{"date"}, "date"},
		{[]string{"party", "event"}, "party"},
		{[]string{"everyday", "daily"}, "everyday"},
	}
	budgetValues = []keywordValue{
		{[]string{"budget", "affordable", "cheap"}, "$"},
		{[]string{"moderate", "mid"}, "$$"},
		{[]string{"premium", "high end"}, "$$$"},
		{[]string{"luxury", "designer"}, "$$$$"},
	}
)

// ClassifyByKeywords is the classifier used when no model is available or
// the model gives up.
func ClassifyByKeywords(message string) models.IntentResult {
	lower := strings.ToLower(message)
	switch {
	case IsSearchQuery(message) || (containsAny(lower, searchKeywords) && containsAny(lower, productKeywords)):
		return models.IntentResult{
			Intent:     models.IntentProductSearch,
			Confidence: 0.7,
			Extracted:  map[string]string{"query": ExtractSearchQuery(message)},
		}
	case containsAny(lower, preferenceKeywords):
		return models.IntentResult{
			Intent:     models.IntentPreferenceUpdate,
			Confidence: 0.6,
			Extracted:  preferenceFields(lower),
		}
	case containsAny(lower, adviceKeywords):
		return models.IntentResult{Intent: models.IntentStyleAdvice, Confidence: 0.7}
	case strings.HasSuffix(strings.TrimSpace(lower), "?"):
		return models.IntentResult{Intent: models.IntentQuestion, Confidence: 0.5}
	default:
		return models.IntentResult{Intent: models.IntentGeneral, Confidence: 0.5}
	}
}

func preferenceFields(lower string) map[string]string {
	out := map[string]string{}
	if v := firstMatch(lower, styleValues); v != "" {
		out["style"] = v
	}
	if v := firstMatch(lower, occasionValues); v != "" {
		out["occasion"] = v
	}
	if v := firstMatch(lower, budgetValues); v != "" {
		out["budget"] = v
	}
	return out
}

// PatchFromExtracted builds a preference update from classifier output.
func PatchFromExtracted(extracted map[string]string) models.PreferencesPatch {
	var patch models.PreferencesPatch
	if v := strings.TrimSpace(extracted["style"]); v != "" {
		patch.Style = &v
	}
	if v := strings.TrimSpace(extracted["occasion"]); v != "" {
		patch.Occasion = &v
	}
	if v := strings.TrimSpace(extracted["budget"]); v != "" {
		patch.Budget = &v
	}
	if v := strings.TrimSpace(extracted["size"]); v != "" {
		patch.Size = &v
	}
	return patch
}

func isStyleQuestion(message string) bool {
	return containsAny(strings.ToLower(message), styleQuestionWords)
}

func firstMatch(lower string, values []keywordValue) string {
	for _, kv := range values {
		if containsAny(lower, kv.keywords) {
			return kv.value
		}
	}
	return ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// FallbackReply answers without a model.
func FallbackReply(message string) string {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, []string{"style", "fashion"}):
		return "I'd love to help you discover your perfect style. Let's start by understanding your preferences. What occasion are you dressing for?"
	case containsAny(lower, []string{"brand", "recommend"}):
		return "Based on your preferences, I can recommend some excellent brands. Would you like to explore options for your style and budget?"
	case containsAny(lower, []string{"budget", "price"}):
		return "I can help you find great style options within your budget. What price range are you comfortable with?"
	default:
		return "I'm here to help you find your perfect style. Could you tell me more about what you're looking for?"
	}
}

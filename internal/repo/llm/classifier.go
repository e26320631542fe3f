package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/tidwall/gjson"
)

var knownIntents = map[models.Intent]struct{}{
	models.IntentProductSearch:    {},
	models.IntentStyleAdvice:      {},
	models.IntentPreferenceUpdate: {},
	models.IntentQuestion:         {},
	models.IntentGeneral:          {},
	models.IntentUnknown:          {},
}

func (s *Service) Classify(ctx context.Context, text string, prefs *models.Preferences) (models.IntentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.conf.Timeout)
	defer cancel()

	prompt, err := classifyPrompt.RenderString(classifyData{
		Message:     text,
		Preferences: prefs.Summary(),
	})
	if err != nil {
		return models.IntentResult{}, fmt.Errorf("render classify prompt: %w", err)
	}
	out, err := s.generate(ctx, []*ai.Message{ai.NewUserTextMessage(prompt)}, nil)
	if err != nil {
		return models.IntentResult{}, fmt.Errorf("classify: %w", err)
	}
	return parseIntent(out)
}

// parseIntent reads the JSON object in a model answer, tolerating code fences
// and surrounding prose.
func parseIntent(out string) (models.IntentResult, error) {
	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start < 0 || end < start {
		return models.IntentResult{}, fmt.Errorf("no json object in classifier output")
	}
	raw := out[start : end+1]
	if !gjson.Valid(raw) {
		return models.IntentResult{}, fmt.Errorf("invalid json in classifier output")
	}

	doc := gjson.Parse(raw)
	res := models.IntentResult{
		Intent:     models.Intent(strings.ToLower(strings.TrimSpace(doc.Get("intent").String()))),
		Confidence: min(max(doc.Get("confidence").Float(), 0), 1),
	}
	if _, ok := knownIntents[res.Intent]; !ok {
		res.Intent = models.IntentUnknown
	}
	doc.Get("extracted").ForEach(func(key, value gjson.Result) bool {
		v := strings.TrimSpace(value.String())
		if v == "" || value.Type == gjson.Null {
			return true
		}
		if res.Extracted == nil {
			res.Extracted = map[string]string{}
		}
		res.Extracted[key.String()] = v
		return true
	})
	return res, nil
}

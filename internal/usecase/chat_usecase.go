package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
)

type ChatRequest struct {
	SessionID string               `json:"session_id" header:"X-Session-ID" validate:"required,max=64"`
	Message   string               `json:"message" validate:"required,notblank,max=2000"`
	History   []models.ChatMessage `json:"history" validate:"max=50,dive"`
}

type ChatUsecase interface {
	Chat(ctx context.Context, req ChatRequest) (*models.ChatReply, error)
}

type chatUsecase struct {
	search      SearchUsecase
	preferences PreferenceUsecase
	classifier  IntentClassifier
	advisor     StyleAdvisor
}

// NewChatUsecase accepts nil classifier and advisor; keyword heuristics and
// canned replies are used instead.
func NewChatUsecase(
	search SearchUsecase,
	preferences PreferenceUsecase,
	classifier IntentClassifier,
	advisor StyleAdvisor,
) ChatUsecase {
	return &chatUsecase{
		search:      search,
		preferences: preferences,
		classifier:  classifier,
		advisor:     advisor,
	}
}

func (uc *chatUsecase) Chat(ctx context.Context, req ChatRequest) (*models.ChatReply, error) {
	prefs, err := uc.preferences.Get(ctx, req.SessionID)
	if err != nil {
		log.Warnw(ctx, "load preferences failed, continuing without", "session_id", req.SessionID, "error", err)
		prefs = &models.Preferences{SessionID: req.SessionID}
	}

	intent := uc.classify(ctx, req.Message, prefs)
	action := actionFor(intent, req.Message)
	log.Debugw(ctx, "chat turn routed", "intent", intent.Intent, "action", action, "confidence", intent.Confidence)

	switch action {
	case models.ActionSearchProduct:
		return uc.searchProducts(ctx, req, intent)
	case models.ActionMemorizePreference:
		return uc.memorize(ctx, req, intent)
	default:
		return uc.converse(ctx, req, intent, action, prefs), nil
	}
}

func (uc *chatUsecase) classify(ctx context.Context, message string, prefs *models.Preferences) models.IntentResult {
	if uc.classifier == nil {
		return ClassifyByKeywords(message)
	}
	res, err := uc.classifier.Classify(ctx, message, prefs)
	if err != nil {
		log.Warnw(ctx, "intent classifier failed, using keywords", "error", err)
		return ClassifyByKeywords(message)
	}
	if res.Intent == models.IntentUnknown || res.Intent == "" {
		return ClassifyByKeywords(message)
	}
	return res
}

func actionFor(intent models.IntentResult, message string) models.Action {
	switch intent.Intent {
	case models.IntentPreferenceUpdate:
		if PatchFromExtracted(intent.Extracted).Empty() {
			return models.ActionStyleAdvice
		}
		return models.ActionMemorizePreference
	case models.IntentQuestion:
		if isStyleQuestion(message) {
			return models.ActionStyleAdvice
		}
		return models.ActionAskQuestion
	default:
		return models.ActionFor(intent.Intent)
	}
}

func (uc *chatUsecase) searchProducts(ctx context.Context, req ChatRequest, intent models.IntentResult) (*models.ChatReply, error) {
	raw := intent.Extracted["query"]
	if raw == "" {
		raw = ExtractSearchQuery(req.Message)
	}
	parsed := ParseSearchQuery(raw)
	if parsed.MinPrice == 0 && parsed.MaxPrice == 0 {
		// the extracted query may have lost the price phrase
		full := ParseSearchQuery(req.Message)
		parsed.MinPrice, parsed.MaxPrice = full.MinPrice, full.MaxPrice
	}

	reply := &models.ChatReply{
		Action: models.ActionSearchProduct,
		Intent: intent.Intent,
		Query:  parsed.Query,
	}
	res, err := uc.search.Search(ctx, parsed.Query, 0)
	if err != nil {
		reply.Reply = "What product are you looking for?"
		return reply, nil
	}

	products := filterByPrice(res.Products, parsed.MinPrice, parsed.MaxPrice)
	if len(products) == 0 {
		products = res.Products
	}
	reply.Query = res.Query
	reply.Products = products
	reply.Source = res.Source
	if res.Source == models.SourceMock {
		reply.Reply = fmt.Sprintf("Live store results are unavailable right now, so here are some ideas for %q.", res.Query)
	} else {
		reply.Reply = fmt.Sprintf("I found %d options for %q.", len(products), res.Query)
	}
	return reply, nil
}

func (uc *chatUsecase) memorize(ctx context.Context, req ChatRequest, intent models.IntentResult) (*models.ChatReply, error) {
	updated, err := uc.preferences.Update(ctx, req.SessionID, PatchFromExtracted(intent.Extracted))
	if err != nil {
		return nil, fmt.Errorf("memorize preferences: %w", err)
	}
	return &models.ChatReply{
		Action:      models.ActionMemorizePreference,
		Intent:      intent.Intent,
		Reply:       "Got it, I'll remember that. " + updated.Summary(),
		Preferences: updated,
	}, nil
}

func (uc *chatUsecase) converse(ctx context.Context, req ChatRequest, intent models.IntentResult, action models.Action, prefs *models.Preferences) *models.ChatReply {
	reply := &models.ChatReply{Action: action, Intent: intent.Intent}
	if uc.advisor == nil {
		reply.Reply = FallbackReply(req.Message)
		return reply
	}
	text, err := uc.advisor.Advise(ctx, AdviceRequest{
		Message:     req.Message,
		History:     req.History,
		Preferences: prefs,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		log.Warnw(ctx, "style advisor failed, using canned reply", "error", err)
		reply.Reply = FallbackReply(req.Message)
		return reply
	}
	reply.Reply = strings.TrimSpace(text)
	return reply
}

// filterByPrice keeps products whose price lies in [min, max]. Zero bounds
// are open.
func filterByPrice(products []models.ProductRecord, minPrice, maxPrice int) []models.ProductRecord {
	if minPrice <= 0 && maxPrice <= 0 {
		return products
	}
	out := make([]models.ProductRecord, 0, len(products))
	for _, p := range products {
		v, err := strconv.ParseFloat(p.Price, 64)
		if err != nil {
			continue
		}
		if minPrice > 0 && v < float64(minPrice) {
			continue
		}
		if maxPrice > 0 && v > float64(maxPrice) {
			continue
		}
		out = append(out, p)
	}
	return out
}

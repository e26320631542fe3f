package llm

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/nguyentranbao-ct/shop-assistant/internal/usecase"
)

func (s *Service) Advise(ctx context.Context, req usecase.AdviceRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.conf.Timeout)
	defer cancel()

	data := advisorData{}
	if req.Preferences.HasAny() {
		data.Preferences = req.Preferences.Summary()
	}
	system, err := advisorPrompt.RenderString(data)
	if err != nil {
		return "", fmt.Errorf("render advisor prompt: %w", err)
	}

	history := req.History
	if len(history) > s.conf.HistoryLimit {
		history = history[len(history)-s.conf.HistoryLimit:]
	}
	messages := make([]*ai.Message, 0, len(history)+2)
	messages = append(messages, ai.NewSystemTextMessage(system))
	for _, m := range history {
		if m.Role == "user" {
			messages = append(messages, ai.NewUserTextMessage(m.Content))
		} else {
			messages = append(messages, ai.NewModelTextMessage(m.Content))
		}
	}
	messages = append(messages, ai.NewUserTextMessage(req.Message))

	out, err := s.generate(ctx, messages, s.tools)
	if err != nil {
		return "", fmt.Errorf("advise: %w", err)
	}
	return out, nil
}

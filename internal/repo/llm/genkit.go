// Package llm backs the chat assistant with a Gemini model through genkit.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
)

const maxToolTurns = 3

// ProductLookup lets the advisor look at real products while answering.
type ProductLookup interface {
	Search(ctx context.Context, query string, maxResults int) (*models.SearchResult, error)
}

type generateFunc func(ctx context.Context, messages []*ai.Message, tools []ai.ToolRef) (string, error)

// Service implements the intent classifier and the style advisor.
type Service struct {
	conf     config.LLMConfig
	g        *genkit.Genkit
	generate generateFunc
	tools    []ai.ToolRef
}

// NewGenkitService returns nil when no API key is configured.
func NewGenkitService(conf *config.Config, lookup ProductLookup) (*Service, error) {
	if !conf.LLM.Enabled() {
		return nil, nil
	}
	ctx := context.Background()

	googleAI := &googlegenai.GoogleAI{
		APIKey: conf.LLM.GoogleAIAPIKey,
	}
	g := genkit.Init(ctx, genkit.WithPlugins(googleAI))

	s := newService(conf.LLM, nil)
	s.g = g
	s.generate = s.genkitGenerate
	if lookup != nil {
		s.tools = []ai.ToolRef{s.defineLookupTool(lookup)}
	}
	return s, nil
}

func newService(conf config.LLMConfig, generate generateFunc) *Service {
	if conf.Timeout <= 0 {
		conf.Timeout = 10 * time.Second
	}
	if conf.HistoryLimit <= 0 {
		conf.HistoryLimit = 6
	}
	return &Service{conf: conf, generate: generate}
}

type LookupProductsArgs struct {
	Query string `json:"query" jsonschema:"description=What to search for, e.g. 'linen shirt'"`
	Max   int    `json:"max,omitempty" jsonschema:"description=Maximum number of products, at most 5"`
}

type LookupProductsResult struct {
	Source   models.Source          `json:"source"`
	Products []models.ProductRecord `json:"products"`
}

func (s *Service) defineLookupTool(lookup ProductLookup) ai.Tool {
	return genkit.DefineTool(s.g, "LookupProducts", "Search Egyptian fashion stores for products matching a short query",
		func(toolCtx *ai.ToolContext, input LookupProductsArgs) (*LookupProductsResult, error) {
			n := input.Max
			if n <= 0 || n > 5 {
				n = 5
			}
			res, err := lookup.Search(toolCtx, input.Query, n)
			if err != nil {
				return nil, err
			}
			return &LookupProductsResult{Source: res.Source, Products: res.Products}, nil
		})
}

func (s *Service) genkitGenerate(ctx context.Context, messages []*ai.Message, tools []ai.ToolRef) (string, error) {
	var (
		resp *ai.ModelResponse
		err  error
	)
	if len(tools) > 0 {
		resp, err = genkit.Generate(ctx, s.g,
			ai.WithMessages(messages...),
			ai.WithModelName(s.conf.Model),
			ai.WithTools(tools...),
			ai.WithMaxTurns(maxToolTurns),
		)
	} else {
		resp, err = genkit.Generate(ctx, s.g,
			ai.WithMessages(messages...),
			ai.WithModelName(s.conf.Model),
		)
	}
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return resp.Text(), nil
}

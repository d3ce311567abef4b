package openaiLLM

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/customHttpClient"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/llm"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
	openai "github.com/sashabaranov/go-openai"
)

const queryProcessingPrompt = `You turn a user question into a semantic search query.
Respond with a JSON object only:
{"semantic_query": "<rewritten query maximizing retrieval recall>",
 "filters": {"domain": "<one of the available domains, or empty>", "tags": [], "source": "", "content_type": ""},
 "confidence": <0.0-1.0>}
Available domains: %s`

type llmClient struct {
	api       *openai.Client
	modelName string
	logger    *logger_i.Logger
}

// NewOpenAIProvider builds the completion gateway on the OpenAI chat
// completions endpoint.
func NewOpenAIProvider(apikey string, modelName string) (llm.Provider, error) {
	if apikey == "" {
		return nil, errors.New("openai llm: missing api key")
	}
	if modelName == "" {
		modelName = config.OpenAIChatModel
	}

	cfg := openai.DefaultConfig(apikey)
	cfg.HTTPClient = customHttpClient.Pooled()

	return &llmClient{
		api:       openai.NewClientWithConfig(cfg),
		modelName: modelName,
		logger:    logger_i.NewLogger("openai_llm"),
	}, nil
}

func (c *llmClient) ProcessQuery(ctx context.Context, rawQuery string, availableDomains []string) (llm.ProcessedQuery, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	system := fmt.Sprintf(queryProcessingPrompt, strings.Join(availableDomains, ", "))
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.modelName,
		Temperature: config.ModelTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: rawQuery},
		},
	})
	if err != nil {
		log.Error("query processing call failed", "error", err)
		return llm.ProcessedQuery{}, fmt.Errorf("openai query processing: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llm.ProcessedQuery{}, errors.New("openai query processing: empty response")
	}

	var processed llm.ProcessedQuery
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &processed); err != nil {
		log.Error("query processing returned malformed json", "error", err)
		return llm.ProcessedQuery{}, fmt.Errorf("openai query processing: malformed response: %w", err)
	}
	if processed.SemanticQuery == "" {
		processed.SemanticQuery = rawQuery
	}
	// An inferred domain outside the closed set is dropped, not propagated.
	if d := string(processed.Filters.Domain); d != "" && !ragModel.IsValidDomain(d) {
		log.Warn("model inferred unknown domain", "domain", d)
		processed.Filters.Domain = ""
	}
	return processed, nil
}

func (c *llmClient) GenerateAnswer(ctx context.Context, originalQuery string, semantic ragModel.SemanticQuery, contexts []string) (string, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	var prompt strings.Builder
	prompt.WriteString("Context:\n")
	for i, c := range contexts {
		fmt.Fprintf(&prompt, "[%d] %s\n", i+1, c)
	}
	fmt.Fprintf(&prompt, "\nSearch query: %s\nUser question: %s", semantic.Query, originalQuery)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.modelName,
		Temperature: config.ModelTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: config.ModelContext},
			{Role: openai.ChatMessageRoleUser, Content: prompt.String()},
		},
	})
	if err != nil {
		log.Error("answer generation call failed", "error", err)
		return "", fmt.Errorf("openai answer generation: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai answer generation: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

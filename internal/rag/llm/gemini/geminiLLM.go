package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/llm"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
	"google.golang.org/genai"
)

// Alternative completion gateway on Gemini, selected with
// config.CompletionProvider = "gemini".

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

func NewGeminiProvider(ctx context.Context, apikey string, modelName string) (llm.Provider, error) {
	if apikey == "" {
		return nil, errors.New("gemini llm: missing api key")
	}
	if modelName == "" {
		modelName = config.GeminiModelName
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		return nil, fmt.Errorf("gemini llm: %w", err)
	}
	return &llmClient{
		client:    c,
		modelName: modelName,
		logger:    logger_i.NewLogger("gemini_llm"),
	}, nil
}

func (c *llmClient) ProcessQuery(ctx context.Context, rawQuery string, availableDomains []string) (llm.ProcessedQuery, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	instruction := fmt.Sprintf(`Rewrite the user question as a semantic search query and infer filters.
Available domains: %s
Reply with JSON only: {"semantic_query": string, "filters": {"domain": string, "tags": [string], "source": string, "content_type": string}, "confidence": number}`,
		strings.Join(availableDomains, ", "))

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(rawQuery), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		log.Error("query processing call failed", "error", err)
		return llm.ProcessedQuery{}, fmt.Errorf("gemini query processing: %w", err)
	}

	var processed llm.ProcessedQuery
	if err := json.Unmarshal([]byte(result.Text()), &processed); err != nil {
		log.Error("query processing returned malformed json", "error", err)
		return llm.ProcessedQuery{}, fmt.Errorf("gemini query processing: malformed response: %w", err)
	}
	if processed.SemanticQuery == "" {
		processed.SemanticQuery = rawQuery
	}
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
	for i, part := range contexts {
		fmt.Fprintf(&prompt, "[%d] %s\n", i+1, part)
	}
	fmt.Fprintf(&prompt, "\nSearch query: %s\nUser question: %s", semantic.Query, originalQuery)

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt.String()), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: config.ModelContext}}},
	})
	if err != nil {
		log.Error("answer generation call failed", "error", err)
		return "", fmt.Errorf("gemini answer generation: %w", err)
	}
	return result.Text(), nil
}

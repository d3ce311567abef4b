package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/customHttpClient"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/embedding"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
	openai "github.com/sashabaranov/go-openai"
)

type client struct {
	api    *openai.Client
	model  string
	logger *logger_i.Logger
}

// NewOpenAIEmbedder builds the embedding gateway on the OpenAI embeddings
// endpoint. The same client instance is safe for concurrent use.
func NewOpenAIEmbedder(apikey string, model string) (embedding.Embedder, error) {
	if apikey == "" {
		return nil, errors.New("openai embedding: missing api key")
	}
	if model == "" {
		model = config.OpenAIEmbeddingModel
	}

	cfg := openai.DefaultConfig(apikey)
	cfg.HTTPClient = customHttpClient.Pooled()

	return &client{
		api:    openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger_i.NewLogger("openai_embedding"),
	}, nil
}

func (c *client) GetEmbedding(ctx context.Context, text string, domainHint ragModel.KnowledgeDomain) ([]float32, int, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	log.Debug("embedding query text", "domainHint", string(domainHint), "chars", len(text))

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: int(config.EmbeddingDimensionality),
	})
	if err != nil {
		log.Error("embedding call failed", "error", err)
		return nil, 0, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, 0, errors.New("openai embedding: empty response")
	}
	return resp.Data[0].Embedding, resp.Usage.PromptTokens, nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string, domainHint ragModel.KnowledgeDomain) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	log.Debug("embedding batch", "size", len(texts), "domainHint", string(domainHint))

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: int(config.EmbeddingDimensionality),
	})
	if err != nil {
		log.Error("batch embedding call failed", "error", err)
		return nil, fmt.Errorf("openai batch embedding: %w", err)
	}

	// The API may return results out of order; Index restores request order.
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("openai batch embedding: index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

package llm

import (
	"context"

	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
)

// ProcessedQuery is what the completion gateway infers from a raw user
// question: a retrieval-friendly rewrite, a filter set, and how confident the
// model is about that inference. The confidence is logged by the caller and
// goes no further.
type ProcessedQuery struct {
	SemanticQuery string                `json:"semantic_query"`
	Filters       ragModel.QueryFilters `json:"filters"`
	Confidence    float64               `json:"confidence"`
}

// Provider is the completion gateway. Both calls are stateless round trips;
// no streaming, no retry.
type Provider interface {
	ProcessQuery(ctx context.Context, rawQuery string, availableDomains []string) (ProcessedQuery, error)
	GenerateAnswer(ctx context.Context, originalQuery string, semantic ragModel.SemanticQuery, contexts []string) (string, error)
}

package embedding

import (
	"context"

	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
)

// Embedder converts text into fixed-dimension vectors. The domain hint lets
// an implementation pick a per-domain model or task type; implementations are
// free to ignore it. Identical input against the same model version must
// produce identical vectors.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string, domainHint ragModel.KnowledgeDomain) ([]float32, int, error)
	BatchEmbedding(ctx context.Context, texts []string, domainHint ragModel.KnowledgeDomain) ([][]float32, error)
}

package vectorDB

import (
	"context"

	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
)

// DataProcessor is the vector store boundary. A namespace is a logical
// partition, one per knowledge domain; scores are only comparable within a
// single namespace.
type DataProcessor interface {
	Query(ctx context.Context, vector []float32, topK int, namespace string, filters ragModel.QueryFilters, minScore float64) ([]ragModel.VectorMatch, error)
	UpsertBatch(ctx context.Context, namespace string, chunks []ragModel.Chunk, vectors [][]float32) error
	DeleteByDocument(ctx context.Context, namespace string, documentId string) error
	ListNamespaces(ctx context.Context) ([]string, error)
	EnsureNamespace(ctx context.Context, namespace string) error
}

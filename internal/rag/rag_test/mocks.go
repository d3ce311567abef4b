package rag_test

import (
	"context"

	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/llm"
)

// Collaborator doubles with overridable function fields. Tests set only the
// functions a case needs; unset functions return benign zero results.

type MockVectorDB struct {
	QueryFunc          func(ctx context.Context, vector []float32, topK int, namespace string, filters ragModel.QueryFilters, minScore float64) ([]ragModel.VectorMatch, error)
	UpsertBatchFunc    func(ctx context.Context, namespace string, chunks []ragModel.Chunk, vectors [][]float32) error
	DeleteFunc         func(ctx context.Context, namespace string, documentId string) error
	ListNamespacesFunc func(ctx context.Context) ([]string, error)
	QueryCalls         int
}

func (m *MockVectorDB) Query(ctx context.Context, vector []float32, topK int, namespace string, filters ragModel.QueryFilters, minScore float64) ([]ragModel.VectorMatch, error) {
	m.QueryCalls++
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, vector, topK, namespace, filters, minScore)
	}
	return nil, nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, namespace string, chunks []ragModel.Chunk, vectors [][]float32) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, namespace, chunks, vectors)
	}
	return nil
}

func (m *MockVectorDB) DeleteByDocument(ctx context.Context, namespace string, documentId string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, namespace, documentId)
	}
	return nil
}

func (m *MockVectorDB) ListNamespaces(ctx context.Context) ([]string, error) {
	if m.ListNamespacesFunc != nil {
		return m.ListNamespacesFunc(ctx)
	}
	return []string{"general", "trading"}, nil
}

func (m *MockVectorDB) EnsureNamespace(ctx context.Context, namespace string) error {
	return nil
}

type MockEmbedder struct {
	GetEmbeddingFunc func(ctx context.Context, text string, domain ragModel.KnowledgeDomain) ([]float32, int, error)
	BatchFunc        func(ctx context.Context, texts []string, domain ragModel.KnowledgeDomain) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string, domain ragModel.KnowledgeDomain) ([]float32, int, error) {
	if m.GetEmbeddingFunc != nil {
		return m.GetEmbeddingFunc(ctx, text, domain)
	}
	return []float32{0.1, 0.2, 0.3}, 3, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, texts []string, domain ragModel.KnowledgeDomain) ([][]float32, error) {
	if m.BatchFunc != nil {
		return m.BatchFunc(ctx, texts, domain)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

type MockLLM struct {
	ProcessQueryFunc   func(ctx context.Context, rawQuery string, availableDomains []string) (llm.ProcessedQuery, error)
	GenerateFunc       func(ctx context.Context, originalQuery string, semantic ragModel.SemanticQuery, contexts []string) (string, error)
	GenerateCallCount  int
	ProcessedCallCount int
}

func (m *MockLLM) ProcessQuery(ctx context.Context, rawQuery string, availableDomains []string) (llm.ProcessedQuery, error) {
	m.ProcessedCallCount++
	if m.ProcessQueryFunc != nil {
		return m.ProcessQueryFunc(ctx, rawQuery, availableDomains)
	}
	return llm.ProcessedQuery{SemanticQuery: rawQuery, Confidence: 0.9}, nil
}

func (m *MockLLM) GenerateAnswer(ctx context.Context, originalQuery string, semantic ragModel.SemanticQuery, contexts []string) (string, error) {
	m.GenerateCallCount++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, originalQuery, semantic, contexts)
	}
	return "generated answer", nil
}

type MockRegistry struct {
	Records  map[string]ragModel.DocumentRecord
	SaveFunc func(ctx context.Context, record ragModel.DocumentRecord) error
	ListErr  error
}

func NewMockRegistry() *MockRegistry {
	return &MockRegistry{Records: map[string]ragModel.DocumentRecord{}}
}

func (m *MockRegistry) SaveDocument(ctx context.Context, record ragModel.DocumentRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, record)
	}
	m.Records[record.Id] = record
	return nil
}

func (m *MockRegistry) GetDocument(ctx context.Context, id string) (ragModel.DocumentRecord, bool) {
	record, ok := m.Records[id]
	return record, ok
}

func (m *MockRegistry) DeleteDocument(ctx context.Context, id string) error {
	delete(m.Records, id)
	return nil
}

func (m *MockRegistry) ListDocuments(ctx context.Context) ([]ragModel.DocumentRecord, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	records := make([]ragModel.DocumentRecord, 0, len(m.Records))
	for _, r := range m.Records {
		records = append(records, r)
	}
	return records, nil
}

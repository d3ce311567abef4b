package rag_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/llm"
)

func match(id string, score float64) ragModel.VectorMatch {
	return ragModel.VectorMatch{Id: id, Score: score, Content: "content of " + id}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestQuery_FullPipeline(t *testing.T) {
	vector := &MockVectorDB{
		QueryFunc: func(ctx context.Context, v []float32, topK int, namespace string, filters ragModel.QueryFilters, minScore float64) ([]ragModel.VectorMatch, error) {
			if topK != 5 {
				t.Errorf("topK = %d, want default 5", topK)
			}
			return []ragModel.VectorMatch{match("a_chunk_0", 0.9), match("b_chunk_0", 0.8)}, nil
		},
	}
	gateway := &MockLLM{
		ProcessQueryFunc: func(ctx context.Context, rawQuery string, availableDomains []string) (llm.ProcessedQuery, error) {
			return llm.ProcessedQuery{SemanticQuery: "rewritten " + rawQuery, Confidence: 0.9}, nil
		},
		GenerateFunc: func(ctx context.Context, originalQuery string, semantic ragModel.SemanticQuery, contexts []string) (string, error) {
			if len(contexts) != 2 {
				t.Errorf("got %d contexts, want 2", len(contexts))
			}
			return "the answer", nil
		},
	}

	svc := rag.NewService(vector, gateway, &MockEmbedder{}, NewMockRegistry())
	resp, err := svc.Query(context.Background(), "what is margin trading", "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if resp.Answer != "the answer" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.Sources) != 2 || resp.Sources[0].Score != 0.9 {
		t.Errorf("sources = %+v", resp.Sources)
	}
	if resp.Metadata.OriginalQuery != "what is margin trading" {
		t.Errorf("original query = %q", resp.Metadata.OriginalQuery)
	}
	if resp.Metadata.SemanticQuery.Query != "rewritten what is margin trading" {
		t.Errorf("semantic query = %q", resp.Metadata.SemanticQuery.Query)
	}
	if resp.Metadata.TotalMatches != 2 {
		t.Errorf("total matches = %d", resp.Metadata.TotalMatches)
	}
	if resp.Confidence <= 0.9 {
		t.Errorf("confidence = %v, want above the top score", resp.Confidence)
	}
}

func TestQuery_EmptyQueryRejected(t *testing.T) {
	svc := rag.NewService(&MockVectorDB{}, &MockLLM{}, &MockEmbedder{}, NewMockRegistry())
	if _, err := svc.Query(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for empty query")
	}
}

// With zero matches the answer is a fixed template and the completion gateway
// must not be called at all.
func TestQuery_NoMatchesSkipsGeneration(t *testing.T) {
	gateway := &MockLLM{}
	svc := rag.NewService(&MockVectorDB{}, gateway, &MockEmbedder{}, NewMockRegistry())

	resp, err := svc.Query(context.Background(), "obscure question", "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if gateway.GenerateCallCount != 0 {
		t.Errorf("GenerateAnswer called %d times, want 0", gateway.GenerateCallCount)
	}
	if !almostEqual(resp.Confidence, 0.1) {
		t.Errorf("confidence = %v, want 0.1", resp.Confidence)
	}
	if !strings.Contains(resp.Answer, `"obscure question"`) {
		t.Errorf("templated answer %q does not name the query", resp.Answer)
	}
	if len(resp.Sources) != 0 {
		t.Errorf("sources = %+v, want none", resp.Sources)
	}
}

func TestQuery_DomainOverrideWins(t *testing.T) {
	var gotNamespace string
	vector := &MockVectorDB{
		QueryFunc: func(ctx context.Context, v []float32, topK int, namespace string, filters ragModel.QueryFilters, minScore float64) ([]ragModel.VectorMatch, error) {
			gotNamespace = namespace
			return []ragModel.VectorMatch{match("a_chunk_0", 0.9)}, nil
		},
	}
	gateway := &MockLLM{
		ProcessQueryFunc: func(ctx context.Context, rawQuery string, availableDomains []string) (llm.ProcessedQuery, error) {
			// The model thinks this belongs to trading; the caller says fitness.
			return llm.ProcessedQuery{
				SemanticQuery: rawQuery,
				Filters:       ragModel.QueryFilters{Domain: ragModel.DomainTrading},
			}, nil
		},
	}

	svc := rag.NewService(vector, gateway, &MockEmbedder{}, NewMockRegistry())
	if _, err := svc.Query(context.Background(), "leg day plan", ragModel.DomainFitness); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if gotNamespace != "fitness" {
		t.Errorf("namespace = %q, want fitness", gotNamespace)
	}
}

func TestQuery_MinScoreFilterAndOrdering(t *testing.T) {
	vector := &MockVectorDB{
		QueryFunc: func(ctx context.Context, v []float32, topK int, namespace string, filters ragModel.QueryFilters, minScore float64) ([]ragModel.VectorMatch, error) {
			return []ragModel.VectorMatch{
				match("low", 0.65),
				match("mid", 0.72),
				match("top", 0.95),
				match("high", 0.8),
			}, nil
		},
	}

	svc := rag.NewService(vector, &MockLLM{}, &MockEmbedder{}, NewMockRegistry())
	resp, err := svc.Query(context.Background(), "anything", "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	var ids []string
	for _, s := range resp.Sources {
		ids = append(ids, s.Id)
	}
	want := []string{"top", "high", "mid"}
	if len(ids) != len(want) {
		t.Fatalf("sources = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("sources = %v, want %v", ids, want)
		}
	}
}

func TestQuery_StageFailuresPropagate(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		build func() (*MockVectorDB, *MockLLM, *MockEmbedder)
		stage string
	}{
		{
			name: "query processing",
			build: func() (*MockVectorDB, *MockLLM, *MockEmbedder) {
				gateway := &MockLLM{ProcessQueryFunc: func(ctx context.Context, q string, d []string) (llm.ProcessedQuery, error) {
					return llm.ProcessedQuery{}, boom
				}}
				return &MockVectorDB{}, gateway, &MockEmbedder{}
			},
			stage: "query processing stage",
		},
		{
			name: "embedding",
			build: func() (*MockVectorDB, *MockLLM, *MockEmbedder) {
				embedder := &MockEmbedder{GetEmbeddingFunc: func(ctx context.Context, t string, d ragModel.KnowledgeDomain) ([]float32, int, error) {
					return nil, 0, boom
				}}
				return &MockVectorDB{}, &MockLLM{}, embedder
			},
			stage: "retrieval stage",
		},
		{
			name: "vector search",
			build: func() (*MockVectorDB, *MockLLM, *MockEmbedder) {
				vector := &MockVectorDB{QueryFunc: func(ctx context.Context, v []float32, k int, n string, f ragModel.QueryFilters, m float64) ([]ragModel.VectorMatch, error) {
					return nil, boom
				}}
				return vector, &MockLLM{}, &MockEmbedder{}
			},
			stage: "retrieval stage",
		},
		{
			name: "generation",
			build: func() (*MockVectorDB, *MockLLM, *MockEmbedder) {
				vector := &MockVectorDB{QueryFunc: func(ctx context.Context, v []float32, k int, n string, f ragModel.QueryFilters, m float64) ([]ragModel.VectorMatch, error) {
					return []ragModel.VectorMatch{match("a", 0.9)}, nil
				}}
				gateway := &MockLLM{GenerateFunc: func(ctx context.Context, q string, s ragModel.SemanticQuery, c []string) (string, error) {
					return "", boom
				}}
				return vector, gateway, &MockEmbedder{}
			},
			stage: "generation stage",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vector, gateway, embedder := tc.build()
			svc := rag.NewService(vector, gateway, embedder, NewMockRegistry())
			_, err := svc.Query(context.Background(), "any question", "")
			if !errors.Is(err, boom) {
				t.Fatalf("got %v, want wrapped boom", err)
			}
			if !strings.Contains(err.Error(), tc.stage) {
				t.Errorf("error %q does not name the %s", err, tc.stage)
			}
		})
	}
}

func TestAddDocument_Validation(t *testing.T) {
	svc := rag.NewService(&MockVectorDB{}, &MockLLM{}, &MockEmbedder{}, NewMockRegistry())

	tests := []struct {
		name string
		doc  ragModel.Document
	}{
		{"missing id", ragModel.Document{Content: "x", Metadata: ragModel.DocumentMetadata{Domain: "general"}}},
		{"missing content", ragModel.Document{Id: "d1", Metadata: ragModel.DocumentMetadata{Domain: "general"}}},
		{"missing domain", ragModel.Document{Id: "d1", Content: "x"}},
		{"unknown domain", ragModel.Document{Id: "d1", Content: "x", Metadata: ragModel.DocumentMetadata{Domain: "cooking"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.AddDocument(context.Background(), tc.doc); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestAddDocument_RecordsRegistry(t *testing.T) {
	registry := NewMockRegistry()
	svc := rag.NewService(&MockVectorDB{}, &MockLLM{}, &MockEmbedder{}, registry)

	doc := ragModel.Document{
		Id:       "doc-9",
		Content:  "a short trading note",
		Metadata: ragModel.DocumentMetadata{Domain: ragModel.DomainTrading},
	}
	if err := svc.AddDocument(context.Background(), doc); err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	record, ok := registry.Records["doc-9"]
	if !ok {
		t.Fatal("registry has no record for doc-9")
	}
	if record.Domain != ragModel.DomainTrading || record.ChunkCount != 1 {
		t.Errorf("record = %+v", record)
	}
}

func TestRemoveDocument_UsesRegistryDomain(t *testing.T) {
	var deletedNamespace string
	vector := &MockVectorDB{
		DeleteFunc: func(ctx context.Context, namespace string, documentId string) error {
			deletedNamespace = namespace
			return nil
		},
	}
	registry := NewMockRegistry()
	registry.Records["doc-3"] = ragModel.DocumentRecord{Id: "doc-3", Domain: ragModel.DomainInstagram}

	svc := rag.NewService(vector, &MockLLM{}, &MockEmbedder{}, registry)
	if err := svc.RemoveDocument(context.Background(), "doc-3", ""); err != nil {
		t.Fatalf("RemoveDocument: %v", err)
	}
	if deletedNamespace != "instagram" {
		t.Errorf("deleted in namespace %q, want instagram", deletedNamespace)
	}
	if _, ok := registry.Records["doc-3"]; ok {
		t.Error("registry record survived removal")
	}
}

func TestGetStatus_ReportsEveryDegradation(t *testing.T) {
	vector := &MockVectorDB{
		ListNamespacesFunc: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("qdrant down")
		},
	}
	registry := NewMockRegistry()
	registry.ListErr = errors.New("redis down")

	svc := rag.NewService(vector, &MockLLM{}, &MockEmbedder{}, registry)
	status := svc.GetStatus(context.Background())

	if status.IsReady {
		t.Error("status must not report ready while the vector store is down")
	}
	for _, want := range []string{"vector store unreachable", "document registry unreachable"} {
		if !strings.Contains(status.Health, want) {
			t.Errorf("health %q does not name %q", status.Health, want)
		}
	}
}

func TestScoreConfidence(t *testing.T) {
	tests := []struct {
		name    string
		matches []ragModel.VectorMatch
		want    float64
	}{
		{"no matches", nil, 0.1},
		// 0.8 + (1/3)*0.1 + (0.8/0.8)*0.1
		{"single match", []ragModel.VectorMatch{match("a", 0.8)}, 0.8 + 0.1/3 + 0.1},
		// strong agreeing trio saturates the scale
		{"clamped high", []ragModel.VectorMatch{match("a", 0.91), match("b", 0.88), match("c", 0.85)}, 1.0},
		// zero top score skips the consistency bonus and floors at 0.1
		{"all zero scores", []ragModel.VectorMatch{match("a", 0), match("b", 0)}, 0.1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := rag.ScoreConfidence(tc.matches)
			if !almostEqual(got, tc.want) {
				t.Errorf("ScoreConfidence = %v, want %v", got, tc.want)
			}
		})
	}
}

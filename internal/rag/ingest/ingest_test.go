package ingest_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/chunker"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/ingest"
)

type mockEmbedder struct {
	batchFunc func(ctx context.Context, texts []string, domain ragModel.KnowledgeDomain) ([][]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, text string, domain ragModel.KnowledgeDomain) ([]float32, int, error) {
	return []float32{0.1}, 1, nil
}

func (m *mockEmbedder) BatchEmbedding(ctx context.Context, texts []string, domain ragModel.KnowledgeDomain) ([][]float32, error) {
	return m.batchFunc(ctx, texts, domain)
}

type mockStore struct {
	ensured    []string
	upserts    [][]ragModel.Chunk
	upsertFunc func(ctx context.Context, namespace string, chunks []ragModel.Chunk, vectors [][]float32) error
}

func (m *mockStore) Query(ctx context.Context, vector []float32, topK int, namespace string, filters ragModel.QueryFilters, minScore float64) ([]ragModel.VectorMatch, error) {
	return nil, nil
}

func (m *mockStore) UpsertBatch(ctx context.Context, namespace string, chunks []ragModel.Chunk, vectors [][]float32) error {
	m.upserts = append(m.upserts, chunks)
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, namespace, chunks, vectors)
	}
	return nil
}

func (m *mockStore) DeleteByDocument(ctx context.Context, namespace string, documentId string) error {
	return nil
}

func (m *mockStore) ListNamespaces(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (m *mockStore) EnsureNamespace(ctx context.Context, namespace string) error {
	m.ensured = append(m.ensured, namespace)
	return nil
}

func testDoc(content string) ragModel.Document {
	return ragModel.Document{
		Id:      "doc-1",
		Content: content,
		Metadata: ragModel.DocumentMetadata{
			Domain:    ragModel.DomainTrading,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
}

func TestIngestDocument_SingleChunk(t *testing.T) {
	store := &mockStore{}
	embedder := &mockEmbedder{
		batchFunc: func(ctx context.Context, texts []string, domain ragModel.KnowledgeDomain) ([][]float32, error) {
			if domain != ragModel.DomainTrading {
				t.Errorf("embedder got domain %q, want trading", domain)
			}
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{0.5}
			}
			return vectors, nil
		},
	}

	count, err := ingest.IngestDocument(context.Background(), testDoc("short content"), chunker.DefaultOptions(), embedder, store)
	if err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d chunks, want 1", count)
	}
	if len(store.ensured) != 1 || store.ensured[0] != "trading" {
		t.Errorf("EnsureNamespace calls = %v, want [trading]", store.ensured)
	}
	if len(store.upserts) != 1 || len(store.upserts[0]) != 1 {
		t.Fatalf("upsert batches = %d, want one batch of one chunk", len(store.upserts))
	}
	if got := store.upserts[0][0].Id; got != "doc-1_chunk_0" {
		t.Errorf("chunk id = %q, want doc-1_chunk_0", got)
	}
}

func TestIngestDocument_BatchesLargeDocuments(t *testing.T) {
	// 250 short paragraphs with a small chunk limit produce one chunk each,
	// which must go to the store in batches of at most 100.
	paragraphs := make([]string, 250)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("word ", 8)
	}
	doc := testDoc(strings.Join(paragraphs, "\n\n"))

	opts := chunker.Options{
		MaxChunkSize:       50,
		MinChunkSize:       10,
		OverlapSize:        0,
		PreserveParagraphs: true,
		PreserveSentences:  true,
	}

	var batchSizes []int
	store := &mockStore{}
	embedder := &mockEmbedder{
		batchFunc: func(ctx context.Context, texts []string, domain ragModel.KnowledgeDomain) ([][]float32, error) {
			batchSizes = append(batchSizes, len(texts))
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{0.5}
			}
			return vectors, nil
		},
	}

	count, err := ingest.IngestDocument(context.Background(), doc, opts, embedder, store)
	if err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}
	if count != 250 {
		t.Fatalf("got %d chunks, want 250", count)
	}
	if len(batchSizes) != 3 {
		t.Fatalf("embedding batches = %v, want 3 batches", batchSizes)
	}
	for i, size := range batchSizes {
		if size > 100 {
			t.Errorf("batch %d has %d texts, want at most 100", i, size)
		}
	}
	if len(store.upserts) != len(batchSizes) {
		t.Errorf("upsert batches = %d, want %d", len(store.upserts), len(batchSizes))
	}
}

func TestIngestDocument_EmbeddingFailureAborts(t *testing.T) {
	wantErr := errors.New("embedding unavailable")
	store := &mockStore{}
	embedder := &mockEmbedder{
		batchFunc: func(ctx context.Context, texts []string, domain ragModel.KnowledgeDomain) ([][]float32, error) {
			return nil, wantErr
		},
	}

	_, err := ingest.IngestDocument(context.Background(), testDoc("some content"), chunker.DefaultOptions(), embedder, store)
	if !errors.Is(err, wantErr) {
		t.Fatalf("got error %v, want wrapped %v", err, wantErr)
	}
	if len(store.upserts) != 0 {
		t.Errorf("store received %d upserts after embedding failure, want none", len(store.upserts))
	}
}

func TestExtractFile_UnsupportedType(t *testing.T) {
	if _, err := ingest.ExtractFile("report.xlsx"); err == nil {
		t.Fatal("expected error for unsupported file type")
	}
}

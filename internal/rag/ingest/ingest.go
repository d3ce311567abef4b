package ingest

import (
	"context"
	"fmt"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/chunker"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/embedding"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/vectorDB"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
)

var logger = logger_i.NewLogger("Ingestion")

// IngestDocument chunks the document, embeds the chunks in batches and writes
// them to the namespace of the document's domain. Returns how many chunks the
// document produced. Chunk ids are deterministic, so re-ingesting the same
// document overwrites its earlier points instead of duplicating them.
func IngestDocument(ctx context.Context, doc ragModel.Document, opts chunker.Options, embedder embedding.Embedder, store vectorDB.DataProcessor) (int, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", doc.Id)

	chunks := chunker.ChunkDocument(doc, opts)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %s produced no chunks", doc.Id)
	}
	log.Debug("document chunked", "chunks", len(chunks))

	namespace := string(doc.Metadata.Domain)
	if err := store.EnsureNamespace(ctx, namespace); err != nil {
		return 0, fmt.Errorf("ensuring namespace %s: %w", namespace, err)
	}

	for i := 0; i < len(chunks); i += config.EmbeddingBatchSize {
		end := i + config.EmbeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		texts := make([]string, len(batch))
		for j, c := range batch {
			texts[j] = c.Content
		}

		vectors, err := embedder.BatchEmbedding(ctx, texts, doc.Metadata.Domain)
		if err != nil {
			return 0, fmt.Errorf("embedding batch starting at chunk %d: %w", i, err)
		}

		if err := store.UpsertBatch(ctx, namespace, batch, vectors); err != nil {
			return 0, fmt.Errorf("upserting batch starting at chunk %d: %w", i, err)
		}
		log.Debug("batch upserted", "from", i, "to", end)
	}

	return len(chunks), nil
}

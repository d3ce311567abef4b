package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/metrics"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/chunker"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/embedding"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/ingest"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/llm"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/vectorDB"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
)

// Service is the query-and-ingestion pipeline controller. One instance is
// explicitly constructed and injected into its callers, so tests can swap
// every collaborator for a double and multiple pipelines can coexist.
type Service interface {
	Query(ctx context.Context, rawQuery string, domainOverride ragModel.KnowledgeDomain) (ragModel.RAGResponse, error)
	AddDocument(ctx context.Context, doc ragModel.Document) error
	UpdateDocument(ctx context.Context, id string, content string, metadata ragModel.DocumentMetadata) error
	RemoveDocument(ctx context.Context, id string, domain ragModel.KnowledgeDomain) error
	GetStatus(ctx context.Context) ragModel.ServiceStatus
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	registry    ragModel.DocumentRegistry
	chunkOpts   chunker.Options
	topK        int
	minScore    float64
	logger      *logger_i.Logger
}

// NewService constructor. Pipeline-wide retrieval defaults come from config;
// chunking options follow chunker.DefaultOptions.
func NewService(vector vectorDB.DataProcessor, provider llm.Provider, em embedding.Embedder, registry ragModel.DocumentRegistry) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: provider,
		embedder:    em,
		registry:    registry,
		chunkOpts:   chunker.DefaultOptions(),
		topK:        config.DefaultTopK,
		minScore:    config.DefaultMinScore,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

// Query runs the three pipeline stages strictly in sequence. Any stage error
// aborts the whole request; there is no partial result and no retry here.
func (s *service) Query(ctx context.Context, rawQuery string, domainOverride ragModel.KnowledgeDomain) (ragModel.RAGResponse, error) {
	start := time.Now()
	defer func() { metrics.CapturePipelineMetrics("query", time.Since(start)) }()
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if rawQuery == "" {
		return ragModel.RAGResponse{}, errors.New("empty query")
	}

	semantic, err := s.executeQueryProcessingStep(ctx, log, rawQuery, domainOverride)
	if err != nil {
		return ragModel.RAGResponse{}, fmt.Errorf("query processing stage: %w", err)
	}

	matches, err := s.executeRetrievalStep(ctx, log, semantic)
	if err != nil {
		return ragModel.RAGResponse{}, fmt.Errorf("retrieval stage: %w", err)
	}

	answer, err := s.executeGenerationStep(ctx, log, rawQuery, semantic, matches)
	if err != nil {
		return ragModel.RAGResponse{}, fmt.Errorf("generation stage: %w", err)
	}

	return ragModel.RAGResponse{
		Answer:         answer,
		Sources:        matches,
		Confidence:     ScoreConfidence(matches),
		ProcessingTime: time.Since(start),
		Metadata: ragModel.ResponseMetadata{
			OriginalQuery: rawQuery,
			SemanticQuery: semantic,
			TotalMatches:  len(matches),
		},
	}, nil
}

func (s *service) AddDocument(ctx context.Context, doc ragModel.Document) error {
	start := time.Now()
	defer func() { metrics.CapturePipelineMetrics("ingestion", time.Since(start)) }()
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", doc.Id)

	if doc.Id == "" || doc.Content == "" {
		return errors.New("document needs an id and non-empty content")
	}
	if doc.Metadata.Domain == "" {
		return errors.New("document metadata must carry a domain")
	}
	if !ragModel.IsValidDomain(string(doc.Metadata.Domain)) {
		return fmt.Errorf("unknown domain %q", doc.Metadata.Domain)
	}

	chunkCount, err := ingest.IngestDocument(ctx, doc, s.chunkOpts, s.embedder, s.vectorDB)
	if err != nil {
		log.Error("document ingestion failed", "error", err)
		return err
	}

	record := ragModel.DocumentRecord{
		Id:          doc.Id,
		Domain:      doc.Metadata.Domain,
		Source:      doc.Metadata.Source,
		ContentType: doc.Metadata.ContentType,
		ChunkCount:  chunkCount,
		IngestedAt:  time.Now(),
	}
	if err := s.registry.SaveDocument(ctx, record); err != nil {
		// Vectors are in; a stale registry only skews stats.
		log.Error("failed to record document in registry", "error", err)
	}
	log.Info("document ingested", "chunks", chunkCount)
	return nil
}

func (s *service) UpdateDocument(ctx context.Context, id string, content string, metadata ragModel.DocumentMetadata) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", id)

	// Chunk counts can shrink between versions, so stale points are removed
	// before the re-ingest rather than relying on id overwrite alone.
	if previous, found := s.registry.GetDocument(ctx, id); found {
		if err := s.vectorDB.DeleteByDocument(ctx, string(previous.Domain), id); err != nil {
			return fmt.Errorf("removing stale vectors: %w", err)
		}
	}

	metadata.UpdatedAt = time.Now()
	if metadata.CreatedAt.IsZero() {
		metadata.CreatedAt = metadata.UpdatedAt
	}
	log.Debug("re-ingesting updated document")
	return s.AddDocument(ctx, ragModel.Document{Id: id, Content: content, Metadata: metadata})
}

func (s *service) RemoveDocument(ctx context.Context, id string, domain ragModel.KnowledgeDomain) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", id)

	if domain == "" {
		if record, found := s.registry.GetDocument(ctx, id); found {
			domain = record.Domain
		} else {
			domain = ragModel.KnowledgeDomain(config.DefaultNamespace)
		}
	}

	if err := s.vectorDB.DeleteByDocument(ctx, string(domain), id); err != nil {
		return err
	}
	if err := s.registry.DeleteDocument(ctx, id); err != nil {
		log.Error("failed to drop registry record", "error", err)
	}
	log.Info("document removed", "domain", string(domain))
	return nil
}

func (s *service) GetStatus(ctx context.Context) ragModel.ServiceStatus {
	status := ragModel.ServiceStatus{
		IsReady: true,
		Health:  "ok",
		Stats:   ragModel.ServiceStats{DomainCounts: map[string]int64{}},
	}

	// Both collaborators are probed even when the first one fails, so the
	// health string names every dependency that is down.
	var degraded []string
	namespaces, err := s.vectorDB.ListNamespaces(ctx)
	if err != nil {
		degraded = append(degraded, "vector store unreachable")
		status.IsReady = false
	}
	status.Stats.Namespaces = namespaces

	records, err := s.registry.ListDocuments(ctx)
	if err != nil {
		degraded = append(degraded, "document registry unreachable")
	} else {
		status.Stats.DocumentCount = int64(len(records))
		for _, r := range records {
			status.Stats.DomainCounts[string(r.Domain)]++
		}
	}

	if len(degraded) > 0 {
		status.Health = "degraded: " + strings.Join(degraded, ", ")
	}
	return status
}

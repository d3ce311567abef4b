package qdrantDB

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/vectorDB"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

var dimension = uint64(config.EmbeddingDimensionality)

type ClientHolder struct {
	qObj   *qdrant.Client
	logger *logger_i.Logger
}

// NewQdrantStore connects to Qdrant and closes the connection when ctx is
// cancelled. Namespaces map to collections carrying config.NamespacePrefix.
func NewQdrantStore(ctx context.Context) (vectorDB.DataProcessor, error) {
	logger := logger_i.NewLogger("Qdrant")

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))
	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate qdrant client", "error", err)
		return nil, err
	}

	holder := &ClientHolder{qObj: client, logger: logger}
	if err := holder.EnsureNamespace(ctx, config.DefaultNamespace); err != nil {
		logger.Error("could not create default namespace", "error", err)
		return nil, err
	}
	go holder.closeOnDone(ctx)
	return holder, nil
}

func (db *ClientHolder) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	db.logger.Info("Shutting down Qdrant")
	if err := db.qObj.Close(); err != nil {
		db.logger.Error("could not close Qdrant", "error", err)
	}
}

func collectionFor(namespace string) string {
	if namespace == "" {
		namespace = config.DefaultNamespace
	}
	return config.NamespacePrefix + namespace
}

// pointIdFor derives a stable UUID from the deterministic chunk id, so
// re-ingesting the same document overwrites its previous points.
func pointIdFor(chunkId string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkId)).String()
}

func (db *ClientHolder) Query(ctx context.Context, vector []float32, topK int, namespace string, filters ragModel.QueryFilters, minScore float64) ([]ragModel.VectorMatch, error) {
	log := db.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	query := &qdrant.QueryPoints{
		CollectionName: collectionFor(namespace),
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         buildFilter(filters),
	}
	if minScore > 0 {
		query.ScoreThreshold = qdrant.PtrOf(float32(minScore))
	}

	result, err := db.qObj.Query(ctx, query)
	if err != nil {
		log.Error("qdrant query failed", "namespace", namespace, "error", err)
		return nil, fmt.Errorf("qdrant query: %w", err)
	}

	matches := make([]ragModel.VectorMatch, 0, len(result))
	for _, hit := range result {
		matches = append(matches, ragModel.VectorMatch{
			Id:      hit.Payload["chunk_id"].GetStringValue(),
			Score:   float64(hit.Score),
			Content: hit.Payload["content"].GetStringValue(),
			Metadata: map[string]string{
				"document_id":  hit.Payload["document_id"].GetStringValue(),
				"domain":       hit.Payload["domain"].GetStringValue(),
				"source":       hit.Payload["source"].GetStringValue(),
				"content_type": hit.Payload["content_type"].GetStringValue(),
				"chunk_index":  strconv.FormatInt(hit.Payload["chunk_index"].GetIntegerValue(), 10),
			},
		})
	}
	log.Debug("qdrant query done", "namespace", namespace, "matches", len(matches))
	return matches, nil
}

// buildFilter maps non-empty filter fields to qdrant payload conditions. The
// domain never appears here; it selects the collection instead.
func buildFilter(filters ragModel.QueryFilters) *qdrant.Filter {
	if filters.IsEmpty() {
		return nil
	}

	var must []*qdrant.Condition
	if len(filters.Tags) > 0 {
		must = append(must, qdrant.NewMatchKeywords("tags", filters.Tags...))
	}
	if filters.Source != "" {
		must = append(must, qdrant.NewMatch("source", filters.Source))
	}
	if filters.ContentType != "" {
		must = append(must, qdrant.NewMatch("content_type", filters.ContentType))
	}
	if !filters.DateRange.IsZero() {
		r := &qdrant.Range{}
		if !filters.DateRange.Start.IsZero() {
			r.Gte = qdrant.PtrOf(float64(filters.DateRange.Start.Unix()))
		}
		if !filters.DateRange.End.IsZero() {
			r.Lte = qdrant.PtrOf(float64(filters.DateRange.End.Unix()))
		}
		must = append(must, qdrant.NewRange("created_at", r))
	}
	return &qdrant.Filter{Must: must}
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, namespace string, chunks []ragModel.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		tags := make([]any, len(chunk.Metadata.Tags))
		for j, t := range chunk.Metadata.Tags {
			tags[j] = t
		}
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(pointIdFor(chunk.Id)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"chunk_id":     chunk.Id,
				"content":      chunk.Content,
				"chunk_index":  chunk.ChunkIndex,
				"total_chunks": chunk.TotalChunks,
				"document_id":  documentIdOf(chunk.Id),
				"domain":       string(chunk.Metadata.Domain),
				"source":       chunk.Metadata.Source,
				"content_type": chunk.Metadata.ContentType,
				"tags":         tags,
				"created_at":   chunk.Metadata.CreatedAt.Unix(),
				"updated_at":   chunk.Metadata.UpdatedAt.Unix(),
			}),
		}
	}

	_, err := db.qObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionFor(namespace),
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}

// documentIdOf strips the deterministic chunk suffix.
func documentIdOf(chunkId string) string {
	if i := strings.LastIndex(chunkId, "_chunk_"); i > 0 {
		return chunkId[:i]
	}
	return chunkId
}

func (db *ClientHolder) DeleteByDocument(ctx context.Context, namespace string, documentId string) error {
	log := db.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	_, err := db.qObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionFor(namespace),
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("document_id", documentId)},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		log.Error("qdrant delete failed", "documentId", documentId, "error", err)
		return fmt.Errorf("qdrant delete: %w", err)
	}
	return nil
}

func (db *ClientHolder) ListNamespaces(ctx context.Context) ([]string, error) {
	collections, err := db.qObj.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("qdrant list collections: %w", err)
	}

	var namespaces []string
	for _, c := range collections {
		if strings.HasPrefix(c, config.NamespacePrefix) {
			namespaces = append(namespaces, strings.TrimPrefix(c, config.NamespacePrefix))
		}
	}
	return namespaces, nil
}

func (db *ClientHolder) EnsureNamespace(ctx context.Context, namespace string) error {
	name := collectionFor(namespace)

	exists, err := db.qObj.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return db.qObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

package ragModel

import (
	"fmt"
	"time"
)

type KnowledgeDomain string

// The closed set of knowledge domains. A domain maps 1:1 to a vector store
// namespace, so adding one here means the store grows a namespace on first
// ingest.
const (
	DomainGeneral   KnowledgeDomain = "general"
	DomainTrading   KnowledgeDomain = "trading"
	DomainInstagram KnowledgeDomain = "instagram"
	DomainFitness   KnowledgeDomain = "fitness"
)

func AllDomains() []KnowledgeDomain {
	return []KnowledgeDomain{DomainGeneral, DomainTrading, DomainInstagram, DomainFitness}
}

func IsValidDomain(d string) bool {
	for _, known := range AllDomains() {
		if string(known) == d {
			return true
		}
	}
	return false
}

// DocumentMetadata carries the fixed fields every document must have plus one
// open-ended Extra map for domain specific key/values.
type DocumentMetadata struct {
	Domain      KnowledgeDomain   `json:"domain"`
	Source      string            `json:"source,omitempty"`
	ContentType string            `json:"content_type,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Extra       map[string]string `json:"extra,omitempty"`
}

type Document struct {
	Id       string           `json:"id"`
	Content  string           `json:"content"`
	Metadata DocumentMetadata `json:"metadata"`
}

// Chunk is a derived, transient slice of a document. It is never persisted as
// its own entity; the vector store payload is the system of record.
type Chunk struct {
	Id          string           `json:"id"`
	Content     string           `json:"content"`
	ChunkIndex  int              `json:"chunk_index"`
	TotalChunks int              `json:"total_chunks"`
	Metadata    DocumentMetadata `json:"metadata"`
}

// ChunkId derives the deterministic id for chunk i of a document.
func ChunkId(docId string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", docId, index)
}

type DateRange struct {
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

type QueryFilters struct {
	Domain      KnowledgeDomain `json:"domain,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Source      string          `json:"source,omitempty"`
	ContentType string          `json:"content_type,omitempty"`
	DateRange   DateRange       `json:"date_range,omitempty"`
}

// IsEmpty reports whether no payload-level constraint is set. The domain is
// excluded on purpose: it selects the namespace, not a payload filter.
func (f QueryFilters) IsEmpty() bool {
	return len(f.Tags) == 0 && f.Source == "" && f.ContentType == "" && f.DateRange.IsZero()
}

// SemanticQuery is the processed form of a user question, ready for retrieval.
type SemanticQuery struct {
	Query    string       `json:"query"`
	Filters  QueryFilters `json:"filters"`
	TopK     int          `json:"top_k"`
	MinScore float64      `json:"min_score"`
}

type VectorMatch struct {
	Id       string            `json:"id"`
	Score    float64           `json:"score"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type ResponseMetadata struct {
	OriginalQuery string        `json:"original_query"`
	SemanticQuery SemanticQuery `json:"semantic_query"`
	TotalMatches  int           `json:"total_matches"`
}

type RAGResponse struct {
	Answer         string           `json:"answer"`
	Sources        []VectorMatch    `json:"sources"`
	Confidence     float64          `json:"confidence"`
	ProcessingTime time.Duration    `json:"processing_time"`
	Metadata       ResponseMetadata `json:"metadata"`
}

// ServiceStatus is the envelope returned by GetStatus.
type ServiceStatus struct {
	IsReady bool         `json:"is_ready"`
	Health  string       `json:"health"`
	Stats   ServiceStats `json:"stats"`
}

type ServiceStats struct {
	DocumentCount int64            `json:"document_count"`
	DomainCounts  map[string]int64 `json:"domain_counts,omitempty"`
	Namespaces    []string         `json:"namespaces,omitempty"`
}

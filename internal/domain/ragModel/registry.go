package ragModel

import (
	"context"
	"time"
)

// DocumentRecord is the registry's view of an ingested document: enough to
// answer status queries and to locate the document's vectors for removal.
type DocumentRecord struct {
	Id          string          `json:"id"`
	Domain      KnowledgeDomain `json:"domain"`
	Source      string          `json:"source,omitempty"`
	ContentType string          `json:"content_type,omitempty"`
	ChunkCount  int             `json:"chunk_count"`
	IngestedAt  time.Time       `json:"ingested_at"`
}

type DocumentRegistry interface {
	SaveDocument(ctx context.Context, record DocumentRecord) error
	GetDocument(ctx context.Context, id string) (DocumentRecord, bool)
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context) ([]DocumentRecord, error)
}

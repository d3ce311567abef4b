package api

import "time"

// requests---------------------

type QueryRequest struct {
	Query string `json:"query" validate:"required"`
	// Optional domain hint; when set it overrides whatever the model infers.
	Domain string `json:"domain,omitempty"`
}

type AddDocumentRequest struct {
	Id          string            `json:"id" validate:"required"`
	Content     string            `json:"content" validate:"required"`
	Domain      string            `json:"domain" validate:"required"`
	Source      string            `json:"source,omitempty"`
	ContentType string            `json:"content_type,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

type UpdateDocumentRequest struct {
	Content     string            `json:"content" validate:"required"`
	Domain      string            `json:"domain" validate:"required"`
	Source      string            `json:"source,omitempty"`
	ContentType string            `json:"content_type,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// responses--------------------

type QueryResponse struct {
	Answer           string        `json:"answer"`
	Sources          []SourceView  `json:"sources"`
	Confidence       float64       `json:"confidence" example:"0.93"`
	ProcessingTimeMs int64         `json:"processing_time_ms" example:"1240"`
	Metadata         QueryMetadata `json:"metadata"`
}

type SourceView struct {
	Id       string            `json:"id" example:"doc-42_chunk_0"`
	Score    float64           `json:"score" example:"0.87"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type QueryMetadata struct {
	OriginalQuery string `json:"original_query"`
	SemanticQuery string `json:"semantic_query"`
	Domain        string `json:"domain,omitempty"`
	TotalMatches  int    `json:"total_matches"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type Result struct {
	Status     string `json:"status" example:"COMPLETE"`
	DocumentId string `json:"document_id,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type DocumentView struct {
	Id          string    `json:"id"`
	Domain      string    `json:"domain"`
	Source      string    `json:"source,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	ChunkCount  int       `json:"chunk_count"`
	IngestedAt  time.Time `json:"ingested_at"`
}

type DocumentListResponse struct {
	Documents []DocumentView `json:"documents"`
	Total     int            `json:"total"`
}

type StatusResponse struct {
	IsReady       bool             `json:"is_ready"`
	Health        string           `json:"health"`
	DocumentCount int64            `json:"document_count"`
	DomainCounts  map[string]int64 `json:"domain_counts,omitempty"`
	Namespaces    []string         `json:"namespaces,omitempty"`
}

package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type QueryInput struct {
	Query  string `json:"query" jsonschema:"the question to ask the knowledge base"`
	Domain string `json:"domain,omitempty" jsonschema:"optional knowledge domain (general, trading, instagram, fitness)"`
}

type QueryOutput struct {
	Answer     string       `json:"answer"`
	Confidence float64      `json:"confidence"`
	Sources    []SourceItem `json:"sources"`
}

type SourceItem struct {
	Id      string  `json:"id"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}

type AddDocumentInput struct {
	Id      string   `json:"id" jsonschema:"unique document id"`
	Content string   `json:"content" jsonschema:"the document body to index"`
	Domain  string   `json:"domain" jsonschema:"knowledge domain the document belongs to"`
	Source  string   `json:"source,omitempty" jsonschema:"where the document came from"`
	Tags    []string `json:"tags,omitempty" jsonschema:"optional tags for filtering"`
}

type AddDocumentOutput struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

type ListDocumentsInput struct{}

type ListDocumentsOutput struct {
	Documents []DocumentItem `json:"documents"`
	Count     int            `json:"count"`
}

type DocumentItem struct {
	Id         string `json:"id"`
	Domain     string `json:"domain"`
	ChunkCount int    `json:"chunk_count"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "knowledge_query",
		Description: "Ask the knowledge base a question and get an answer with sources",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_document",
		Description: "Index a new document into the knowledge base",
	}, s.handleAddDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all indexed documents",
	}, s.handleListDocuments)
}

func (s *Server) handleQuery(ctx context.Context, _ *mcp.CallToolRequest, input QueryInput) (*mcp.CallToolResult, QueryOutput, error) {
	if input.Domain != "" && !ragModel.IsValidDomain(input.Domain) {
		return nil, QueryOutput{}, fmt.Errorf("unknown domain %q", input.Domain)
	}

	response, err := s.rag.Query(ctx, input.Query, ragModel.KnowledgeDomain(input.Domain))
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Answer:     response.Answer,
		Confidence: response.Confidence,
		Sources:    make([]SourceItem, len(response.Sources)),
	}
	for i, src := range response.Sources {
		output.Sources[i] = SourceItem{Id: src.Id, Score: src.Score, Content: src.Content}
	}
	return nil, output, nil
}

func (s *Server) handleAddDocument(ctx context.Context, _ *mcp.CallToolRequest, input AddDocumentInput) (*mcp.CallToolResult, AddDocumentOutput, error) {
	now := time.Now()
	doc := ragModel.Document{
		Id:      input.Id,
		Content: input.Content,
		Metadata: ragModel.DocumentMetadata{
			Domain:    ragModel.KnowledgeDomain(input.Domain),
			Source:    input.Source,
			Tags:      input.Tags,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.rag.AddDocument(ctx, doc); err != nil {
		return nil, AddDocumentOutput{}, err
	}
	return nil, AddDocumentOutput{Id: input.Id, Status: "indexed"}, nil
}

func (s *Server) handleListDocuments(ctx context.Context, _ *mcp.CallToolRequest, _ ListDocumentsInput) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.registry == nil {
		return nil, ListDocumentsOutput{Documents: []DocumentItem{}}, nil
	}

	records, err := s.registry.ListDocuments(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, fmt.Errorf("listing documents: %w", err)
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentItem, len(records)),
		Count:     len(records),
	}
	for i, r := range records {
		output.Documents[i] = DocumentItem{
			Id:         r.Id,
			Domain:     string(r.Domain),
			ChunkCount: r.ChunkCount,
		}
	}
	return nil, output, nil
}

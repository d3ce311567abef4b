package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "0.1.0"

var ErrMissingRAGService = errors.New("mcpserver: rag service is required")

// Server exposes the knowledge pipeline over the Model Context Protocol so
// MCP-capable assistants can query and feed the knowledge base directly.
type Server struct {
	rag      rag.Service
	registry ragModel.DocumentRegistry
	server   *mcp.Server
}

func NewServer(ragService rag.Service, registry ragModel.DocumentRegistry) (*Server, error) {
	if ragService == nil {
		return nil, ErrMissingRAGService
	}

	impl := &mcp.Implementation{
		Name:    "knowledge-base",
		Version: Version,
	}

	s := &Server{
		rag:      ragService,
		registry: registry,
		server:   mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/data/store"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/mcpserver"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/embedding/openaiEmbedding"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/llm"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/llm/gemini"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/llm/openaiLLM"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/vectorDB/qdrantDB"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
)

// Serves the knowledge pipeline over MCP. Stdio by default for assistant
// integrations; -http-addr switches to the streamable HTTP transport.
func main() {
	logger_i.Init()
	logger := logger_i.NewLogger("mcp-main")

	var httpAddr string
	flag.StringVar(&httpAddr, "http-addr", "", "serve MCP over HTTP on this address instead of stdio")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
		<-shutdown
		cancel()
	}()

	var registry ragModel.DocumentRegistry
	if redisRegistry := store.GetRedisDocumentRegistry(ctx); redisRegistry != nil {
		registry = redisRegistry
	} else {
		logger.Error("Redis is offline, using in-memory document registry")
		registry = store.InitInMemoryDocumentRegistry()
	}

	vectorDB, err := qdrantDB.NewQdrantStore(ctx)
	if err != nil {
		logger.Error("Vector store failed to initialize", "error", err)
		os.Exit(1)
	}

	embeddingService, err := openaiEmbedding.NewOpenAIEmbedder(config.OpenAIAPIKey, config.OpenAIEmbeddingModel)
	if err != nil {
		logger.Error("Embedding gateway failed to initialize", "error", err)
		os.Exit(1)
	}

	llmProvider, err := completionProvider(ctx)
	if err != nil {
		logger.Error("Completion gateway failed to initialize", "error", err)
		os.Exit(1)
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, registry)

	mcpServer, err := mcpserver.NewServer(ragService, registry)
	if err != nil {
		logger.Error("MCP server failed to initialize", "error", err)
		os.Exit(1)
	}

	if httpAddr != "" {
		fmt.Fprintf(os.Stderr, "MCP server listening on http://localhost%s\n", httpAddr)
		err = mcpServer.RunHTTP(ctx, httpAddr)
	} else {
		err = mcpServer.Run(ctx)
	}
	if err != nil {
		logger.Error("MCP server stopped with error", "error", err)
		os.Exit(1)
	}
}

func completionProvider(ctx context.Context) (llm.Provider, error) {
	provider := os.Getenv("COMPLETION_PROVIDER")
	if provider == "" {
		provider = config.CompletionProvider
	}

	if provider == "gemini" {
		return gemini.NewGeminiProvider(ctx, config.GeminiAPIKey, config.GeminiModelName)
	}
	return openaiLLM.NewOpenAIProvider(config.OpenAIAPIKey, config.OpenAIChatModel)
}

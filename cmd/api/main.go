// @title           Knowledge Base RAG API
// @version         1.0
// @description     Query-and-ingestion pipeline over a multi-domain knowledge base.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/data/store"
	jobmodel "github.com/goktugoner23/allinone-external-sub002/internal/domain/jobModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/handlers"
	"github.com/goktugoner23/allinone-external-sub002/internal/job"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/embedding/openaiEmbedding"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/llm"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/llm/gemini"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/llm/openaiLLM"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/vectorDB/qdrantDB"
	"github.com/goktugoner23/allinone-external-sub002/internal/server"
	"github.com/goktugoner23/allinone-external-sub002/internal/worker"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}

	var registry ragModel.DocumentRegistry
	redisJobs := store.GetRedisJobStore(serviceContext)
	redisRegistry := store.GetRedisDocumentRegistry(serviceContext)
	if redisJobs == nil || redisRegistry == nil {
		if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
			logger.Error("Redis stores are offline and the in-memory fallback is disabled")
			return
		}
		logger.Error("Redis stores are offline, falling back to in-memory stores")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		registry = store.InitInMemoryDocumentRegistry()
	} else {
		serviceConfig.JobStore = redisJobs
		registry = redisRegistry
	}
	service := job.InitJobService(serviceConfig)

	vectorDB, err := qdrantDB.NewQdrantStore(serviceContext)
	if err != nil {
		logger.Error("Vector store failed to initialize, shutting down", "error", err)
		return
	}

	embeddingService, err := openaiEmbedding.NewOpenAIEmbedder(config.OpenAIAPIKey, config.OpenAIEmbeddingModel)
	if err != nil {
		logger.Error("Embedding gateway failed to initialize, shutting down", "error", err)
		return
	}

	llmProvider, err := completionProvider(serviceContext)
	if err != nil {
		logger.Error("Completion gateway failed to initialize, shutting down", "error", err)
		return
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, registry)

	handlers.InitHandlers(service, ragService, registry)

	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

// completionProvider picks the chat backend. COMPLETION_PROVIDER in the
// environment overrides the compiled-in default.
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

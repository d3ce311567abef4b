package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5
	NoAuthBypass                    = true //local dev only, flip for any deployed environment

	//retrieval defaults applied to every SemanticQuery
	DefaultTopK                   = 5
	DefaultMinScore               = 0.7
	DefaultNamespace              = "general"
	NamespacePrefix               = "knowledge-" //qdrant collection name per domain
	NoMatchConfidence             = 0.1
	MaxContextChars               = 4000 //shared character budget across all matches in one generation call
	EmbeddingDimensionality int32 = 1536

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second //query pipeline makes three upstream calls
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//ingestion jobs buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1

	//chunking
	MaxChunkSize = 1000
	MinChunkSize = 200
	OverlapSize  = 100

	//embedding batching
	EmbeddingBatchSize = 100

	//completion gateway
	CompletionProvider           = "openai" //or "gemini"
	OpenAIChatModel              = "gpt-4o-mini"
	OpenAIEmbeddingModel         = "text-embedding-3-small"
	GeminiModelName              = "gemini-2.5-flash-lite-preview-09-2025"
	ModelTemperature     float32 = 0.3
	ModelContext                 = "You are a knowledge assistant. Answer only from the provided context. If the context does not contain the answer, say you don't know."

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DBs we can use
	RedisJobStore         = 0
	RedisDocumentRegistry = 1

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
)

// Secrets come from the environment, never from this file.
var (
	AuthToken    = os.Getenv("API_AUTH_TOKEN")
	OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
)

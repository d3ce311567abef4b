package redisStore

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

var (
	instances = make(map[int]*Store)
	mu        sync.RWMutex
	logger    *logger_i.Logger
	once      sync.Once
)

// Store wraps one redis logical database. Instances are cached per DB number
// and all closed together when the root context is cancelled.
type Store struct {
	client *redis.Client
	Type   int
}

func GetRedisStore(ctx context.Context, dbType int) *Store {
	mu.RLock()
	instance, exists := instances[dbType]
	mu.RUnlock()

	if exists {
		return instance
	}

	mu.Lock()
	defer mu.Unlock()

	if instance, exists = instances[dbType]; exists {
		return instance
	}
	return createNewStore(ctx, dbType)
}

func initLogger() {
	if logger == nil {
		logger = logger_i.NewLogger("Redis Store")
	}
}

func closeRedisStores(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing Redis Stores")
	mu.Lock()
	defer mu.Unlock()
	for _, store := range instances {
		if err := store.client.Close(); err != nil {
			logger.Error("Error closing redis client", "error", err)
		}
	}
}

func createNewStore(ctx context.Context, dbType int) *Store {
	initLogger()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = config.RedisAddr
	}
	newClient := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              config.RedisPassword,
		DB:                    dbType,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := newClient.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis is offline", "db", dbType, "error", err)
		return nil
	}
	logger.Info("Redis store ready", "db", dbType)

	newStore := &Store{
		client: newClient,
		Type:   dbType,
	}

	instances[dbType] = newStore
	once.Do(func() {
		go closeRedisStores(ctx)
	})
	return newStore
}

// NewTestStore wires a store around an externally created client. Tests only.
func NewTestStore(client *redis.Client) *Store {
	initLogger()
	return &Store{client: client}
}

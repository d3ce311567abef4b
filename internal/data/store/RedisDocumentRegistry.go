package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/data/redisStore"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
)

const registryHashKey = "documents"

// RedisDocumentRegistry keeps one hash with a field per document id. The
// registry is bookkeeping next to the vector store, not the system of record.
type RedisDocumentRegistry struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentRegistry(ctx context.Context) *RedisDocumentRegistry {
	internal := redisStore.GetRedisStore(ctx, config.RedisDocumentRegistry)
	if internal == nil {
		return nil
	}
	return &RedisDocumentRegistry{
		store:  internal,
		logger: logger_i.NewLogger("DocumentRegistry"),
	}
}

func (r *RedisDocumentRegistry) SaveDocument(ctx context.Context, record ragModel.DocumentRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.store.HashSet(ctx, registryHashKey, record.Id, data)
}

func (r *RedisDocumentRegistry) GetDocument(ctx context.Context, id string) (ragModel.DocumentRecord, bool) {
	var record ragModel.DocumentRecord
	val, err := r.store.HashGet(ctx, registryHashKey, id)
	if err != nil {
		return record, false
	}
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return record, false
	}
	return record, true
}

func (r *RedisDocumentRegistry) DeleteDocument(ctx context.Context, id string) error {
	return r.store.HashDel(ctx, registryHashKey, id)
}

func (r *RedisDocumentRegistry) ListDocuments(ctx context.Context) ([]ragModel.DocumentRecord, error) {
	fields, err := r.store.HashGetAll(ctx, registryHashKey)
	if err != nil {
		return nil, fmt.Errorf("listing registry: %w", err)
	}

	records := make([]ragModel.DocumentRecord, 0, len(fields))
	for id, val := range fields {
		var record ragModel.DocumentRecord
		if err := json.Unmarshal([]byte(val), &record); err != nil {
			r.logger.Error("skipping corrupt registry entry", "documentId", id, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func TestDocumentRegistry(store *redisStore.Store) *RedisDocumentRegistry {
	return &RedisDocumentRegistry{
		store:  store,
		logger: logger_i.NewLogger("test registry"),
	}
}

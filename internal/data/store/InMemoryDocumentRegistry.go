package store

import (
	"context"
	"sync"

	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
)

type InMemoryDocumentRegistry struct {
	mutex   *sync.RWMutex
	records map[string]ragModel.DocumentRecord
}

func InitInMemoryDocumentRegistry() *InMemoryDocumentRegistry {
	return &InMemoryDocumentRegistry{
		mutex:   new(sync.RWMutex),
		records: make(map[string]ragModel.DocumentRecord),
	}
}

func (r *InMemoryDocumentRegistry) SaveDocument(ctx context.Context, record ragModel.DocumentRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.records[record.Id] = record
	return nil
}

func (r *InMemoryDocumentRegistry) GetDocument(ctx context.Context, id string) (ragModel.DocumentRecord, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	record, found := r.records[id]
	return record, found
}

func (r *InMemoryDocumentRegistry) DeleteDocument(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.records, id)
	return nil
}

func (r *InMemoryDocumentRegistry) ListDocuments(ctx context.Context) ([]ragModel.DocumentRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	records := make([]ragModel.DocumentRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	return records, nil
}

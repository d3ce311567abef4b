package store

import (
	"context"
	"sync"

	"github.com/goktugoner23/allinone-external-sub002/internal/domain/jobModel"
)

// InMemoryJobStore is the fallback when redis is unavailable. Job state does
// not survive a restart, which is acceptable for local development.
type InMemoryJobStore struct {
	jobMutex *sync.RWMutex
	jobMap   map[string]jobModel.Job
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{
		jobMutex: new(sync.RWMutex),
		jobMap:   make(map[string]jobModel.Job),
	}
}

func (store *InMemoryJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	store.jobMap[job.Id] = job
	return nil
}

func (store *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	store.jobMutex.RLock()
	defer store.jobMutex.RUnlock()
	result, found := store.jobMap[jobId]
	return result, found
}

func (store *InMemoryJobStore) DeleteJob(ctx context.Context, jobId string) {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	delete(store.jobMap, jobId)
}

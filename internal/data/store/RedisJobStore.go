package store

import (
	"context"
	"encoding/json"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/data/redisStore"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/jobModel"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
)

type RedisJobStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisJobStore(ctx context.Context) *RedisJobStore {
	internal := redisStore.GetRedisStore(ctx, config.RedisJobStore)
	if internal == nil {
		return nil
	}
	return &RedisJobStore{
		store:  internal,
		logger: logger_i.NewLogger("JobStore"),
	}
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "jobId", job.Id)
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	// Jobs expire on their own; nothing cleans them up explicitly.
	err = s.store.Set(ctx, job.Id, data, config.RedisJobStoreTTL)
	if err == nil {
		log.Debug("saved job")
	}
	return err
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	var job jobModel.Job
	val, err := s.store.Get(ctx, jobId)
	if err != nil {
		return job, false
	}
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		return job, false
	}
	return job, true
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobId string) {
	if err := s.store.Del(ctx, jobId); err != nil {
		s.logger.Error("error deleting job", "jobId", jobId, "error", err)
	}
}

func TestJobStore(store *redisStore.Store) *RedisJobStore {
	return &RedisJobStore{
		store:  store,
		logger: logger_i.NewLogger("test job store"),
	}
}

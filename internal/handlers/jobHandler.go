package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goktugoner23/allinone-external-sub002/internal/adapter/utils"
	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/jobModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/job"
	"github.com/goktugoner23/allinone-external-sub002/internal/metrics"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
)

var (
	handlerInstance *serviceHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
	logRH           *logger_i.Logger
)

type serviceHandler struct {
	jobs     *job.Service
	rag      rag.Service
	registry ragModel.DocumentRegistry
}

func InitHandlers(jobService *job.Service, ragService rag.Service, registry ragModel.DocumentRegistry) {
	once.Do(func() {
		handlerInstance = &serviceHandler{
			jobs:     jobService,
			rag:      ragService,
			registry: registry,
		}
		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Handlers initialized")
	})
}

// enqueueIngestionJob queues the job and returns its id. The send blocks when
// the buffer is full, which is the system's natural backpressure.
func enqueueIngestionJob(jobType jobModel.JobType, payload jobModel.JobPayload, traceId string) string {
	newJob := jobModel.Job{
		Id:          utils.GetNewUUID(),
		TraceId:     traceId,
		Type:        jobType,
		Payload:     payload,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
	}

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if err := handlerInstance.jobs.JobStore.SaveJob(ctx, newJob); err != nil {
		logJH.Error("could not persist queued job", "jobId", newJob.Id, "error", err)
	}

	metrics.IncrementJobsInQueue()
	handlerInstance.jobs.JobChannel <- newJob
	logJH.Info("queued ingestion job", "jobId", newJob.Id, "type", jobType)

	// Uploads mean extraction plus batch embedding, so they get a worker of
	// their own right away. Everything else scales the pool every N requests.
	accurateCount := atomic.AddInt64(&handlerInstance.jobs.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || jobType == jobModel.JobTypeUpload {
		metrics.StartDispatcherSignalCount()
		handlerInstance.jobs.DispatcherChannel <- true
	}
	return newJob.Id
}

func GetJobStatus(id string, traceId string) (jobModel.Job, bool) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.jobs.JobStore.GetJob(ctx, id)
	}
	return jobModel.Job{}, false
}

package worker

import (
	"context"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	jobmodel "github.com/goktugoner23/allinone-external-sub002/internal/domain/jobModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/metrics"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag/ingest"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Type), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, 5*time.Minute)
	defer cancel()
	log := logger.With("traceId", job.TraceId, "jobId", job.Id)
	log.Debug("processing job", "type", job.Type)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	var err error
	switch job.Type {
	case jobmodel.JobTypeIngest:
		err = _ragService.AddDocument(ctx, job.Payload.Document)
	case jobmodel.JobTypeUpdate:
		doc := job.Payload.Document
		err = _ragService.UpdateDocument(ctx, doc.Id, doc.Content, doc.Metadata)
	case jobmodel.JobTypeUpload:
		job, err = ingestUpload(ctx, job)
	}

	job.EndTime = time.Now()
	if err != nil {
		log.Error("job failed", "error", err)
		job.Error = jobmodel.JobError{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
			Retry:   true,
		}
		saveJobState(ctx, job, jobmodel.JobStatusError)
		return
	}
	saveJobState(ctx, job, jobmodel.JobStatusComplete)
}

// ingestUpload extracts the parked upload into document content and ingests
// it like any other document. The temp file goes away either way.
func ingestUpload(ctx context.Context, job jobmodel.Job) (jobmodel.Job, error) {
	defer func() {
		if err := os.Remove(job.Payload.UploadPath); err != nil {
			logger.Error("could not remove uploaded temp file", "path", job.Payload.UploadPath, "error", err)
		}
	}()

	content, err := ingest.ExtractFile(job.Payload.UploadPath)
	if err != nil {
		return job, err
	}

	doc := job.Payload.Document
	doc.Content = content
	job.Payload.Document = doc
	return job, _ragService.AddDocument(ctx, doc)
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker", "reason", reason, "workerCount", atomic.LoadInt64(&currentWorkerCount))
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("failed to persist job state", "jobId", job.Id, "error", err)
	}
}

package jobModel

import (
	"context"
	"time"

	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
)

type JobStatus string
type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "ERROR"

	// JobTypeIngest carries the document body inline. JobTypeUpdate is the
	// same payload but replaces an existing document's vectors first.
	// JobTypeUpload points at a file on disk that still needs extraction.
	JobTypeIngest JobType = "Ingest"
	JobTypeUpdate JobType = "Update"
	JobTypeUpload JobType = "Upload"
)

type Job struct {
	Id          string     `json:"id"`
	TraceId     string     `json:"trace_id"`
	Type        JobType    `json:"type"`
	Payload     JobPayload `json:"payload"`
	Error       JobError   `json:"error,omitempty"`
	CreatedTime time.Time  `json:"created_time"`
	EndTime     time.Time  `json:"end_time,omitempty"`
	Status      JobStatus  `json:"status"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Document ragModel.Document `json:"document,omitempty"`

	// Upload jobs only: where the multipart handler parked the file.
	UploadPath string `json:"upload_path,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobId string)
}

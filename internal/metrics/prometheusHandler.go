package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_ingestion_jobs_in_queue",
	Help: "Number of ingestion jobs waiting for a worker",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start a worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active ingestion workers",
})

var pipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "rag_pipeline_duration_seconds",
	Help:    "End-to-end time of a query or ingestion run.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"pipeline"})

var jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ingestion_job_duration_seconds",
	Help:    "Wall time of a background job from pickup to completion.",
	Buckets: []float64{.5, 1, 5, 15, 30, 60, 120},
}, []string{"type"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls per pipeline stage.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"stage"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) CaptureWriteHeaderMetrics(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}

func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func CaptureExecutionMetrics(stage string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(stage).Observe(timeElapsed.Seconds())
}

func CapturePipelineMetrics(pipeline string, timeElapsed time.Duration) {
	pipelineDuration.WithLabelValues(pipeline).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(jobType string, timeElapsed time.Duration) {
	jobDuration.WithLabelValues(jobType).Observe(timeElapsed.Seconds())
}

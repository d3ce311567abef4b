package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/job"
	"github.com/goktugoner23/allinone-external-sub002/internal/metrics"
	"github.com/goktugoner23/allinone-external-sub002/internal/rag"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
)

var (
	_jobService        *job.Service
	stopWorkerChannel  chan bool
	workerWaitGroup    *sync.WaitGroup
	dispatcherChannel  chan bool
	currentWorkerCount int64
	logger             *logger_i.Logger
	_ragService        rag.Service
	minWorkerCount     = config.MinWorkerCount
)

func InitServices(jobService *job.Service, ragService rag.Service) {
	_jobService = jobService
	_ragService = ragService
	dispatcherChannel = jobService.DispatcherChannel
}

// InitWorkerPool starts the dispatcher with one worker. The pool grows on
// dispatcher signals up to MaxWorkerCount and idle workers retire themselves.
func InitWorkerPool(stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup
	logger = logger_i.NewLogger("WorkerPool")
	logger.Info("Initializing worker pool")
	go dispatcher()
}

func dispatcher() {
	createWorker()
	logger.Info("Dispatcher started")
	for range dispatcherChannel {
		if atomic.LoadInt64(&currentWorkerCount) < config.MaxWorkerCount {
			logger.Info("Creating new worker", "workerCount", atomic.LoadInt64(&currentWorkerCount))
			createWorker()
		}
	}
}

func createWorker() {
	workerWaitGroup.Add(1)
	go worker()
	atomic.AddInt64(&currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
}

func worker() {
	for {
		select {
		case currentJob := <-_jobService.JobChannel:
			executeJob(currentJob)
			metrics.DecrementJobsInQueue()

		case <-stopWorkerChannel:
			removeWorker("stop worker signal received")
			return

		case <-time.After(config.IdleWorkerTimeout):
			// Keep a floor of workers alive so queued jobs never starve.
			if atomic.LoadInt64(&currentWorkerCount) > atomic.LoadInt64(&minWorkerCount) {
				removeWorker("idle worker timeout")
				return
			}
		}
	}
}

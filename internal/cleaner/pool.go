package cleaner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"l10nminer/pkg/logger"
	"l10nminer/pkg/ratelimit"
)

// ProbeJob is one CSV row's image validation work.
type ProbeJob struct {
	RowIndex int
	IssueID  string
	CSVFile  string
	URLs     []string
}

// ProbeResult reports whether any of a row's images passed validation.
type ProbeResult struct {
	Job      ProbeJob
	Valid    bool
	Checked  int
	Duration time.Duration
}

// ImageProber validates a single image URL.
type ImageProber interface {
	Validate(url string) bool
}

// WorkerPool manages concurrent image probe workers
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan ProbeJob
	resultQueue chan ProbeResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	prober      ImageProber
	rateLimiter ratelimit.Limiter
	logger      logger.Logger
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(numWorkers int, prober ImageProber, rateLimiter ratelimit.Limiter, log logger.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan ProbeJob, numWorkers*2), // Buffer size = 2x workers
		resultQueue: make(chan ProbeResult, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		prober:      prober,
		rateLimiter: rateLimiter,
		logger:      log,
	}
}

// Start begins processing jobs
func (wp *WorkerPool) Start() {
	wp.logger.InfoWithFields("Starting probe pool", map[string]interface{}{
		"workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop gracefully shuts down the worker pool
func (wp *WorkerPool) Stop() {
	wp.logger.Debug("Stopping probe pool")

	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("Probe pool stopped")
}

// Submit adds a job to the queue
func (wp *WorkerPool) Submit(job ProbeJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Results returns the channel of completed probe results
func (wp *WorkerPool) Results() <-chan ProbeResult {
	return wp.resultQueue
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	wp.logger.DebugWithFields("Probe worker started", map[string]interface{}{
		"worker_id": id,
	})

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			wp.logger.DebugWithFields("Probe worker stopping", map[string]interface{}{
				"worker_id": id,
			})
			return
		default:
		}

		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}

	wp.logger.DebugWithFields("Probe worker finished", map[string]interface{}{
		"worker_id": id,
	})
}

// processJob validates a row's images, stopping at the first one that passes
func (wp *WorkerPool) processJob(job ProbeJob, workerID int) ProbeResult {
	start := time.Now()
	result := ProbeResult{Job: job}

	// Rows without image links fail the image rule outright.
	if len(job.URLs) == 0 {
		result.Duration = time.Since(start)
		return result
	}

	wp.logger.DebugWithFields("Worker probing row", map[string]interface{}{
		"worker_id": workerID,
		"issue_id":  job.IssueID,
		"urls":      len(job.URLs),
	})

	for _, url := range job.URLs {
		// Wait for rate limit
		if !wp.rateLimiter.Allow() {
			wp.rateLimiter.Wait()
		}

		result.Checked++
		if wp.prober.Validate(url) {
			result.Valid = true
			break
		}
	}

	result.Duration = time.Since(start)

	wp.logger.DebugWithFields("Worker finished row", map[string]interface{}{
		"worker_id": workerID,
		"issue_id":  job.IssueID,
		"valid":     result.Valid,
		"checked":   result.Checked,
		"duration":  result.Duration.String(),
	})

	return result
}

// GetQueueSize returns the current number of queued jobs
func (wp *WorkerPool) GetQueueSize() int {
	return len(wp.jobQueue)
}

// GetActiveWorkers returns the number of workers
func (wp *WorkerPool) GetActiveWorkers() int {
	return wp.numWorkers
}

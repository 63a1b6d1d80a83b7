package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"digital-banking/internal/utils"
)

var (
	ErrQueueFull       = errors.New("worker queue is full")
	ErrPoolStopped     = errors.New("worker pool is stopped")
	ErrShutdownTimeout = errors.New("worker pool shutdown timed out")
)

// Job is a unit of background work.
type Job struct {
	ID      string
	Task    func(ctx context.Context) error
	RetryOn func(error) bool // nil retries every error
	OnDone  func(error)
}

type WorkerPool struct {
	workers    int
	jobQueue   chan Job
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	stopped    bool
	stats      PoolStats
	maxRetries int
	backoff    time.Duration
}

type PoolStats struct {
	SubmittedJobs int64
	CompletedJobs int64
	FailedJobs    int64
	Workers       int
	QueuedJobs    int
}

func NewWorkerPool(workers int, queueSize int, maxRetries int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		workers:    workers,
		jobQueue:   make(chan Job, queueSize),
		ctx:        ctx,
		cancel:     cancel,
		maxRetries: maxRetries,
		backoff:    100 * time.Millisecond,
		stats:      PoolStats{Workers: workers},
	}

	utils.LogSuccess("WorkerPool", "pool created: workers=%d queue=%d retries=%d", workers, queueSize, maxRetries)

	return pool
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	utils.LogSuccess("WorkerPool", "%d workers started", p.workers)
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return

		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.executeJob(id, job)
		}
	}
}

func (p *WorkerPool) executeJob(workerID int, job Job) {
	startTime := time.Now()
	var err error

retry:
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			utils.LogWarning("WorkerPool", "worker #%d: retry #%d for job %s", workerID, attempt, job.ID)
			select {
			case <-time.After(p.backoff * time.Duration(attempt)):
			case <-p.ctx.Done():
				err = p.ctx.Err()
				break retry
			}
		}

		err = job.Task(p.ctx)
		if err == nil {
			p.mu.Lock()
			p.stats.CompletedJobs++
			p.mu.Unlock()

			utils.LogDebug("WorkerPool", "worker #%d: job %s done in %v", workerID, job.ID, time.Since(startTime))
			if job.OnDone != nil {
				job.OnDone(nil)
			}
			return
		}

		if job.RetryOn != nil && !job.RetryOn(err) {
			break retry
		}
	}

	p.mu.Lock()
	p.stats.FailedJobs++
	p.mu.Unlock()

	utils.LogError("WorkerPool", fmt.Sprintf("worker #%d: job %s failed after %v", workerID, job.ID, time.Since(startTime)), err)

	if job.OnDone != nil {
		job.OnDone(err)
	}
}

// Submit enqueues job without blocking.
func (p *WorkerPool) Submit(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.jobQueue <- job:
		p.stats.SubmittedJobs++
		return nil
	default:
		utils.LogWarning("WorkerPool", "queue full, job %s rejected", job.ID)
		return ErrQueueFull
	}
}

// Shutdown stops accepting jobs and waits for queued ones until timeout.
func (p *WorkerPool) Shutdown(timeout time.Duration) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.jobQueue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		utils.LogSuccess("WorkerPool", "all workers stopped")
		return nil

	case <-time.After(timeout):
		p.cancel()
		utils.LogWarning("WorkerPool", "shutdown timeout exceeded, cancelling workers")
		return ErrShutdownTimeout
	}
}

func (p *WorkerPool) GetStats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := p.stats
	stats.QueuedJobs = len(p.jobQueue)
	return stats
}

package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/sfcfix/pkg/document"
	"github.com/gnana997/sfcfix/pkg/transform"
	"github.com/gnana997/sfcfix/pkg/util"
)

// WorkerPool applies one transform handler to files submitted as jobs.
//
// Usage:
//
//	pool := NewWorkerPool(handler, opts, logger)
//	pool.Start(ctx)
//	for i, f := range files {
//	    pool.Submit(FileJob{FilePath: f, JobID: i})
//	}
//	pool.FinishSubmitting()
//	// drain Results() and Errors() until both are closed
//	pool.Wait()
type WorkerPool struct {
	numWorkers int
	handler    transform.Handler
	opts       Options

	jobs    chan FileJob
	results chan FileResult
	errors  chan FileError
	wg      sync.WaitGroup
	logger  *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	jobsClosed atomic.Bool
	closeOnce  sync.Once

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a pool that runs handler on every submitted file.
func NewWorkerPool(handler transform.Handler, opts Options, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}
	n := util.GetOptimalPoolSizeWithOverride(opts.Workers)

	return &WorkerPool{
		numWorkers: n,
		handler:    handler,
		opts:       opts,
		jobs:       make(chan FileJob, n*2),
		results:    make(chan FileResult, n),
		errors:     make(chan FileError, n),
		logger:     logger,
	}
}

// Start spawns the workers. Cancelling ctx stops them after their current job.
func (wp *WorkerPool) Start(ctx context.Context) {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}
	wp.ctx, wp.cancel = context.WithCancel(ctx)

	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}

	// Close the output channels once every worker has exited so consumers
	// can range over them.
	go func() {
		wp.wg.Wait()
		wp.closeOnce.Do(func() {
			close(wp.results)
			close(wp.errors)
		})
	}()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("worker cancelled", "worker_id", id)
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job FileJob) {
	result, err := wp.run(job)
	if err != nil {
		wp.logger.Debug("job failed", "worker_id", workerID, "file", job.FilePath, "error", err)
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{FilePath: job.FilePath, Error: err}
		return
	}

	wp.jobsProcessed.Add(1)
	wp.results <- result
}

func (wp *WorkerPool) run(job FileJob) (FileResult, error) {
	f, err := document.OpenFile(job.FilePath, wp.logger)
	if err != nil {
		return FileResult{}, fmt.Errorf("failed to read file: %w", err)
	}
	f.DryRun = wp.opts.DryRun
	before := f.Text()

	var doc document.Document = f
	if wp.opts.Wrap != nil {
		doc = wp.opts.Wrap(f)
	}

	if err := wp.handler(wp.ctx, document.StaticHost{Doc: doc}); err != nil {
		return FileResult{}, fmt.Errorf("transform failed: %w", err)
	}

	return FileResult{
		FilePath: job.FilePath,
		JobID:    job.JobID,
		Changed:  f.Changed(),
		Before:   before,
		After:    f.Text(),
	}, nil
}

// Submit enqueues a job. It blocks while the queue is full.
func (wp *WorkerPool) Submit(job FileJob) error {
	if !wp.started.Load() {
		return fmt.Errorf("worker pool not started")
	}
	if wp.jobsClosed.Load() {
		return fmt.Errorf("worker pool is not accepting jobs")
	}

	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled: %w", wp.ctx.Err())
	case wp.jobs <- job:
		wp.jobsSubmitted.Add(1)
		return nil
	}
}

// Results returns the results channel. It is closed after the last worker exits.
func (wp *WorkerPool) Results() <-chan FileResult {
	return wp.results
}

// Errors returns the errors channel. It is closed after the last worker exits.
func (wp *WorkerPool) Errors() <-chan FileError {
	return wp.errors
}

// FinishSubmitting closes the job queue. Safe to call more than once.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// Wait blocks until every worker has exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
	if wp.cancel != nil {
		wp.cancel()
	}
}

// Stats returns current worker pool statistics.
func (wp *WorkerPool) Stats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
	}
}

// WorkerPoolStats contains statistics about the worker pool.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
}

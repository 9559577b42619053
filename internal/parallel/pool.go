// Package parallel runs independent lira.Facade instances concurrently.
// Each Facade is a single-threaded, strictly sequential decision procedure
// (spec.md §5); this package never shares one Facade across goroutines —
// it fans a batch of independent scripts out across a bounded pool of
// workers, one Facade per script.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// WorkerPool manages a pool of goroutines that each run one Job to
// completion against its own, private Facade instance.
type WorkerPool struct {
	maxWorkers   int
	taskChan     chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once
}

// NewWorkerPool creates a pool with the given worker count. If maxWorkers
// is 0 or negative, it defaults to the number of CPU cores.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers:   maxWorkers,
		taskChan:     make(chan func(), maxWorkers*2),
		shutdownChan: make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}

	return pool
}

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()

	for {
		select {
		case task := <-wp.taskChan:
			if task != nil {
				task()
			}
		case <-wp.shutdownChan:
			return
		}
	}
}

// Submit submits a task for execution, blocking until a worker slot is
// available, ctx is cancelled, or the pool is shut down.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	select {
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	default:
	}
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	}
}

// Shutdown gracefully shuts down the pool, waiting for in-flight tasks.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		close(wp.shutdownChan)
		close(wp.taskChan)
		wp.workerWg.Wait()
	})
}

// ErrPoolShutdown is returned when submitting to a shut-down pool.
var ErrPoolShutdown = fmt.Errorf("parallel: worker pool has been shutdown")

// Job is one independently-runnable script: the caller's closure builds its
// own engine, runs it, and returns whatever summary the caller wants
// recorded (status/core/errors). cmd/lira's `batch` verb
// builds one Job per input file.
type Job func(ctx context.Context) (interface{}, error)

// RunBatch runs jobs across a WorkerPool sized to min(len(jobs),
// runtime.NumCPU()) and returns results in the same order as jobs,
// regardless of completion order. A job's error does not halt the others;
// RunBatch returns the first error in job order (after all jobs complete) so a
// caller can still inspect every per-job result.
func RunBatch(ctx context.Context, jobs []Job) ([]interface{}, error) {
	if len(jobs) == 0 {
		return nil, nil
	}
	workers := len(jobs)
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}
	pool := NewWorkerPool(workers)
	defer pool.Shutdown()

	results := make([]interface{}, len(jobs))
	errs := make([]error, len(jobs))
	var wg sync.WaitGroup
	wg.Add(len(jobs))

	for i, job := range jobs {
		i, job := i, job
		if err := pool.Submit(ctx, func() {
			defer wg.Done()
			results[i], errs[i] = job(ctx)
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

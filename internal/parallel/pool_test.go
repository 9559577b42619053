package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Shutdown()

	var n atomic.Int64
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		if err := pool.Submit(ctx, func() { n.Add(1) }); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	deadline := time.Now().Add(2 * time.Second)
	for n.Load() != 20 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := n.Load(); got != 20 {
		t.Fatalf("tasks run = %d, want 20", got)
	}
}

func TestWorkerPoolSubmitAfterShutdownFails(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Shutdown()

	if err := pool.Submit(context.Background(), func() {}); err != ErrPoolShutdown {
		t.Fatalf("Submit after Shutdown = %v, want ErrPoolShutdown", err)
	}
}

func TestWorkerPoolSubmitRespectsContextCancellation(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()

	// Saturate the single worker and its queue so the next Submit blocks.
	block := make(chan struct{})
	defer close(block)
	for i := 0; i < 3; i++ {
		_ = pool.Submit(context.Background(), func() { <-block })
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pool.Submit(ctx, func() {}); err != context.Canceled {
		t.Fatalf("Submit with a cancelled context = %v, want context.Canceled", err)
	}
}

func TestWorkerPoolShutdownIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Shutdown()
	pool.Shutdown() // must not panic on double-close
}

func TestRunBatchPreservesOrderAcrossCompletionTimes(t *testing.T) {
	jobs := make([]Job, 5)
	for i := 0; i < 5; i++ {
		i := i
		jobs[i] = func(ctx context.Context) (interface{}, error) {
			// Reverse the natural completion order so index order must come
			// from RunBatch itself, not from goroutine scheduling luck.
			time.Sleep(time.Duration(5-i) * time.Millisecond)
			return i, nil
		}
	}

	results, err := RunBatch(context.Background(), jobs)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	for i, r := range results {
		if r.(int) != i {
			t.Errorf("results[%d] = %v, want %d", i, r, i)
		}
	}
}

func TestRunBatchReturnsFirstErrorButKeepsAllResults(t *testing.T) {
	boom := errors.New("boom")
	jobs := []Job{
		func(ctx context.Context) (interface{}, error) { return "ok", nil },
		func(ctx context.Context) (interface{}, error) { return nil, boom },
		func(ctx context.Context) (interface{}, error) { return "ok too", nil },
	}

	results, err := RunBatch(context.Background(), jobs)
	if err != boom {
		t.Fatalf("RunBatch err = %v, want boom", err)
	}
	if results[0] != "ok" || results[2] != "ok too" {
		t.Errorf("RunBatch should still return every job's result: %v", results)
	}
}

func TestRunBatchEmptyJobsReturnsNil(t *testing.T) {
	results, err := RunBatch(context.Background(), nil)
	if results != nil || err != nil {
		t.Fatalf("RunBatch(nil) = (%v, %v), want (nil, nil)", results, err)
	}
}

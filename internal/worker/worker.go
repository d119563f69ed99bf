package worker

import (
	"context"
	"sync"

	"github.com/isaiahpere/notion-clony/internal/logger"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

// Runner is what the document service depends on: anything that can
// take a Task off its hands. Tests substitute a synchronous runner.
type Runner interface {
	Submit(t Task)
}

type WorkerPool struct {
	taskQueue chan Task
	wg        sync.WaitGroup

	// mu orders submits against close: Submit holds the read lock while
	// sending, Shutdown takes the write lock before closing the queue,
	// so no send can race the close.
	mu        sync.RWMutex
	isClosing bool
}

func NewWorkerPool(size int) *WorkerPool {
	wp := &WorkerPool{
		taskQueue: make(chan Task, 1000), // Buffer for 1000 pending tasks
	}

	// Start the workers
	for i := 0; i < size; i++ {
		wp.wg.Add(1) // add to WaitGroup
		go wp.startWorker()
	}

	return wp
}

func (wp *WorkerPool) startWorker() {
	defer wp.wg.Done() // signal when worker finished
	for task := range wp.taskQueue {
		ctx := context.Background()
		if err := task(ctx); err != nil { // run task
			logger.Sugar.Errorw("worker task failed", "err", err)
		}
	}
}

func (wp *WorkerPool) Submit(t Task) {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.isClosing {
		logger.Sugar.Warn("task submitted during shutdown, dropping")
		return
	}
	select {
	case wp.taskQueue <- t: // send task to worker pool
	default:
		logger.Sugar.Warn("task queue full, dropping task")
	}
}

// Shutdown closes the queue and waits for workers to finish
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	wp.isClosing = true
	wp.mu.Unlock()

	close(wp.taskQueue) // Stop accepting new tasks
	wp.wg.Wait()        // Wait for all active workers to finish tasks
}

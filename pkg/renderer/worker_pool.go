package renderer

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
)

// ChunkTask is a contiguous range of pixels for one worker
type ChunkTask struct {
	TaskID int // For deterministic ordering
	Range  PixelRange
}

// ChunkResult reports how a chunk went
type ChunkResult struct {
	TaskID int
	Pixels int   // Pixels actually written
	Err    error // Non-nil if the chunk stopped early or panicked
}

// chunkFunc renders the pixels of one range, counting each finished pixel in
// written as it goes so the count survives a panic
type chunkFunc func(ctx context.Context, r PixelRange, written *int) error

// safeRender runs fn over r and turns a panic into an error carrying the stack.
// written holds the pixels finished before fn returned or panicked.
func safeRender(ctx context.Context, fn chunkFunc, r PixelRange) (written int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("range [%d, %d) panicked after %d pixels: %v\n%s",
				r.Start, r.End, written, p, debug.Stack())
		}
	}()
	err = fn(ctx, r, &written)
	return written, err
}

// WorkerPool manages parallel chunk rendering
type WorkerPool struct {
	taskQueue   chan ChunkTask
	resultQueue chan ChunkResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker renders chunks taken from the pool's queue
type Worker struct {
	ID          int
	render      chunkFunc
	ctx         context.Context
	taskQueue   chan ChunkTask
	resultQueue chan ChunkResult
}

// NewWorkerPool creates a pool of numWorkers workers sharing render. maxTasks sizes
// the queues so that submitting every task never blocks.
func NewWorkerPool(ctx context.Context, render chunkFunc, numWorkers, maxTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}
	if maxTasks < 1 {
		maxTasks = 1
	}

	wp := &WorkerPool{
		taskQueue:   make(chan ChunkTask, maxTasks),
		resultQueue: make(chan ChunkResult, maxTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			render:      render,
			ctx:         ctx,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes the queue and waits for every worker to exit
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a chunk to the worker pool
func (wp *WorkerPool) SubmitTask(task ChunkTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed chunk result
func (wp *WorkerPool) GetResult() (ChunkResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- w.renderChunk(task)
	}
}

// renderChunk runs one task, turning a panic into an error on the result
func (w *Worker) renderChunk(task ChunkTask) ChunkResult {
	pixels, err := safeRender(w.ctx, w.render, task.Range)
	result := ChunkResult{TaskID: task.TaskID, Pixels: pixels}
	if err != nil {
		result.Err = fmt.Errorf("worker %d: chunk %d: %w", w.ID, task.TaskID, err)
	}
	return result
}

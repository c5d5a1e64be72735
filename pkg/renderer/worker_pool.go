package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-halide/pkg/core"
	"github.com/shirou/gopsutil/cpu"
)

// RowTask represents one scanline rendering task for the worker pool
type RowTask struct {
	Row  int   // Image row, 0 at the top
	Seed int64 // Seed for the row's private sampler
}

// RowResult contains the result from rendering a row
type RowResult struct {
	Row         int
	Samples     int
	VarianceSum float64 // Sum of per-pixel luminance variances
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker renders rows into the shared frame
type Worker struct {
	ID          int
	raytracer   *Raytracer
	frame       *Frame
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// DefaultWorkerCount returns the number of physical cores, or the logical CPU
// count when the physical count is unavailable
func DefaultWorkerCount() int {
	if cores, err := cpu.Counts(false); err == nil && cores > 0 {
		return cores
	}
	return runtime.NumCPU()
}

// NewWorkerPool creates a worker pool that renders into frame.
// numWorkers <= 0 selects DefaultWorkerCount.
func NewWorkerPool(raytracer *Raytracer, frame *Frame, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}

	// Buffer every row so submission never blocks on slow workers
	rows := frame.Height()

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, rows),
		resultQueue: make(chan RowResult, rows),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   raytracer,
			frame:       frame,
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

// Stop closes the task queue and waits for every worker to drain it
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
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
		// Each row owns its sampler, so output does not depend on which worker takes it
		sampler := core.NewSeededSampler(task.Seed)
		row := w.frame.Row(task.Row)

		result := RowResult{Row: task.Row}
		for i := range row {
			stats := w.raytracer.samplePixelStats(i, task.Row, sampler)
			row[i] = stats.GetColor()
			result.Samples += stats.SampleCount
			result.VarianceSum += stats.Variance()
		}

		w.resultQueue <- result
	}
}

// RowSeed derives the sampler seed for a row from the render seed
func RowSeed(seed int64, row int) int64 {
	z := uint64(seed) + uint64(row+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

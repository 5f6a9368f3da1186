package concurrent

import (
	"sync"

	"github.com/aditya-wp/wayfinder/pkg/datastructure"
)

// MatrixRowParam one many-to-many matrix row: a single source against every
// target column.
type MatrixRowParam struct {
	Row     int
	Source  *datastructure.VisitList
	Targets []*datastructure.VisitList
}

func NewMatrixRowParam(row int, source *datastructure.VisitList, targets []*datastructure.VisitList) MatrixRowParam {
	return MatrixRowParam{
		Row:     row,
		Source:  source,
		Targets: targets,
	}
}

type JobI interface {
	MatrixRowParam | []int32
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

type JobFunc[T JobI, G any] func(job T) G

// WorkerPool fans a batch of jobs over numWorkers goroutines. Usage order:
// AddJob all jobs, Close, Start, Wait, then drain CollectResults.
type WorkerPool[T JobI, G any] struct {
	numWorkers int
	jobs       chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T JobI, G any](numWorkers, capacity int) *WorkerPool[T, G] {
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobs:       make(chan T, capacity),
		results:    make(chan G, capacity),
	}
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobs <- job
}

// Close marks the job batch complete. Must be called before Wait.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobs)
}

func (wp *WorkerPool[T, G]) Start(f JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go func() {
			defer wp.wg.Done()
			for job := range wp.jobs {
				wp.results <- f(job)
			}
		}()
	}
}

func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) CollectResults() <-chan G {
	return wp.results
}

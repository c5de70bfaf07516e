package validation

import (
	"runtime"
	"sync"

	"github.com/tradeforge/etf-direction/pkg/classifier"
)

// scoreJob is one grid combination to score. Jobs carry only the
// combination index and its parameters; each worker builds its own
// classifiers, so there is no shared mutable state between combinations.
type scoreJob struct {
	index  int
	params classifier.Params
}

// scoreResult is the averaged fold score for one combination
type scoreResult struct {
	index  int
	params classifier.Params
	score  float64
	err    error
}

// workerPool fans grid combinations out across workers and collects their
// scores. Results arrive in completion order; callers re-order by index.
type workerPool struct {
	workerCount int
	jobQueue    chan scoreJob
	resultQueue chan scoreResult
	wg          sync.WaitGroup
	process     func(scoreJob) scoreResult
}

func newWorkerPool(workerCount, bufferSize int, process func(scoreJob) scoreResult) *workerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	return &workerPool{
		workerCount: workerCount,
		jobQueue:    make(chan scoreJob, bufferSize),
		resultQueue: make(chan scoreResult, bufferSize),
		process:     process,
	}
}

// run scores every job and returns once all results are collected
func (wp *workerPool) run(jobs []scoreJob) []scoreResult {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}

	go func() {
		for _, job := range jobs {
			wp.jobQueue <- job
		}
		close(wp.jobQueue)
	}()

	go func() {
		wp.wg.Wait()
		close(wp.resultQueue)
	}()

	results := make([]scoreResult, 0, len(jobs))
	for result := range wp.resultQueue {
		results = append(results, result)
	}
	return results
}

func (wp *workerPool) worker() {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.resultQueue <- wp.process(job)
	}
}

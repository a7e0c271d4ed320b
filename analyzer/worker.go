package analyzer

import (
	"context"
	"time"
)

// WorkerOrchestrator runs queued jobs against a bounded pool of goroutines.
// Spec §5 calls for true OS-level parallelism managed by an external
// scheduler; that scheduler's contract is PriorityQueue and Profiler above.
// This type is the single-process cooperative pool spec §4.9 says stands in
// for it here: concurrency is real (goroutines, not coroutines), but
// lifecycle and backpressure are intentionally simple.
type WorkerOrchestrator struct {
	Queue    PriorityQueue
	Profiler Profiler
	Workers  int
}

// NewWorkerOrchestrator returns an orchestrator backed by the default
// in-process queue, running workers goroutines concurrently (minimum 1).
func NewWorkerOrchestrator(workers int, profiler Profiler) *WorkerOrchestrator {
	if workers < 1 {
		workers = 1
	}
	if profiler == nil {
		profiler = NoopProfiler{}
	}
	return &WorkerOrchestrator{Queue: NewSliceQueue(), Profiler: profiler, Workers: workers}
}

// Submit enqueues one analysis job.
func (o *WorkerOrchestrator) Submit(j Job) { o.Queue.Push(j) }

// Run drains the queue across o.Workers goroutines, returning every job
// error in the order the jobs were popped from the queue (with the default
// queue: highest priority first, submission order within a priority). It
// returns once all popped jobs finish, or as soon as ctx is done, with an
// OrchestrationError appended; it does not accept new submissions once
// running (spec §5: "one active batch per caller" — this pool runs one
// drain cycle at a time).
func (o *WorkerOrchestrator) Run(ctx context.Context) []error {
	type result struct {
		idx int
		err error
	}

	var jobs []Job
	for {
		j, ok := o.Queue.Pop()
		if !ok {
			break
		}
		jobs = append(jobs, j)
	}

	errs := make([]error, len(jobs))
	sem := make(chan struct{}, o.Workers)
	results := make(chan result, len(jobs))

	for i, j := range jobs {
		i, j := i, j
		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			start := time.Now()
			o.Profiler.JobStarted(j.File)
			err := j.Run()
			o.Profiler.JobFinished(j.File, time.Since(start), err)
			results <- result{idx: i, err: err}
		}()
	}

	for range jobs {
		select {
		case r := <-results:
			errs[r.idx] = r.err
		case <-ctx.Done():
			errs = append(errs, &OrchestrationError{Stage: "run", Err: ctx.Err()})
			return errs
		}
	}
	return errs
}

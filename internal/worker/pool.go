package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by a Pool worker.
type Job interface {
	Execute(ctx context.Context) (interface{}, error)
}

// Result carries the outcome of a single job.
type Result struct {
	Value interface{}
	Err   error
}

// Pool runs jobs on a fixed number of goroutines and collects results.
type Pool struct {
	workers int
	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup
	once    sync.Once
}

// NewPool creates a pool with the given number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 4
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
	}
}

// Start launches the worker goroutines. It is safe to call once.
func (p *Pool) Start(ctx context.Context) {
	p.once.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker(ctx)
		}
	})
}

// Submit queues a job. It blocks if the job buffer is full and
// returns ctx.Err() if the context is canceled first.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.jobs <- job:
		return nil
	}
}

// Results returns the channel on which job outcomes are delivered.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close signals that no more jobs will be submitted and, once all
// workers drain, closes the results channel.
func (p *Pool) Close() {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for job := range p.jobs {
		value, err := job.Execute(ctx)
		select {
		case <-ctx.Done():
			return
		case p.results <- Result{Value: value, Err: err}:
		}
	}
}

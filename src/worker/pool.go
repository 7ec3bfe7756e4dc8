package worker

import (
	"context"
	"log"
	"sync"
)

// Task is one display operation; it returns a human-readable summary for
// the requester.
type Task func(ctx context.Context) (string, error)

// ResultCallback is invoked on task completion (from a worker goroutine).
// The event loop should pass a closure that posts back into the event
// loop safely.
type ResultCallback func(summary string, err error)

// Pool is a fixed-size worker pool with a 1-slot input queue (strict
// back-pressure). Workers run xrandr mutations, so the default size is 1:
// overlapping --setmonitor/--delmonitor calls race on server state.
type Pool struct {
	jobs chan job
	wg   sync.WaitGroup
}

type job struct {
	ctx  context.Context
	task Task
	cb   ResultCallback
}

// New creates a worker pool. Size defaults to 1 when size<=0. Queue is 1 slot.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				summary, err := run(j.ctx, j.task)
				j.cb(summary, err)
			}
		}()
	}
}

// Submit enqueues a task if the single-slot queue is free. Returns false
// if dropped.
func (p *Pool) Submit(ctx context.Context, task Task, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, task: task, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// run refuses already-expired contexts before invoking the task; the task
// itself honors ctx through exec.CommandContext.
func run(ctx context.Context, task Task) (string, error) {
	if err := ctx.Err(); err != nil {
		log.Printf("worker: dropping task, context already done: %v", err)
		return "", err
	}
	return task(ctx)
}

// Package background runs fire-and-forget work off the request path: search
// logging and counter updates that callers must never wait for.
package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/config"
	"github.com/fleveque/logolist/internal/metrics"
)

// TaskFunc is one unit of background work. The context carries the per-task
// timeout, never the request's.
type TaskFunc func(ctx context.Context) error

type task struct {
	name string
	fn   TaskFunc
}

// Runner is a fixed pool of workers reading from a bounded queue.
// Submit never blocks: a full queue drops the task with a warning.
type Runner struct {
	tasks   chan task
	closed  chan struct{}
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewRunner creates a runner and starts its workers.
func NewRunner(cfg config.BackgroundConfig, logger *zap.Logger) *Runner {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	queue := cfg.QueueSize
	if queue <= 0 {
		queue = 64
	}
	timeout := cfg.TaskTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	r := &Runner{
		tasks:   make(chan task, queue),
		closed:  make(chan struct{}),
		timeout: timeout,
		logger:  logger,
	}
	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go r.work()
	}
	return r
}

// Submit enqueues fn. It returns false if the runner is closed or the queue
// is full; in both cases fn will not run.
func (r *Runner) Submit(name string, fn TaskFunc) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		r.logger.Warn("background task rejected after close", zap.String("task", name))
		metrics.BackgroundTasksTotal.WithLabelValues("dropped").Inc()
		return false
	}

	select {
	case r.tasks <- task{name: name, fn: fn}:
		return true
	default:
		r.logger.Warn("background queue full, dropping task", zap.String("task", name))
		metrics.BackgroundTasksTotal.WithLabelValues("dropped").Inc()
		return false
	}
}

// Close stops accepting tasks, runs everything already queued and waits for
// the workers to exit. It is safe to call more than once.
func (r *Runner) Close() {
	r.mu.Lock()
	if !r.stopped {
		r.stopped = true
		close(r.closed)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Runner) work() {
	defer r.wg.Done()
	for {
		select {
		case t := <-r.tasks:
			r.run(t)
		case <-r.closed:
			r.drain()
			return
		}
	}
}

// drain runs whatever is left in the queue. No new tasks can arrive once
// closed is signalled.
func (r *Runner) drain() {
	for {
		select {
		case t := <-r.tasks:
			r.run(t)
		default:
			return
		}
	}
}

func (r *Runner) run(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	err := r.safeCall(ctx, t)
	switch {
	case err == nil:
		metrics.BackgroundTasksTotal.WithLabelValues("ok").Inc()
	case isPanic(err):
		metrics.BackgroundTasksTotal.WithLabelValues("panic").Inc()
		r.logger.Error("background task panicked", zap.String("task", t.name), zap.Error(err))
	default:
		metrics.BackgroundTasksTotal.WithLabelValues("error").Inc()
		r.logger.Warn("background task failed", zap.String("task", t.name), zap.Error(err))
	}
}

type panicError struct {
	value any
}

func (p panicError) Error() string { return fmt.Sprintf("panic: %v", p.value) }

func isPanic(err error) bool {
	_, ok := err.(panicError)
	return ok
}

// safeCall converts a panic in fn into an error so one bad task cannot take
// a worker down.
func (r *Runner) safeCall(ctx context.Context, t task) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = panicError{value: v}
		}
	}()
	return t.fn(ctx)
}

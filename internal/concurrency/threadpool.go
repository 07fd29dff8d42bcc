// File: internal/concurrency/threadpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ThreadPool runs submitted closures on a fixed set of OS-thread-bound workers
// pulling from one shared JobQueue.

package concurrency

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/momentics/hioload-pool/api"
	"github.com/sirupsen/logrus"
)

var (
	_ api.Executor         = (*ThreadPool)(nil)
	_ api.GracefulShutdown = (*ThreadPool)(nil)
)

// poolStats is shared by the pool and its workers.
type poolStats struct {
	submitted atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
	busy      atomic.Int64
}

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Workers   int   // live workers
	Busy      int   // workers currently executing a job
	Pending   int   // jobs waiting in the queue
	Submitted int64 // jobs accepted by Submit
	Completed int64 // jobs that returned or panicked
	Panicked  int64 // jobs that panicked
}

// ThreadPool is a fixed-size worker pool.
type ThreadPool struct {
	queue   *JobQueue
	workers []*Worker
	stats   poolStats
	log     *logrus.Entry

	closed  atomic.Bool
	stopped chan struct{}
}

// NewThreadPool starts size workers. A worker whose thread init fails is
// logged and skipped, so the pool may run with fewer workers than requested.
// ErrNoWorkers is returned if none could be started.
func NewThreadPool(size int, opts ...Option) (*ThreadPool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkerCount, size)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &ThreadPool{
		queue:   NewJobQueue(),
		workers: make([]*Worker, 0, size),
		log:     o.logger.WithField("component", "threadpool"),
		stopped: make(chan struct{}),
	}

	var spawnErrs []error
	for id := 0; id < size; id++ {
		w, err := startWorker(id, p.queue, o.threadInit, &p.stats, p.log)
		if err != nil {
			p.log.WithError(err).WithField("worker", id).Warn("worker not started, pool runs degraded")
			spawnErrs = append(spawnErrs, err)
			continue
		}
		p.workers = append(p.workers, w)
	}

	if len(p.workers) == 0 {
		p.closed.Store(true)
		p.queue.Close()
		close(p.stopped)
		return nil, fmt.Errorf("%w: %w", ErrNoWorkers, errors.Join(spawnErrs...))
	}

	p.log.WithFields(logrus.Fields{
		"requested": size,
		"started":   len(p.workers),
	}).Info("thread pool started")
	return p, nil
}

// MustNewThreadPool is like NewThreadPool but panics on error.
func MustNewThreadPool(size int, opts ...Option) *ThreadPool {
	p, err := NewThreadPool(size, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Submit enqueues job for execution on exactly one worker. It never blocks
// waiting for a free worker. After Shutdown has begun it returns ErrPoolClosed.
func (p *ThreadPool) Submit(job func()) error {
	if job == nil {
		return ErrNilJob
	}
	if p.closed.Load() {
		p.log.Error("submit after shutdown rejected")
		return ErrPoolClosed
	}
	p.stats.submitted.Add(1)
	if err := p.queue.Enqueue(Job(job)); err != nil {
		p.stats.submitted.Add(-1)
		if errors.Is(err, ErrQueueClosed) {
			p.log.Error("submit after shutdown rejected")
			return ErrPoolClosed
		}
		return err
	}
	return nil
}

// Shutdown closes the queue and then joins every worker, so every job
// submitted before the call runs to completion. Jobs that panicked are
// reported in the returned error. Later calls wait for the first one and
// return nil. Shutdown must not be called from inside a job.
func (p *ThreadPool) Shutdown() error {
	if !p.closed.CompareAndSwap(false, true) {
		<-p.stopped
		return nil
	}
	defer close(p.stopped)

	// Release the sending side before joining, otherwise idle workers
	// never observe disconnect.
	p.queue.Close()

	var errs []error
	for _, w := range p.workers {
		if err := w.Join(); err != nil {
			errs = append(errs, err)
		}
	}

	p.log.WithFields(logrus.Fields{
		"completed": p.stats.completed.Load(),
		"panicked":  p.stats.panicked.Load(),
	}).Info("thread pool stopped")
	return errors.Join(errs...)
}

// Close implements io.Closer.
func (p *ThreadPool) Close() error {
	return p.Shutdown()
}

// NumWorkers returns the number of live workers.
func (p *ThreadPool) NumWorkers() int {
	return len(p.workers)
}

// Workers returns the pool's workers in id order.
func (p *ThreadPool) Workers() []*Worker {
	out := make([]*Worker, len(p.workers))
	copy(out, p.workers)
	return out
}

// Stats returns a snapshot of the pool counters.
func (p *ThreadPool) Stats() Stats {
	return Stats{
		Workers:   len(p.workers),
		Busy:      int(p.stats.busy.Load()),
		Pending:   p.queue.Len(),
		Submitted: p.stats.submitted.Load(),
		Completed: p.stats.completed.Load(),
		Panicked:  p.stats.panicked.Load(),
	}
}

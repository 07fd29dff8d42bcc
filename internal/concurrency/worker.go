// File: internal/concurrency/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker owns one locked OS thread that drains the shared JobQueue.

package concurrency

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// WorkerState is the lifecycle state of a Worker.
type WorkerState int32

const (
	// WorkerIdle: blocked waiting for a job or for disconnect.
	WorkerIdle WorkerState = iota
	// WorkerExecuting: running a job without holding the queue lock.
	WorkerExecuting
	// WorkerTerminated: the loop has returned.
	WorkerTerminated
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerExecuting:
		return "executing"
	case WorkerTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ThreadInitFunc runs on the worker's locked OS thread before it accepts jobs.
// A non-nil error means the thread is unusable and the worker is not started.
type ThreadInitFunc func(workerID int) error

// Worker is a single pool slot.
type Worker struct {
	id         int
	queue      *JobQueue
	threadInit ThreadInitFunc
	stats      *poolStats
	log        *logrus.Entry
	state      atomic.Int32
	done       chan struct{}

	mu       sync.Mutex
	failures []error
}

// startWorker spawns the worker goroutine, locks it to an OS thread, runs
// threadInit there and waits for the outcome.
func startWorker(id int, q *JobQueue, threadInit ThreadInitFunc, stats *poolStats, log *logrus.Entry) (*Worker, error) {
	w := &Worker{
		id:         id,
		queue:      q,
		threadInit: threadInit,
		stats:      stats,
		log:        log.WithField("worker", id),
		done:       make(chan struct{}),
	}
	ready := make(chan error, 1)
	go w.run(ready)
	if err := <-ready; err != nil {
		return nil, &SpawnError{WorkerID: id, Err: err}
	}
	return w, nil
}

// ID returns the worker slot index.
func (w *Worker) ID() int { return w.id }

// State returns the current lifecycle state.
func (w *Worker) State() WorkerState { return WorkerState(w.state.Load()) }

func (w *Worker) run(ready chan<- error) {
	runtime.LockOSThread()
	if err := callInit(w.threadInit, w.id); err != nil {
		// Exiting while still locked retires the OS thread.
		w.state.Store(int32(WorkerTerminated))
		close(w.done)
		ready <- err
		return
	}
	ready <- nil
	w.log.Debug("worker started")
	w.loop()
}

// loop drains the queue until disconnect. If a job unwinds the goroutine
// with runtime.Goexit, the slot continues on a fresh locked thread.
func (w *Worker) loop() {
	disconnected := false
	defer func() {
		if disconnected {
			w.state.Store(int32(WorkerTerminated))
			close(w.done)
			return
		}
		w.log.Warn("worker goroutine exited inside a job, restarting on a new thread")
		go w.restart()
	}()

	for {
		job, ok := w.queue.Dequeue()
		if !ok {
			disconnected = true
			w.log.Debug("queue disconnected, worker exiting")
			return
		}
		w.execute(job)
	}
}

func (w *Worker) restart() {
	runtime.LockOSThread()
	if err := callInit(w.threadInit, w.id); err != nil {
		w.log.WithError(err).Warn("thread init failed on restart")
	}
	w.loop()
}

func callInit(fn ThreadInitFunc, id int) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("thread init panicked: %v", r)
		}
	}()
	return fn(id)
}

// execute runs job and keeps the loop alive if it panics or exits.
func (w *Worker) execute(job Job) {
	w.state.Store(int32(WorkerExecuting))
	w.stats.busy.Add(1)
	returned := false
	defer func() {
		r := recover()
		switch {
		case r != nil:
			w.fail(&JobPanicError{WorkerID: w.id, Value: r, Stack: debug.Stack()})
		case !returned:
			w.fail(&JobPanicError{WorkerID: w.id, Value: ErrJobExited, Stack: debug.Stack()})
		}
		w.stats.busy.Add(-1)
		w.stats.completed.Add(1)
		w.state.Store(int32(WorkerIdle))
	}()
	job()
	returned = true
}

func (w *Worker) fail(err *JobPanicError) {
	w.mu.Lock()
	w.failures = append(w.failures, err)
	w.mu.Unlock()
	w.stats.panicked.Add(1)
	w.log.WithError(err).Error("job failed")
}

// Join waits for the worker loop to return and reports every job that
// panicked on this worker.
func (w *Worker) Join() error {
	<-w.done
	w.mu.Lock()
	defer w.mu.Unlock()
	return errors.Join(w.failures...)
}

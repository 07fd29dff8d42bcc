// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed indicates the pool has begun or finished shutdown
	ErrPoolClosed = errors.New("thread pool is closed")

	// ErrQueueClosed indicates the job queue no longer accepts jobs
	ErrQueueClosed = errors.New("job queue is closed")

	// ErrInvalidWorkerCount indicates invalid worker count configuration
	ErrInvalidWorkerCount = errors.New("invalid worker count")

	// ErrNilJob is returned when a nil closure is submitted
	ErrNilJob = errors.New("nil job")

	// ErrNoWorkers indicates that no worker could be started
	ErrNoWorkers = errors.New("no worker could be started")

	// ErrJobExited is the JobPanicError value for a job that called runtime.Goexit
	ErrJobExited = errors.New("job called runtime.Goexit")
)

// SpawnError reports a worker whose OS thread could not be prepared.
type SpawnError struct {
	WorkerID int
	Err      error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("worker %d: spawn failed: %v", e.WorkerID, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// JobPanicError reports a job that panicked, or exited its goroutine,
// while running on a worker.
type JobPanicError struct {
	WorkerID int
	Value    any
	Stack    []byte
}

func (e *JobPanicError) Error() string {
	return fmt.Sprintf("worker %d: job panicked: %v", e.WorkerID, e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *JobPanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

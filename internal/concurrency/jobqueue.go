// File: internal/concurrency/jobqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Unbounded FIFO job queue shared by all workers of a ThreadPool.

package concurrency

import (
	"sync"

	"github.com/eapache/queue"
)

// Job is a one-shot unit of work.
type Job func()

// JobQueue is an unbounded multi-producer FIFO with a single receiving end
// shared, under a mutex, by every worker.
type JobQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *queue.Queue
	closed bool
}

// NewJobQueue returns an open, empty queue.
func NewJobQueue() *JobQueue {
	q := &JobQueue{items: queue.New()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends job to the tail. It never blocks on queue capacity.
func (q *JobQueue) Enqueue(job Job) error {
	if job == nil {
		return ErrNilJob
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	q.items.Add(job)
	q.cond.Signal()
	return nil
}

// Dequeue blocks until a job is available or the queue is closed and drained.
// ok is false on disconnect. The lock is released before returning so the
// caller runs the job without holding it.
func (q *JobQueue) Dequeue() (job Job, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Length() == 0 {
		if q.closed {
			return nil, false
		}
		q.cond.Wait()
	}
	return q.items.Remove().(Job), true
}

// Close stops accepting jobs and wakes every waiting receiver.
// Jobs already queued are still handed out.
func (q *JobQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Closed reports whether Close has been called.
func (q *JobQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of pending jobs.
func (q *JobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

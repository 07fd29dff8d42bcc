// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-size thread pool for hioload-pool.
//
// A ThreadPool owns N workers, each a goroutine locked to its own OS thread,
// and the sending side of one unbounded FIFO JobQueue. Workers take the queue
// lock only long enough to pull the next job and run it unlocked.
//
// Shutdown closes the queue first and then joins every worker, so queued and
// in-flight jobs always finish. A job that panics is recovered on its worker
// and reported by Shutdown.
package concurrency

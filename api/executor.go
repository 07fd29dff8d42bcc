// Package api
// Author: momentics
//
// Executor contract for handing closures to a worker pool.

package api

//go:generate mockgen -destination=mock_api/mock_executor.go -package=mock_api github.com/momentics/hioload-pool/api Executor

// Executor abstracts fire-and-forget parallel task execution.
type Executor interface {
	// Submit schedules task for execution on exactly one worker.
	Submit(task func()) error

	// NumWorkers returns current number of active worker routines.
	NumWorkers() int
}

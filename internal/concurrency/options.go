// File: internal/concurrency/options.go
// Package concurrency defines functional options for ThreadPool.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"io"
	"runtime"

	"github.com/momentics/hioload-pool/affinity"
	"github.com/sirupsen/logrus"
)

// Option customizes pool construction.
type Option func(*options)

type options struct {
	logger     logrus.FieldLogger
	threadInit ThreadInitFunc
}

func defaultOptions() options {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return options{logger: l}
}

// WithLogger routes pool and worker logs to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithThreadInit sets the hook run on each worker's OS thread before it
// accepts jobs. It replaces any previously configured hook.
func WithThreadInit(fn ThreadInitFunc) Option {
	return func(o *options) {
		o.threadInit = fn
	}
}

// WithCPUAffinity pins worker i to logical CPU i modulo the CPU count.
func WithCPUAffinity() Option {
	return WithThreadInit(func(workerID int) error {
		return affinity.SetAffinity(workerID % runtime.NumCPU())
	})
}

// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown is implemented by components that drain work before exit.
type GracefulShutdown interface {
	// Shutdown stops accepting new work, waits for in-flight work and
	// releases resources. Repeated calls are safe.
	Shutdown() error
}

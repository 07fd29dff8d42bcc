// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrNotSupported is returned on platforms without thread affinity control.
	ErrNotSupported = errors.New("affinity: not supported on this platform")

	// ErrInvalidCPU is returned for a CPU index outside [0, runtime.NumCPU()).
	ErrInvalidCPU = errors.New("affinity: invalid cpu index")
)

// SetAffinity pins the current OS thread to a given logical CPU/core on supported platforms.
// The caller must hold the thread with runtime.LockOSThread for the pin to be meaningful.
func SetAffinity(cpuID int) error {
	if cpuID < 0 || cpuID >= runtime.NumCPU() {
		return fmt.Errorf("%w: %d", ErrInvalidCPU, cpuID)
	}
	return setAffinityPlatform(cpuID)
}

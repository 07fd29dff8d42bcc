// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, logging and metrics layer for hioload-pool.
//
// Provides:
//   - YAML config with defaults and validation
//   - logrus root logger construction
//   - a Prometheus collector over thread pool statistics
package control

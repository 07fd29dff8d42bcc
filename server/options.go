// File: server/options.go
// Package server defines functional options for the Server facade.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
)

// ServerOption customizes server initialization.
type ServerOption func(*Server)

// WithLogger routes connection and accept-loop logs to l.
func WithLogger(l logrus.FieldLogger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.log = l.WithField("component", "server")
		}
	}
}

// WithPages serves hello.html and 404.html from fsys instead of the
// embedded pages.
func WithPages(fsys fs.FS) ServerOption {
	return func(s *Server) {
		if fsys != nil {
			s.pages = fsys
		}
	}
}

// WithDocRoot serves pages from a directory on disk. Empty keeps the
// embedded pages.
func WithDocRoot(dir string) ServerOption {
	return func(s *Server) {
		if dir != "" {
			s.pages = os.DirFS(dir)
		}
	}
}

// File: server/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Static two-route listener. Every accepted connection becomes one closure
// submitted to an api.Executor; the accept loop itself never serves requests.

package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/transport"
)

//go:embed pages/*.html
var embeddedPages embed.FS

// Server accepts TCP connections and hands each to the executor.
type Server struct {
	cfg   *Config
	exec  api.Executor
	pages fs.FS
	log   *logrus.Entry

	mu       sync.Mutex
	ln       net.Listener
	closed   atomic.Bool
	accepted atomic.Int64
	rejected atomic.Int64
}

var _ api.GracefulShutdown = (*Server)(nil)

// New creates a Server. The listener is bound by Listen or Serve.
func New(cfg *Config, exec api.Executor, opts ...ServerOption) (*Server, error) {
	if exec == nil {
		return nil, ErrNilExecutor
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	s := &Server{
		cfg:   cfg,
		exec:  exec,
		pages: mustSub(embeddedPages, "pages"),
		log:   logrus.NewEntry(l),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Listen binds the configured address. It is a no-op if already bound.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return nil
	}
	if s.closed.Load() {
		return net.ErrClosed
	}
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	s.ln = ln
	s.log.WithFields(logrus.Fields{
		"addr":    ln.Addr().String(),
		"workers": s.exec.NumWorkers(),
	}).Info("listening")
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve runs the accept loop until ctx is done or Shutdown is called.
// It returns nil on orderly shutdown.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Shutdown()
		case <-stop:
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.WithError(err).Warn("accept timeout")
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.dispatch(conn)
	}
}

// dispatch submits the connection to the executor or closes it.
func (s *Server) dispatch(conn net.Conn) {
	nc := transport.NewNetConn(conn, s.cfg.ReadTimeout, s.cfg.WriteTimeout)
	s.accepted.Add(1)
	if err := s.exec.Submit(func() { s.handleConn(nc) }); err != nil {
		s.accepted.Add(-1)
		s.rejected.Add(1)
		s.log.WithError(err).WithField("remote", conn.RemoteAddr().String()).Error("connection rejected")
		_ = conn.Close()
	}
}

// Shutdown closes the listener. Connections already submitted are served
// by the executor, which the caller shuts down separately.
func (s *Server) Shutdown() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	s.log.Info("listener closed")
	if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// Accepted returns the number of connections handed to the executor.
func (s *Server) Accepted() int64 { return s.accepted.Load() }

// Rejected returns the number of connections the executor refused.
func (s *Server) Rejected() int64 { return s.rejected.Load() }

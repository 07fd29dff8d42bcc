// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// End-to-end tests: listener -> thread pool -> responder.

package server_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/golang/mock/gomock"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/momentics/hioload-pool/api/mock_api"
	"github.com/momentics/hioload-pool/internal/concurrency"
	"github.com/momentics/hioload-pool/server"
)

func testConfig() *server.Config {
	cfg := server.DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.ReadTimeout = time.Second
	cfg.WriteTimeout = time.Second
	return cfg
}

// startServer runs s.Serve in the background and returns a stop func that
// cancels it and waits for Serve to return.
func startServer(t *testing.T, s *server.Server) func() {
	t.Helper()
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	res := make(chan error, 1)
	go func() { res <- s.Serve(ctx) }()
	return func() {
		cancel()
		select {
		case err := <-res:
			if err != nil {
				t.Errorf("Serve: %v", err)
			}
		case <-time.After(time.Second):
			t.Error("Timeout: Serve did not return")
		}
	}
}

func roundTrip(t *testing.T, addr net.Addr, request string) string {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr.String(), time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	if _, err := conn.Write([]byte(request)); err != nil {
		t.Fatalf("write: %v", err)
	}
	resp, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(resp)
}

func TestServer_TwoRoutes(t *testing.T) {
	pool := concurrency.MustNewThreadPool(2)
	defer pool.Shutdown()

	s, err := server.New(testConfig(), pool)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stop := startServer(t, s)
	defer stop()

	resp := roundTrip(t, s.Addr(), "GET / HTTP/1.1\r\nHost: x\r\n\r\n")
	if !strings.HasPrefix(resp, server.StatusOK+"\r\nContent-Length: ") || !strings.Contains(resp, "<h1>Hello!</h1>") {
		t.Errorf("unexpected / response:\n%s", resp)
	}

	resp = roundTrip(t, s.Addr(), "GET /missing HTTP/1.1\r\n\r\n")
	if !strings.HasPrefix(resp, server.StatusNotFound+"\r\n") || !strings.Contains(resp, "Oops!") {
		t.Errorf("unexpected /missing response:\n%s", resp)
	}

	resp = roundTrip(t, s.Addr(), "GET nope HTTP/1.1\r\n\r\n")
	if !strings.HasPrefix(resp, server.StatusNotFound+"\r\n") {
		t.Errorf("unexpected non-slash target response:\n%s", resp)
	}

	resp = roundTrip(t, s.Addr(), "\r\n")
	if !strings.HasPrefix(resp, server.StatusBadRequest+"\r\nContent-Length: 0\r\n\r\n") {
		t.Errorf("unexpected malformed response:\n%s", resp)
	}

	if s.Accepted() != 4 {
		t.Errorf("expected 4 accepted connections, got %d", s.Accepted())
	}
}

func TestServer_ContentLengthMatchesBody(t *testing.T) {
	pool := concurrency.MustNewThreadPool(1)
	defer pool.Shutdown()

	page := "<p>custom</p>"
	s, _ := server.New(testConfig(), pool, server.WithPages(fstest.MapFS{
		server.HelloPage:    {Data: []byte(page)},
		server.NotFoundPage: {Data: []byte("nope")},
	}))
	stop := startServer(t, s)
	defer stop()

	want := fmt.Sprintf("%s\r\nContent-Length: %d\r\n\r\n%s", server.StatusOK, len(page), page)
	if got := roundTrip(t, s.Addr(), "GET / HTTP/1.1\r\n\r\n"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestServer_DocRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, server.HelloPage), []byte("from disk"), 0o600); err != nil {
		t.Fatal(err)
	}

	pool := concurrency.MustNewThreadPool(1)
	defer pool.Shutdown()
	s, _ := server.New(testConfig(), pool, server.WithDocRoot(dir))
	stop := startServer(t, s)
	defer stop()

	if resp := roundTrip(t, s.Addr(), "GET / HTTP/1.1\r\n\r\n"); !strings.HasSuffix(resp, "from disk") {
		t.Errorf("expected page from doc root, got %q", resp)
	}
	// 404.html is absent from the doc root.
	if resp := roundTrip(t, s.Addr(), "GET /x HTTP/1.1\r\n\r\n"); !strings.HasPrefix(resp, server.StatusInternal) {
		t.Errorf("expected 500 for missing page, got %q", resp)
	}
}

func TestServer_SubmitRejectedClosesConn(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mock_api.NewMockExecutor(ctrl)
	exec.EXPECT().NumWorkers().Return(1)
	exec.EXPECT().Submit(gomock.Any()).Return(concurrency.ErrPoolClosed)

	s, _ := server.New(testConfig(), exec)
	stop := startServer(t, s)
	defer stop()

	if resp := roundTrip(t, s.Addr(), "GET / HTTP/1.1\r\n\r\n"); resp != "" {
		t.Errorf("expected connection closed without response, got %q", resp)
	}
	if s.Rejected() != 1 || s.Accepted() != 0 {
		t.Errorf("accepted=%d rejected=%d", s.Accepted(), s.Rejected())
	}
}

func TestServer_ConnectionsRunOnExecutor(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mock_api.NewMockExecutor(ctrl)
	exec.EXPECT().NumWorkers().Return(2)
	exec.EXPECT().Submit(gomock.Any()).DoAndReturn(func(job func()) error {
		go job()
		return nil
	}).Times(2)

	s, _ := server.New(testConfig(), exec)
	stop := startServer(t, s)
	defer stop()

	for i := 0; i < 2; i++ {
		if resp := roundTrip(t, s.Addr(), "GET / HTTP/1.1\r\n\r\n"); !strings.HasPrefix(resp, server.StatusOK) {
			t.Errorf("unexpected response %q", resp)
		}
	}
}

func TestServer_ShutdownIdempotent(t *testing.T) {
	pool := concurrency.MustNewThreadPool(1)
	defer pool.Shutdown()
	s, _ := server.New(testConfig(), pool)
	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown before Listen: %v", err)
	}
	if err := s.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
	if err := s.Listen(); !errors.Is(err, net.ErrClosed) {
		t.Fatalf("expected ErrClosed after Shutdown, got %v", err)
	}
}

func TestServer_ListenLogsWorkerCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mock_api.NewMockExecutor(ctrl)
	exec.EXPECT().NumWorkers().Return(3)

	logger, hook := logtest.NewNullLogger()
	s, _ := server.New(testConfig(), exec, server.WithLogger(logger))
	defer s.Shutdown()
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	last := hook.LastEntry()
	if last == nil || last.Message != "listening" || last.Data["workers"] != 3 {
		t.Errorf("expected listening log with workers=3, got %+v", last)
	}
}

func TestNew_NilExecutor(t *testing.T) {
	if _, err := server.New(nil, nil); !errors.Is(err, server.ErrNilExecutor) {
		t.Fatalf("expected ErrNilExecutor, got %v", err)
	}
}

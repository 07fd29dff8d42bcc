package server

import (
	"errors"
	"time"
)

// Status lines written by the responder.
const (
	StatusOK         = "HTTP/1.1 200 OK"
	StatusNotFound   = "HTTP/1.1 404 NOT FOUND"
	StatusBadRequest = "HTTP/1.1 400 BAD REQUEST"
	StatusInternal   = "HTTP/1.1 500 INTERNAL SERVER ERROR"
)

// Page names looked up in the page file system.
const (
	HelloPage    = "hello.html"
	NotFoundPage = "404.html"
)

// maxRequestLine bounds how much of a request line is read.
const maxRequestLine = 8 * 1024

var (
	// ErrMalformedRequest is returned for an empty or unparsable request line.
	ErrMalformedRequest = errors.New("malformed request line")

	// ErrNilExecutor is returned by New without an executor.
	ErrNilExecutor = errors.New("server: nil executor")
)

// Config holds all server-side configuration parameters.
type Config struct {
	ListenAddr   string        // TCP bind address, e.g. "localhost:7878"
	ReadTimeout  time.Duration // per-connection read deadline, 0 = none
	WriteTimeout time.Duration // per-connection write deadline, 0 = none
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:   "localhost:7878",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

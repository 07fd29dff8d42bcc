// File: server/responder.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Request-line parsing and the fixed two-route responder.

package server

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-pool/transport"
)

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// ParseRequestLine returns the second token of an HTTP request line
// such as "GET / HTTP/1.1". Any target is accepted; Route decides.
func ParseRequestLine(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: %q", ErrMalformedRequest, line)
	}
	return fields[1], nil
}

// Route maps a path to a status line and page name.
func Route(path string) (status, page string) {
	if path == "/" {
		return StatusOK, HelloPage
	}
	return StatusNotFound, NotFoundPage
}

// FormatResponse renders status, Content-Length and body.
func FormatResponse(status string, body []byte) []byte {
	head := fmt.Sprintf("%s\r\nContent-Length: %d\r\n\r\n", status, len(body))
	return append([]byte(head), body...)
}

// handleConn serves exactly one request and closes the connection.
// It runs on a pool worker.
func (s *Server) handleConn(c *transport.NetConn) {
	defer c.Close()
	log := s.log.WithField("remote", c.RemoteAddr().String())

	status, body := s.respond(bufio.NewReader(io.LimitReader(c, maxRequestLine)), log)
	if _, err := c.Write(FormatResponse(status, body)); err != nil {
		log.WithError(err).Warn("write response")
		return
	}
	log.WithField("status", status).Debug("request served")
}

func (s *Server) respond(r *bufio.Reader, log *logrus.Entry) (string, []byte) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		log.WithError(err).Warn("read request line")
		return StatusBadRequest, nil
	}
	path, err := ParseRequestLine(line)
	if err != nil {
		log.WithError(err).Warn("bad request")
		return StatusBadRequest, nil
	}

	status, page := Route(path)
	body, err := fs.ReadFile(s.pages, page)
	if err != nil {
		log.WithError(err).WithField("page", page).Error("read page")
		return StatusInternal, nil
	}
	return status, body
}

// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package transport

import (
	"net"
	"time"
)

// NetConn wraps net.Conn and refreshes per-operation deadlines.
type NetConn struct {
	conn         net.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewNetConn initializes a new NetConn. A zero timeout disables that deadline.
func NewNetConn(conn net.Conn, readTimeout, writeTimeout time.Duration) *NetConn {
	return &NetConn{
		conn:         conn,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Read reads with the read deadline applied.
func (n *NetConn) Read(buf []byte) (int, error) {
	if n.readTimeout > 0 {
		if err := n.conn.SetReadDeadline(time.Now().Add(n.readTimeout)); err != nil {
			return 0, err
		}
	}
	return n.conn.Read(buf)
}

// Write writes with the write deadline applied.
func (n *NetConn) Write(buf []byte) (int, error) {
	if n.writeTimeout > 0 {
		if err := n.conn.SetWriteDeadline(time.Now().Add(n.writeTimeout)); err != nil {
			return 0, err
		}
	}
	return n.conn.Write(buf)
}

// RemoteAddr returns the peer address.
func (n *NetConn) RemoteAddr() net.Addr {
	return n.conn.RemoteAddr()
}

// Close the connection.
func (n *NetConn) Close() error {
	return n.conn.Close()
}

// Package conn implements the connection record and the bounded
// ring-buffered connection table each worker owns exclusively.
package conn

import (
	"time"

	"golang.org/x/sys/unix"
)

// State is the lifecycle state of a connection slot.
type State int

const (
	// Clean marks a slot as unused; it owns no resources.
	Clean State = iota

	// Alive marks a slot that owns an open client fd eligible for I/O.
	Alive

	// Dead marks a slot awaiting close; it still owns its fd until swept.
	Dead

	// None is the sentinel returned by Pop on an empty table.
	None
)

// PeerAddrLen mirrors INET_ADDRSTRLEN, the longest printable IPv4 address.
const PeerAddrLen = 16

// Conn is one keep-alive TCP client owned by exactly one worker.
type Conn struct {
	ClientFD  int
	PeerAddr  string
	LastAlive time.Time
	State     State
}

// Open initializes c as a fresh Alive record for clientFD.
func (c *Conn) Open(clientFD int, peerAddr string) {
	c.ClientFD = clientFD
	c.PeerAddr = peerAddr
	c.LastAlive = time.Now()
	c.State = Alive
}

// Revitalize stamps LastAlive to now, called after every successful recv.
func (c *Conn) Revitalize() {
	c.LastAlive = time.Now()
}

// CheckAlive reports whether c is still eligible for I/O. A connection idle
// for at least ttl transitions to Dead as a side effect of the check.
func (c *Conn) CheckAlive(ttl time.Duration) bool {
	switch c.State {
	case Dead, Clean:
		return false
	}
	if time.Since(c.LastAlive) >= ttl {
		c.State = Dead
		return false
	}
	return true
}

// Close is idempotent: if c is not already Clean, its fd is closed and its
// state reset to Clean. It returns the state c was in before the call.
func (c *Conn) Close() State {
	prior := c.State
	if prior != Clean {
		unix.Close(c.ClientFD)
		c.State = Clean
	}
	return prior
}

// Package worker implements the per-core readiness loop and the leader
// token handoff that lets a small pool of workers share one listening
// socket without locking.
package worker

import (
	"context"
	"fmt"
	"net"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/lwander/tils/pkg/tils/conn"
	"github.com/lwander/tils/pkg/tils/config"
	"github.com/lwander/tils/pkg/tils/ioutil"
	"github.com/lwander/tils/pkg/tils/request"
	"github.com/lwander/tils/pkg/tils/route"
	"github.com/lwander/tils/pkg/tils/serve"
	"github.com/lwander/tils/pkg/tils/tuning"
)

// Worker owns one exclusive slice of the dispatcher's state: a connection
// table, a pair of token pipe fds, and — while it is the Acceptor —
// the shared listening socket. Nothing here is touched by any other
// goroutine.
type Worker struct {
	ID  int
	CPU int

	Table  *conn.Table
	Routes *route.Table
	Cfg    *config.Config
	Log    *logrus.Entry

	// ListenerFD is >= 0 only while this worker is the Acceptor.
	ListenerFD int

	// TokenIn/TokenOut are the pipe fds to this worker's predecessor and
	// successor in the leader-token ring.
	TokenIn  int
	TokenOut int

	scratch []byte
}

// Run drives the worker's readiness loop until ctx is cancelled or an
// unrecoverable error occurs. It must be called with the OS thread the
// worker goroutine will keep for its lifetime.
func (w *Worker) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	pinToCPU(w.ID, w.Log)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := w.iterate(); err != nil {
			return err
		}
	}
}

// iterate runs one pass of the dispatcher's protocol: sweep TTLs while
// building the readiness set, wait, accept at most one connection, absorb
// an incoming token, then serve every ready client.
func (w *Worker) iterate() error {
	var readSet unix.FdSet
	fdZero(&readSet)

	nfds := 0
	if w.ListenerFD >= 0 {
		fdSet(w.ListenerFD, &readSet)
		nfds = w.ListenerFD
	} else {
		fdSet(w.TokenIn, &readSet)
		nfds = w.TokenIn
	}

	for i := 0; i < w.Table.Size(); i++ {
		c := w.Table.At(i)
		if c.State == conn.Clean {
			continue
		}
		if !c.CheckAlive(w.Cfg.TTL) {
			if c.State == conn.Dead {
				w.Table.RemoveAt(i)
			}
			continue
		}
		fdSet(c.ClientFD, &readSet)
		if c.ClientFD > nfds {
			nfds = c.ClientFD
		}
	}

	timeout := unix.NsecToTimeval(w.Cfg.SelectTimeout.Nanoseconds())
	n, err := unix.Select(nfds+1, &readSet, nil, nil, &timeout)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return fmt.Errorf("worker %d: select: %w", w.ID, err)
	}
	if n == 0 {
		// Timeout: the TTL sweep above was the only work needed.
		return nil
	}

	if w.ListenerFD >= 0 && fdIsSet(w.ListenerFD, &readSet) {
		w.acceptOne()
	}

	if fdIsSet(w.TokenIn, &readSet) {
		w.becomeAcceptor()
	}

	for i := 0; i < w.Table.Size(); i++ {
		c := w.Table.At(i)
		if c.State == conn.Clean || !fdIsSet(c.ClientFD, &readSet) {
			continue
		}
		if w.receiveAndServe(c) {
			c.Revitalize()
		}
	}

	return nil
}

// acceptOne accepts a single pending connection, if any, then immediately
// passes the leader token on before doing anything else with it.
func (w *Worker) acceptOne() {
	clientFD, sa, err := unix.Accept(w.ListenerFD)
	if err != nil {
		// A spurious wakeup (e.g. EAGAIN) — nothing was actually pending.
		return
	}

	// The write doubles as the successor's wakeup: whether it is blocked
	// in select or about to call it, it will see token_in ready.
	if err := writeToken(w.TokenOut, w.ListenerFD); err != nil {
		w.Log.WithError(err).Fatal("failed to pass leader token")
	}
	w.ListenerFD = -1

	peerAddr := formatPeerAddr(sa)

	if err := ioutil.SetKeepalive(clientFD); err != nil {
		w.Log.WithError(err).Warn("keepalive failed on accepted connection")
	}

	if err := ioutil.SetNonblocking(clientFD); err != nil {
		// Every future read/accept would block too long; this connection
		// is not viable.
		unix.Close(clientFD)
		return
	}

	if err := tuning.Apply(clientFD, w.Cfg.Tuning); err != nil {
		w.Log.WithError(err).Debug("socket tuning failed on accepted connection")
	}

	w.Table.Push(clientFD, peerAddr)
	c := w.Table.At(w.Table.Size() - 1)
	if w.receiveAndServe(c) {
		c.Revitalize()
	}
}

// becomeAcceptor reads the incoming token and adopts the listener fd it
// carries.
func (w *Worker) becomeAcceptor() {
	fd, err := readToken(w.TokenIn)
	if err != nil {
		w.Log.WithError(err).Fatal("failed to read leader token")
	}
	w.ListenerFD = fd
}

// receiveAndServe reads one request from c and serves a response. It
// reports whether a request was actually received; on a zero or negative
// read the connection is left alone to age out via TTL.
func (w *Worker) receiveAndServe(c *conn.Conn) bool {
	n, err := unix.Read(c.ClientFD, w.scratch)
	if n <= 0 || err != nil {
		return false
	}

	if err := tuning.SetQuickAck(c.ClientFD); err != nil {
		w.Log.WithError(err).Debug("quickack rearm failed")
	}

	req := request.Parse(w.scratch[:n])
	w.Log.WithFields(logrus.Fields{
		"peer":     c.PeerAddr,
		"resource": req.Resource(),
	}).Debug("request")

	serve.Respond(c, req, w.Routes, w.scratch)
	return true
}

func formatPeerAddr(sa unix.Sockaddr) string {
	v4, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		return ""
	}
	return net.IP(v4.Addr[:]).String()
}

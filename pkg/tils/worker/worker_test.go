package worker

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/lwander/tils/pkg/tils/conn"
	"github.com/lwander/tils/pkg/tils/config"
	"github.com/lwander/tils/pkg/tils/listener"
	"github.com/lwander/tils/pkg/tils/route"
)

func newTestPair(t *testing.T, listenerFD int) (w0, w1 *Worker) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := config.DefaultConfig(0, 2)
	routes := route.New()

	w0 = &Worker{
		ID: 0, Table: conn.NewTable(8), Routes: routes, Cfg: cfg,
		ListenerFD: listenerFD, scratch: make([]byte, config.RequestBufSize),
		Log: log.WithField("worker", 0),
	}
	w1 = &Worker{
		ID: 1, Table: conn.NewTable(8), Routes: routes, Cfg: cfg,
		ListenerFD: -1, scratch: make([]byte, config.RequestBufSize),
		Log: log.WithField("worker", 1),
	}

	var fds01, fds10 [2]int
	if err := unix.Pipe2(fds01[:], 0); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	w0.TokenOut, w1.TokenIn = fds01[1], fds01[0]

	if err := unix.Pipe2(fds10[:], 0); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	w1.TokenOut, w0.TokenIn = fds10[1], fds10[0]

	return w0, w1
}

func TestAcceptHandsTokenToSuccessor(t *testing.T) {
	fd, err := listener.Listen(0, 16, nil)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer unix.Close(fd)

	sa, err := unix.Getsockname(fd)
	if err != nil {
		t.Fatalf("Getsockname: %v", err)
	}
	addr := sa.(*unix.SockaddrInet4)

	client, err := net.Dial("tcp", (&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: addr.Port}).String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	// Give the kernel a moment to mark the listener readable.
	time.Sleep(20 * time.Millisecond)

	w0, w1 := newTestPair(t, fd)

	if err := w0.iterate(); err != nil {
		t.Fatalf("worker0 iterate: %v", err)
	}
	if w0.ListenerFD != -1 {
		t.Fatalf("expected worker0 to give up the listener fd after accept, got %d", w0.ListenerFD)
	}
	if w0.Table.Size() != 1 {
		t.Fatalf("expected worker0 table to gain one connection, got %d", w0.Table.Size())
	}

	if err := w1.iterate(); err != nil {
		t.Fatalf("worker1 iterate: %v", err)
	}
	if w1.ListenerFD != fd {
		t.Fatalf("expected worker1 to become acceptor holding fd %d, got %d", fd, w1.ListenerFD)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], 0); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	if err := writeToken(fds[1], 42); err != nil {
		t.Fatalf("writeToken: %v", err)
	}
	got, err := readToken(fds[0])
	if err != nil {
		t.Fatalf("readToken: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected token value 42, got %d", got)
	}
}

func TestFdSetRoundTrip(t *testing.T) {
	var set unix.FdSet
	fdZero(&set)

	if fdIsSet(7, &set) {
		t.Fatalf("expected fresh set to have no bits set")
	}

	fdSet(7, &set)
	if !fdIsSet(7, &set) {
		t.Fatalf("expected bit 7 to be set")
	}
	if fdIsSet(8, &set) {
		t.Fatalf("expected bit 8 to remain unset")
	}
}

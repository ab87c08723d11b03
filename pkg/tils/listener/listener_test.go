package listener

import (
	"net"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestListenAcceptsAConnection(t *testing.T) {
	fd, err := Listen(0, 16, nil)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer unix.Close(fd)

	sa, err := unix.Getsockname(fd)
	if err != nil {
		t.Fatalf("Getsockname: %v", err)
	}
	addr, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		t.Fatalf("expected SockaddrInet4, got %T", sa)
	}

	dialAddr := net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: addr.Port}
	client, err := net.Dial("tcp", dialAddr.String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	// The listening fd is non-blocking; poll briefly for the pending
	// connection to show up instead of calling Accept exactly once.
	for attempt := 0; ; attempt++ {
		_, _, err := unix.Accept(fd)
		if err == nil {
			return
		}
		if err != unix.EAGAIN || attempt > 100 {
			t.Fatalf("Accept: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
}

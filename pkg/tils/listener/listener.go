// Package listener binds and listens on the single IPv4 TCP socket the
// worker pool's leader token passes around. Listen is called once at
// startup; any failure here is fatal.
package listener

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/lwander/tils/pkg/tils/ioutil"
	"github.com/lwander/tils/pkg/tils/tuning"
)

// Listen creates, binds and listens on an IPv4 TCP socket for port, with the
// given listen(2) backlog. tuningCfg carries the listener-level options
// (TCP_DEFER_ACCEPT, TCP_FASTOPEN) applied after bind and before listen; a
// nil tuningCfg falls back to tuning.DefaultConfig(). Listen returns the raw
// listening fd, already non-blocking, ready to be handed to the worker pool.
func Listen(port, backlog int, tuningCfg *tuning.Config) (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return -1, fmt.Errorf("listener: socket: %w", err)
	}

	if err := ioutil.SetKeepalive(fd); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("listener: keepalive: %w", err)
	}

	// Block until bind/listen succeed; non-blocking only matters once
	// we're in the accept loop.
	if err := ioutil.SetNonblocking(fd); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("listener: nonblocking: %w", err)
	}

	addr := &unix.SockaddrInet4{Port: port}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("listener: bind: %w", err)
	}

	// TCP_DEFER_ACCEPT/TCP_FASTOPEN are best-effort: not every kernel has
	// them enabled, and a missing optimization must not stop the server
	// from binding.
	_ = tuning.ApplyListener(fd, tuningCfg)

	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("listener: listen: %w", err)
	}

	return fd, nil
}

// SetOpenFDLimit raises RLIMIT_NOFILE to its hard ceiling and returns the
// new soft limit.
func SetOpenFDLimit() (uint64, error) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return 0, fmt.Errorf("listener: getrlimit: %w", err)
	}

	if rlim.Cur < rlim.Max {
		rlim.Cur = rlim.Max
	}

	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return 0, fmt.Errorf("listener: setrlimit: %w", err)
	}

	return rlim.Cur, nil
}

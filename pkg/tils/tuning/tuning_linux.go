//go:build linux
// +build linux

package tuning

import (
	"golang.org/x/sys/unix"
)

// Linux-specific socket options not named in golang.org/x/sys/unix on all
// architectures.
const (
	// TCP_USER_TIMEOUT - maximum time to retransmit unacknowledged data
	// before the kernel reports the connection as dead.
	TCP_USER_TIMEOUT = 18

	// TCP_KEEPIDLE - time before the first keepalive probe.
	TCP_KEEPIDLE = 4

	// TCP_KEEPINTVL - interval between keepalive probes.
	TCP_KEEPINTVL = 5

	// TCP_KEEPCNT - number of keepalive probes before giving up.
	TCP_KEEPCNT = 6
)

// applyPlatformOptions applies Linux-specific socket options.
// Called from Apply() in tuning.go.
func applyPlatformOptions(fd int, cfg *Config) {
	// TCP_QUICKACK is not persistent — it is cleared after the next ACK, so
	// it is reapplied from the worker loop after every read via SetQuickAck.
	if cfg.QuickAck {
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_QUICKACK, 1)
	}

	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, TCP_USER_TIMEOUT, 10000)

	if cfg.KeepAlive {
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, TCP_KEEPIDLE, 60)
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, TCP_KEEPINTVL, 10)
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, TCP_KEEPCNT, 3)
	}
}

// applyListenerOptions applies Linux-specific listener options.
// Called from ApplyListener() in tuning.go.
func applyListenerOptions(fd int, cfg *Config) error {
	var lastErr error

	if cfg.DeferAccept {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_DEFER_ACCEPT, 5); err != nil {
			lastErr = err
		}
	}

	if cfg.FastOpen {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_FASTOPEN, 256); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// SetQuickAck re-arms TCP_QUICKACK on fd. TCP_QUICKACK is not sticky: the
// kernel clears it after the next ACK it sends, so the worker loop calls
// this again after every successful read to keep ACKs immediate for the
// life of the connection.
func SetQuickAck(fd int) error {
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_QUICKACK, 1)
}

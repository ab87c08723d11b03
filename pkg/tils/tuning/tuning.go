// Package tuning provides cross-platform socket tuning for raw file
// descriptors. The dispatcher never constructs a net.Conn — connections are
// accepted and served as bare fds — so options are applied directly via
// golang.org/x/sys/unix instead of net.Conn's SyscallConn indirection.
//
// Platform-specific options live in tuning_linux.go, tuning_darwin.go and
// tuning_other.go.
package tuning

import (
	"golang.org/x/sys/unix"
)

// Config represents socket tuning configuration.
// Zero values mean "use system defaults".
type Config struct {
	// TCP_NODELAY - Disable Nagle's algorithm for low latency
	// Default: true (recommended for HTTP/1.1 and HTTP/2)
	NoDelay bool

	// SO_RCVBUF - Receive buffer size in bytes
	// Default: 0 (use system default, typically 128KB-256KB)
	RecvBuffer int

	// SO_SNDBUF - Send buffer size in bytes
	// Default: 0 (use system default, typically 128KB-256KB)
	SendBuffer int

	// TCP_QUICKACK - Send immediate ACKs (Linux only)
	QuickAck bool

	// TCP_DEFER_ACCEPT - Don't wake server until data arrives (Linux only)
	DeferAccept bool

	// TCP_FASTOPEN - Enable TCP Fast Open (Linux 3.7+, Darwin 10.11+)
	FastOpen bool

	// SO_KEEPALIVE - Enable TCP keepalive
	KeepAlive bool
}

// DefaultConfig returns the tuning applied to every accepted client fd.
func DefaultConfig() *Config {
	return &Config{
		NoDelay:     true,
		RecvBuffer:  256 * 1024,
		SendBuffer:  256 * 1024,
		QuickAck:    true,
		DeferAccept: true,
		FastOpen:    true,
		KeepAlive:   true,
	}
}

// Apply applies socket tuning options to an accepted client file descriptor.
// Returns an error only if the critical TCP_NODELAY option fails; the
// remaining options are best-effort and never fail the connection.
//
// Called once, immediately after accept, before the fd is handed to the
// connection table.
func Apply(fd int, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.NoDelay {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
			return err
		}
	}

	if cfg.RecvBuffer > 0 {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, cfg.RecvBuffer)
	}

	if cfg.SendBuffer > 0 {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, cfg.SendBuffer)
	}

	if cfg.KeepAlive {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
	}

	applyPlatformOptions(fd, cfg)

	return nil
}

// ApplyListener applies tuning options that must be set on the listening
// socket before it starts accepting, such as TCP_DEFER_ACCEPT and
// TCP_FASTOPEN.
func ApplyListener(fd int, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return applyListenerOptions(fd, cfg)
}

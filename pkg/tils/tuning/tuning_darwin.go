//go:build darwin
// +build darwin

package tuning

import (
	"golang.org/x/sys/unix"
)

// Darwin (macOS) specific socket options.
const (
	// TCP_FASTOPEN - enable TCP Fast Open (macOS 10.11+).
	TCP_FASTOPEN = 0x105

	// TCP_KEEPALIVE - macOS equivalent of Linux TCP_KEEPIDLE.
	TCP_KEEPALIVE = 0x10

	// SO_NOSIGPIPE - don't raise SIGPIPE on write to a broken pipe.
	SO_NOSIGPIPE = 0x1022
)

// applyPlatformOptions applies Darwin-specific socket options.
// Called from Apply() in tuning.go.
func applyPlatformOptions(fd int, cfg *Config) {
	// Linux uses MSG_NOSIGNAL on send(); macOS has no send-time flag, so the
	// socket option is the only way to suppress SIGPIPE.
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, SO_NOSIGPIPE, 1)

	if cfg.KeepAlive {
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, TCP_KEEPALIVE, 60)
	}
}

// applyListenerOptions applies Darwin-specific listener options.
// Called from ApplyListener() in tuning.go.
func applyListenerOptions(fd int, cfg *Config) error {
	var lastErr error

	if cfg.FastOpen {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, TCP_FASTOPEN, 256); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// SetQuickAck is a no-op on Darwin: there is no TCP_QUICKACK equivalent.
// It exists so the worker loop's post-read re-arm call is platform-agnostic.
func SetQuickAck(fd int) error {
	return nil
}

// Darwin has no TCP_DEFER_ACCEPT equivalent; accept-time filtering would
// require application-level handling, which the dispatcher does not add.

// Package ioutil wraps the handful of raw fd operations the dispatcher
// needs: keepalive, blocking mode, and file size.
package ioutil

import "golang.org/x/sys/unix"

// SetKeepalive enables SO_KEEPALIVE on fd.
func SetKeepalive(fd int) error {
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
}

// SetNonblocking puts fd into non-blocking mode.
func SetNonblocking(fd int) error {
	return unix.SetNonblock(fd, true)
}

// SetBlocking takes fd out of non-blocking mode.
func SetBlocking(fd int) error {
	return unix.SetNonblock(fd, false)
}

// FileSize returns the size in bytes of the file backing fd.
func FileSize(fd int) (int64, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return 0, err
	}
	return st.Size, nil
}

package worker

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// The leader token is the listening fd's integer value, travelling one hop
// per successful accept over the unidirectional pipe ring. The fd number is
// identical across every goroutine in this process, so the pipe conveys
// only "you are acceptor now" plus the value for defensive re-init.

func writeToken(fd, value int) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(value))
	n, err := unix.Write(fd, buf[:])
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("short token write: %d/%d bytes", n, len(buf))
	}
	return nil
}

func readToken(fd int) (int, error) {
	var buf [4]byte
	n, err := unix.Read(fd, buf[:])
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return 0, fmt.Errorf("short token read: %d/%d bytes", n, len(buf))
	}
	value := int32(binary.LittleEndian.Uint32(buf[:]))
	if value < 0 {
		return 0, fmt.Errorf("invalid token value %d", value)
	}
	return int(value), nil
}

//go:build !linux
// +build !linux

package worker

import "github.com/sirupsen/logrus"

// pinToCPU is a no-op outside Linux: there is no portable affinity syscall
// reachable through golang.org/x/sys/unix for Darwin or other platforms.
func pinToCPU(id int, log *logrus.Entry) {
	log.Debug("CPU pinning is not supported on this platform")
}

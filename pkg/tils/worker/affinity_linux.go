//go:build linux
// +build linux

package worker

import (
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// pinToCPU binds the calling OS thread to core id mod the number of online
// cores. Pin failure is logged and otherwise ignored — the worker still
// runs, just without affinity.
func pinToCPU(id int, log *logrus.Entry) {
	cores := runtime.NumCPU()
	if cores < 1 {
		cores = 1
	}
	core := id % cores

	var set unix.CPUSet
	set.Set(core)

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		log.WithError(err).Warnf("couldn't bind worker to core %d", core)
		return
	}
	log.Debugf("bound worker to core %d", core)
}

package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/lwander/tils/pkg/tils/bufpool"
	"github.com/lwander/tils/pkg/tils/conn"
	"github.com/lwander/tils/pkg/tils/config"
	"github.com/lwander/tils/pkg/tils/listener"
	"github.com/lwander/tils/pkg/tils/route"
)

// Pool is the bootstrapped ring of workers sharing listenerFD.
type Pool struct {
	workers []*Worker
}

// Bootstrap builds the pipe ring, assigns the initial leader token to
// worker 0, and sizes every worker's connection table off the process fd
// limit. It does not start any goroutines — call Run for that.
func Bootstrap(listenerFD int, routes *route.Table, cfg *config.Config, log *logrus.Logger) (*Pool, error) {
	n := cfg.WorkerCount
	if n < 1 {
		n = 1
	}

	fdLimit, err := listener.SetOpenFDLimit()
	if err != nil {
		log.WithError(err).Warn("failed to raise open file descriptor limit")
		fdLimit = 1024
	}

	capacity := int(fdLimit) / n
	if capacity < 1 {
		capacity = 1
	}

	scratch := bufpool.New(config.RequestBufSize)

	workers := make([]*Worker, n)
	for i := range workers {
		workers[i] = &Worker{
			ID:         i,
			CPU:        i,
			Table:      conn.NewTable(capacity),
			Routes:     routes,
			Cfg:        cfg,
			ListenerFD: -1,
			scratch:    scratch.Get(),
			Log:        log.WithField("worker", i),
		}
	}

	for i := 0; i < n; i++ {
		var fds [2]int
		if err := unix.Pipe2(fds[:], 0); err != nil {
			return nil, fmt.Errorf("worker pool: pipe %d: %w", i, err)
		}
		workers[i].TokenOut = fds[1]
		workers[(i+1)%n].TokenIn = fds[0]
	}

	workers[0].ListenerFD = listenerFD

	return &Pool{workers: workers}, nil
}

// Run starts every worker but the last on its own goroutine, then runs the
// last worker's loop on the calling goroutine. It returns once every worker
// has stopped, either because ctx was cancelled or one hit an unrecoverable
// error.
func (p *Pool) Run(ctx context.Context) error {
	n := len(p.workers)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n-1; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = p.workers[idx].Run(ctx)
		}(i)
	}

	errs[n-1] = p.workers[n-1].Run(ctx)

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Command tils is a self-contained HTTP/1.1 static-file server built around
// a per-core connection dispatcher: a small pool of worker goroutines share
// one listening socket via a rotating leader token and multiplex many live
// connections per worker with a readiness-based event loop.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/lwander/tils/pkg/tils/config"
	"github.com/lwander/tils/pkg/tils/listener"
	"github.com/lwander/tils/pkg/tils/route"
	"github.com/lwander/tils/pkg/tils/worker"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	port, err := parsePort(os.Args)
	if err != nil {
		log.WithError(err).Fatal("invalid port argument")
	}

	routes := route.New()
	route.Seed(routes)

	workerCount := runtime.NumCPU()
	if workerCount < 1 {
		workerCount = 1
	}
	cfg := config.DefaultConfig(port, workerCount)

	listenerFD, err := listener.Listen(port, cfg.Backlog, cfg.Tuning)
	if err != nil {
		log.WithError(err).Fatal("failed to bind listener")
	}

	pool, err := worker.Bootstrap(listenerFD, routes, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to bootstrap worker pool")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.WithFields(logrus.Fields{
		"port":    port,
		"workers": workerCount,
	}).Info("tils listening")

	if err := pool.Run(ctx); err != nil {
		log.WithError(err).Fatal("worker pool exited with error")
	}
}

// parsePort reads the optional port positional argument. Absent, it
// defaults to config.DefaultPort; present, it must fall in
// [0, config.MaxPort].
func parsePort(args []string) (int, error) {
	if len(args) < 2 {
		return config.DefaultPort, nil
	}

	port, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, err
	}
	if port < 0 || port > config.MaxPort {
		return 0, errInvalidPort(port)
	}
	return port, nil
}

type errInvalidPort int

func (e errInvalidPort) Error() string {
	return "port out of range [0, " + strconv.Itoa(config.MaxPort) + "]: " + strconv.Itoa(int(e))
}

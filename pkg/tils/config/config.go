// Package config centralizes the tuning constants and startup configuration
// shared by every other tils package, in the same spirit as shockwave's
// server.Config/DefaultConfig pairing.
package config

import (
	"time"

	"github.com/lwander/tils/pkg/tils/tuning"
)

const (
	// ServerToken is emitted on every response as the Server header value.
	ServerToken = "lwander-tils/0.0.1"

	// TTL is how long a connection may sit idle before a worker's sweep
	// marks it DEAD.
	TTL = 60 * time.Second

	// SelectTimeout bounds how long a worker blocks in its readiness wait;
	// it fires the TTL sweep even when no fd is ready.
	SelectTimeout = 5 * time.Second

	// RequestBufSize is the single recv/read chunk size for both parsing an
	// incoming request and streaming a file body.
	RequestBufSize = 4096

	// WordBufSize bounds the method and resource tokens the parser copies
	// out of the request buffer.
	WordBufSize = 128

	// ListenBacklog is the backlog argument passed to listen(2).
	ListenBacklog = 16

	// DefaultPort is used when no port is given on the command line.
	DefaultPort = 80

	// MaxPort is the largest port the CLI accepts.
	MaxPort = 65534
)

// Config holds the values needed to bootstrap the listener and worker pool.
// Zero value is not useful; build one with DefaultConfig.
type Config struct {
	Port          int
	WorkerCount   int
	TTL           time.Duration
	SelectTimeout time.Duration
	Backlog       int
	Tuning        *tuning.Config
}

// DefaultConfig returns the configuration used by cmd/tils absent
// command-line overrides.
func DefaultConfig(port, workerCount int) *Config {
	return &Config{
		Port:          port,
		WorkerCount:   workerCount,
		TTL:           TTL,
		SelectTimeout: SelectTimeout,
		Backlog:       ListenBacklog,
		Tuning:        tuning.DefaultConfig(),
	}
}

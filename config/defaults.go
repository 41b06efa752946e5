package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, the config file, and environment variable loading.

const (
	// DefaultBindAddress is where the server role listens.
	DefaultBindAddress = "0.0.0.0:7070"

	// DefaultRemoteAddress is what the client role dials.
	DefaultRemoteAddress = "127.0.0.1:7070"

	// DefaultConnectTimeout bounds a client dial, including the SSH
	// handshake when a jump host is configured.
	DefaultConnectTimeout = 5 * time.Second

	// DefaultPollInterval is the UI tick.  Session status is polled
	// once per tick, so a failure shows up within one interval.
	DefaultPollInterval = 200 * time.Millisecond

	// MaxPollInterval caps --poll-interval so the UI stays responsive.
	MaxPollInterval = time.Second

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultShutdownGrace is how long Shutdown waits for a session
	// goroutine after closing its socket.
	DefaultShutdownGrace = 2 * time.Second
)

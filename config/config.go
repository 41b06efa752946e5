// Package config defines the runtime configuration for termlink and
// provides helpers for parsing tunnel specifications.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	ncerr "termlink/internal/errors"
	"termlink/util"
)

// Config holds every tuneable for a termlink process.
type Config struct {
	// ── Session ──────────────────────────────────────────────────────
	BindAddress    string        // server role: host:port to listen on
	RemoteAddress  string        // client role: host:port to dial
	ConnectTimeout time.Duration // client dial bound
	PollInterval   time.Duration // UI tick; status poll cadence

	// ── SSH jump host (client role only) ─────────────────────────────
	TunnelSpec     string // raw user@host[:port] from -T
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt before the UI starts
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Output ───────────────────────────────────────────────────────
	LogFile string
	Verbose int
}

// Default returns a Config populated from defaults.go.
func Default() *Config {
	return &Config{
		BindAddress:    DefaultBindAddress,
		RemoteAddress:  DefaultRemoteAddress,
		ConnectTimeout: DefaultConnectTimeout,
		PollInterval:   DefaultPollInterval,
	}
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q – expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	if host == "" {
		return "", "", 0, fmt.Errorf("tunnel host is required")
	}
	return user, host, port, nil
}

// ApplyTunnelSpec parses TunnelSpec, if set, into the Tunnel* fields.
func (c *Config) ApplyTunnelSpec() error {
	if c.TunnelSpec == "" {
		return nil
	}
	user, host, port, err := ParseTunnelSpec(c.TunnelSpec)
	if err != nil {
		return &ncerr.ConfigError{
			Field:   "tunnel",
			Value:   c.TunnelSpec,
			Message: err.Error(),
			Hint:    "use user@host or user@host:port",
		}
	}
	c.TunnelEnabled = true
	c.TunnelUser = user
	c.TunnelHost = host
	c.TunnelPort = port
	return nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if _, _, err := util.SplitAddr(c.BindAddress, true); err != nil {
		return &ncerr.ConfigError{
			Field:   "bind",
			Value:   c.BindAddress,
			Message: err.Error(),
			Hint:    "use host:port, e.g. 0.0.0.0:7070 (port 0 picks a free port)",
		}
	}

	_, port, err := util.SplitAddr(c.RemoteAddress, false)
	if err == nil && port == 0 {
		err = fmt.Errorf("port 0 cannot be dialled")
	}
	if err != nil {
		return &ncerr.ConfigError{
			Field:   "remote",
			Value:   c.RemoteAddress,
			Message: err.Error(),
			Hint:    "use host:port, e.g. 127.0.0.1:7070",
		}
	}

	if c.ConnectTimeout <= 0 {
		return &ncerr.ConfigError{
			Field:   "connect-timeout",
			Value:   c.ConnectTimeout,
			Message: "must be positive",
			Hint:    "use a value in seconds such as 5",
		}
	}

	if c.PollInterval <= 0 || c.PollInterval > MaxPollInterval {
		return &ncerr.ConfigError{
			Field:   "poll-interval",
			Value:   c.PollInterval,
			Message: fmt.Sprintf("must be between 1ms and %v", MaxPollInterval),
		}
	}

	if c.TunnelEnabled && c.TunnelHost == "" {
		return &ncerr.ConfigError{Field: "tunnel", Message: "tunnel host is required"}
	}

	if c.Verbose < 0 {
		return &ncerr.ConfigError{Field: "verbose", Value: c.Verbose, Message: "must not be negative"}
	}
	return nil
}

// String renders the resolved configuration for --dry-run.
func (c *Config) String() string {
	s := fmt.Sprintf("bind=%s remote=%s connect-timeout=%v poll-interval=%v",
		c.BindAddress, c.RemoteAddress, c.ConnectTimeout, c.PollInterval)
	if c.TunnelEnabled {
		s += fmt.Sprintf(" tunnel=%s@%s:%d", c.TunnelUser, c.TunnelHost, c.TunnelPort)
	}
	if c.LogFile != "" {
		s += " log-file=" + c.LogFile
	}
	return s
}

package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Config file  (file.go)
//   4. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the TERMLINK_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("TERMLINK_BIND"); v != "" {
		cfg.BindAddress = v
	}
	if v := os.Getenv("TERMLINK_REMOTE"); v != "" {
		cfg.RemoteAddress = v
	}
	if v := envInt("TERMLINK_CONNECT_TIMEOUT"); v > 0 {
		cfg.ConnectTimeout = secondsDuration(v)
	}
	if v := envInt("TERMLINK_POLL_INTERVAL_MS"); v > 0 {
		cfg.PollInterval = time.Duration(v) * time.Millisecond
	}

	// SSH jump host
	if v := os.Getenv("TERMLINK_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("TERMLINK_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("TERMLINK_SSH_PASSWORD") {
		cfg.SSHPassword = true
	}
	if envBool("TERMLINK_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("TERMLINK_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("TERMLINK_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	// Output
	if v := os.Getenv("TERMLINK_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := envInt("TERMLINK_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}

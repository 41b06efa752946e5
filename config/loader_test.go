package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Addresses(t *testing.T) {
	t.Setenv("TERMLINK_BIND", "127.0.0.1:9000")
	t.Setenv("TERMLINK_REMOTE", "10.0.0.5:9000")
	cfg := Default()
	LoadFromEnv(cfg)
	if cfg.BindAddress != "127.0.0.1:9000" {
		t.Errorf("BindAddress = %q", cfg.BindAddress)
	}
	if cfg.RemoteAddress != "10.0.0.5:9000" {
		t.Errorf("RemoteAddress = %q", cfg.RemoteAddress)
	}
}

func TestLoadFromEnv_Durations(t *testing.T) {
	t.Setenv("TERMLINK_CONNECT_TIMEOUT", "10")
	t.Setenv("TERMLINK_POLL_INTERVAL_MS", "100")
	cfg := Default()
	LoadFromEnv(cfg)
	if cfg.ConnectTimeout != 10*time.Second {
		t.Errorf("ConnectTimeout = %v, want 10s", cfg.ConnectTimeout)
	}
	if cfg.PollInterval != 100*time.Millisecond {
		t.Errorf("PollInterval = %v, want 100ms", cfg.PollInterval)
	}
}

func TestLoadFromEnv_Booleans(t *testing.T) {
	tests := []struct {
		key    string
		values []string
		get    func(c *Config) bool
	}{
		{"TERMLINK_SSH_AGENT", []string{"1", "true", "yes", "TRUE", "Yes"}, func(c *Config) bool { return c.UseSSHAgent }},
		{"TERMLINK_SSH_PASSWORD", []string{"1", "true"}, func(c *Config) bool { return c.SSHPassword }},
		{"TERMLINK_STRICT_HOSTKEY", []string{"yes"}, func(c *Config) bool { return c.StrictHostKey }},
	}

	for _, tt := range tests {
		for _, v := range tt.values {
			t.Run(tt.key+"="+v, func(t *testing.T) {
				t.Setenv(tt.key, v)
				cfg := Default()
				LoadFromEnv(cfg)
				if !tt.get(cfg) {
					t.Errorf("%s=%s should enable the option", tt.key, v)
				}
			})
		}
	}
}

func TestLoadFromEnv_SSHFields(t *testing.T) {
	t.Setenv("TERMLINK_TUNNEL", "admin@bastion:2222")
	t.Setenv("TERMLINK_SSH_KEY", "/home/user/.ssh/id_ed25519")
	t.Setenv("TERMLINK_KNOWN_HOSTS", "/custom/known_hosts")

	cfg := Default()
	LoadFromEnv(cfg)

	if cfg.TunnelSpec != "admin@bastion:2222" {
		t.Errorf("TunnelSpec = %q", cfg.TunnelSpec)
	}
	if cfg.SSHKeyPath != "/home/user/.ssh/id_ed25519" {
		t.Errorf("SSHKeyPath = %q", cfg.SSHKeyPath)
	}
	if cfg.KnownHostsPath != "/custom/known_hosts" {
		t.Errorf("KnownHostsPath = %q", cfg.KnownHostsPath)
	}
}

func TestLoadFromEnv_NoOverrideWhenEmpty(t *testing.T) {
	for _, k := range []string{"TERMLINK_BIND", "TERMLINK_REMOTE", "TERMLINK_CONNECT_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg := &Config{BindAddress: "original:1", RemoteAddress: "peer:2", ConnectTimeout: time.Second}
	LoadFromEnv(cfg)

	if cfg.BindAddress != "original:1" || cfg.RemoteAddress != "peer:2" {
		t.Errorf("addresses were overridden: %+v", cfg)
	}
	if cfg.ConnectTimeout != time.Second {
		t.Errorf("ConnectTimeout was overridden: %v", cfg.ConnectTimeout)
	}
}

func TestLoadFromEnv_InvalidIntIgnored(t *testing.T) {
	t.Setenv("TERMLINK_CONNECT_TIMEOUT", "not-a-number")
	cfg := Default()
	LoadFromEnv(cfg)
	if cfg.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout should stay default for invalid input, got %v", cfg.ConnectTimeout)
	}
}

func TestLoadFromEnv_Output(t *testing.T) {
	t.Setenv("TERMLINK_VERBOSE", "3")
	t.Setenv("TERMLINK_LOG_FILE", "/tmp/termlink.log")
	cfg := Default()
	LoadFromEnv(cfg)
	if cfg.Verbose != 3 {
		t.Errorf("Verbose = %d, want 3", cfg.Verbose)
	}
	if cfg.LogFile != "/tmp/termlink.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
}

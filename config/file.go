package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk YAML shape.  Durations are strings in
// time.ParseDuration syntax ("5s", "250ms").
//
//	bind: 0.0.0.0:7070
//	remote: 10.0.0.5:7070
//	connect_timeout: 5s
//	log_file: /tmp/termlink.log
//	ssh:
//	  tunnel: admin@bastion:2222
//	  key: ~/.ssh/id_ed25519
type fileConfig struct {
	Bind           string  `yaml:"bind"`
	Remote         string  `yaml:"remote"`
	ConnectTimeout string  `yaml:"connect_timeout"`
	PollInterval   string  `yaml:"poll_interval"`
	LogFile        string  `yaml:"log_file"`
	Verbose        int     `yaml:"verbose"`
	SSH            fileSSH `yaml:"ssh"`
}

type fileSSH struct {
	Tunnel        string `yaml:"tunnel"`
	Key           string `yaml:"key"`
	Agent         bool   `yaml:"agent"`
	Password      bool   `yaml:"password"`
	StrictHostKey bool   `yaml:"strict_hostkey"`
	KnownHosts    string `yaml:"known_hosts"`
}

// LoadFile overlays the YAML file at path onto cfg.  Keys that are
// absent or empty leave cfg unchanged.  Unknown keys are rejected.
func LoadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return fc.apply(cfg)
}

func (fc *fileConfig) apply(cfg *Config) error {
	if fc.Bind != "" {
		cfg.BindAddress = fc.Bind
	}
	if fc.Remote != "" {
		cfg.RemoteAddress = fc.Remote
	}
	if fc.ConnectTimeout != "" {
		d, err := time.ParseDuration(fc.ConnectTimeout)
		if err != nil {
			return fmt.Errorf("config file: connect_timeout: %w", err)
		}
		cfg.ConnectTimeout = d
	}
	if fc.PollInterval != "" {
		d, err := time.ParseDuration(fc.PollInterval)
		if err != nil {
			return fmt.Errorf("config file: poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.Verbose > 0 {
		cfg.Verbose = fc.Verbose
	}

	if fc.SSH.Tunnel != "" {
		cfg.TunnelSpec = fc.SSH.Tunnel
	}
	if fc.SSH.Key != "" {
		cfg.SSHKeyPath = fc.SSH.Key
	}
	if fc.SSH.KnownHosts != "" {
		cfg.KnownHostsPath = fc.SSH.KnownHosts
	}
	cfg.UseSSHAgent = cfg.UseSSHAgent || fc.SSH.Agent
	cfg.SSHPassword = cfg.SSHPassword || fc.SSH.Password
	cfg.StrictHostKey = cfg.StrictHostKey || fc.SSH.StrictHostKey
	return nil
}

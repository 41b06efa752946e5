package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"termlink/tunnel"
	"termlink/util"
)

// SSHDialer routes connections through a jump host.  The tunnel is
// connected lazily on the first Dial, re-established if it dropped,
// and torn down on Close.
type SSHDialer struct {
	tunnel tunnel.Tunnel
	gw     string
	logger *util.Logger

	mu        sync.Mutex
	connected bool
}

// NewSSHDialer creates a dialer that forwards connections through an
// SSH tunnel described by cfg.
func NewSSHDialer(cfg *tunnel.SSHConfig, logger *util.Logger) *SSHDialer {
	t := tunnel.NewSSHTunnel(cfg, logger)
	return newSSHDialer(t, cfg.User+"@"+cfg.Addr(), logger)
}

func newSSHDialer(t tunnel.Tunnel, gw string, logger *util.Logger) *SSHDialer {
	return &SSHDialer{tunnel: t, gw: gw, logger: logger}
}

// connect establishes the tunnel unless a live one exists.
func (d *SSHDialer) connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected && d.tunnel.IsAlive() {
		return nil
	}
	if d.connected {
		d.logger.Warn("SSH tunnel to %s dropped, reconnecting", d.gw)
		d.tunnel.Close() //nolint:errcheck
		d.connected = false
	}

	d.logger.Verbose("establishing SSH tunnel to %s", d.gw)
	if err := d.tunnel.Connect(ctx); err != nil {
		return fmt.Errorf("tunnel: %w", err)
	}

	d.connected = true
	d.logger.Verbose("SSH tunnel established")
	return nil
}

// Dial connects to address through the tunnel.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	if err := d.connect(ctx); err != nil {
		return nil, err
	}
	return d.tunnel.Dial(ctx, network, address)
}

// Close tears down the tunnel.  It is safe to call more than once.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}
	d.connected = false
	return d.tunnel.Close()
}

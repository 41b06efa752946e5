package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"termlink/config"
	ncerr "termlink/internal/errors"
	"termlink/internal/metrics"
	"termlink/internal/role"
	"termlink/internal/transport"
	"termlink/util"
)

// Options configures a Manager.  Zero fields get defaults.
type Options struct {
	Dialer         transport.Dialer // client role; default plain TCP
	ConnectTimeout time.Duration    // default config.DefaultConnectTimeout
	Logger         *util.Logger     // default discards everything
	Metrics        *metrics.Collector
}

// Manager owns at most one live session at a time.
type Manager struct {
	dialer  transport.Dialer
	timeout time.Duration
	logger  *util.Logger
	metrics *metrics.Collector

	// opMu serialises Start*, Shutdown and Close so that teardown of
	// the old session always finishes before a new one opens.
	opMu sync.Mutex

	mu      sync.Mutex
	current *Session
}

// NewManager returns an idle Manager.
func NewManager(opts Options) *Manager {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = config.DefaultConnectTimeout
	}
	if opts.Dialer == nil {
		opts.Dialer = &transport.TCPDialer{Timeout: opts.ConnectTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = util.NewLogger(0)
		opts.Logger.SetOutput(io.Discard)
	}
	return &Manager{
		dialer:  opts.Dialer,
		timeout: opts.ConnectTimeout,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// StartServer listens on bindAddress and accepts one peer in the
// background.  Any current session is shut down first.  A bind failure
// is returned as *errors.BindError and leaves no session behind.
func (m *Manager) StartServer(ctx context.Context, bindAddress string) (Handle, error) {
	h, err := m.start(ctx, role.Server, newServerEndpoint(bindAddress))
	if err != nil {
		m.metrics.BindFailed(err.Error())
	}
	return h, err
}

// StartClient dials remoteAddress in the background through the
// configured Dialer.  Any current session is shut down first.  An
// invalid address is returned as *errors.ConnectError; dial failures
// show up later as a Closed status carrying one.
func (m *Manager) StartClient(ctx context.Context, remoteAddress string) (Handle, error) {
	h, err := m.start(ctx, role.Client, newClientEndpoint(remoteAddress, m.dialer, m.timeout))
	if err != nil {
		m.metrics.ConnectFailed(err.Error())
	}
	return h, err
}

func (m *Manager) start(ctx context.Context, r role.Role, ep endpoint) (Handle, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.closeCurrent()

	s := &Session{
		id:      Handle(uuid.New()),
		role:    r,
		ep:      ep,
		logger:  m.logger,
		metrics: m.metrics,
		done:    make(chan struct{}),
		state:   Idle,
		since:   time.Now(),
	}
	if err := ep.open(ctx, s); err != nil {
		m.logger.Warn("%s: %v", r, err)
		return Handle{}, err
	}
	m.metrics.SessionStarted()

	sctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	go func() {
		defer close(s.done)
		defer cancel()
		// Accept and Read ignore ctx; closing the sockets is what
		// unblocks them.
		stop := context.AfterFunc(sctx, func() { ep.close() }) //nolint:errcheck
		defer stop()

		ep.run(sctx, s)
		ep.close() //nolint:errcheck
		s.finish(nil)
	}()

	m.logger.Debug("%s session %s started", r, s.id)
	return s.id, nil
}

// Poll returns the status of h without blocking.  An unknown or stale
// handle reports Closed.
func (m *Manager) Poll(h Handle) Status {
	m.mu.Lock()
	s := m.current
	m.mu.Unlock()

	if s == nil || s.id != h {
		return Status{ID: h, State: Closed}
	}
	return s.status()
}

// Shutdown closes the session behind h and waits until its socket is
// released.  It is a no-op for a closed, stale or unknown handle.
func (m *Manager) Shutdown(h Handle) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	s := m.current
	m.mu.Unlock()
	if s == nil || s.id != h {
		return nil
	}
	return m.closeCurrent()
}

// Active returns the current session if it is not Closed.
func (m *Manager) Active() (Handle, bool) {
	m.mu.Lock()
	s := m.current
	m.mu.Unlock()

	if s == nil || s.status().State == Closed {
		return Handle{}, false
	}
	return s.id, true
}

// Close shuts down the current session and releases the dialer.
func (m *Manager) Close() error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	err := m.closeCurrent()
	if derr := m.dialer.Close(); derr != nil && err == nil {
		err = derr
	}
	return err
}

// closeCurrent tears down the current session.  opMu must be held.
func (m *Manager) closeCurrent() error {
	m.mu.Lock()
	s := m.current
	m.current = nil
	m.mu.Unlock()
	if s == nil {
		return nil
	}

	s.cancel()
	err := s.ep.close()
	select {
	case <-s.done:
	case <-time.After(config.DefaultShutdownGrace):
		// A Dialer that ignores ctx can keep run alive; the connSlot
		// still refuses whatever it returns.
		m.logger.Warn("%s session %s: goroutine still running after %v",
			s.role, s.id, config.DefaultShutdownGrace)
	}
	s.finish(nil)

	m.logger.Verbose("%s session %s closed", s.role, s.id)
	if ncerr.IsClosed(err) {
		err = nil
	}
	return err
}

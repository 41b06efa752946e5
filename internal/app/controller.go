// Package app is the dispatch loop body: it feeds key events to the
// role machine, starts and tears down sessions in the right order and
// turns session failures into a status line.
package app

import (
	"context"
	"fmt"

	"termlink/config"
	ncerr "termlink/internal/errors"
	"termlink/internal/role"
	"termlink/internal/session"
	"termlink/util"
)

// Sessions is the part of *session.Manager the controller drives.
type Sessions interface {
	StartServer(ctx context.Context, bindAddress string) (session.Handle, error)
	StartClient(ctx context.Context, remoteAddress string) (session.Handle, error)
	Poll(h session.Handle) session.Status
	Shutdown(h session.Handle) error
}

// View is everything the renderer needs for one frame.
type View struct {
	Role    role.Role
	Options []string
	Index   int

	// Target is the bind address in the server role and the remote
	// address in the client role.
	Target     string
	Session    session.Status
	HasSession bool

	Message string
	IsError bool
}

// Controller is driven from a single goroutine, the UI event loop.
type Controller struct {
	cfg     *config.Config
	mgr     Sessions
	logger  *util.Logger
	machine *role.Machine

	handle session.Handle
	status session.Status

	msg    string
	msgErr bool
}

// New returns a controller in the menu.
func New(cfg *config.Config, mgr Sessions, logger *util.Logger) *Controller {
	return &Controller{
		cfg:     cfg,
		mgr:     mgr,
		logger:  logger,
		machine: role.NewMachine(),
	}
}

// Dispatch handles one key and reports whether the process should
// exit.  Sessions are started before an Enter is committed and shut
// down before a Leave is committed, so the role shown never disagrees
// with the sockets that are open.
func (c *Controller) Dispatch(ctx context.Context, k role.Key) bool {
	t := c.machine.Handle(k)
	c.logger.Debug("key %s in %s: %s", k, t.From, t.Kind)

	switch t.Kind {
	case role.Enter:
		c.enter(ctx, t)
	case role.Leave:
		c.teardown()
		c.machine.Commit(t)
		c.setInfo("back to menu")
	case role.Terminate:
		c.teardown()
		return true
	case role.None, role.Moved:
	}
	return false
}

func (c *Controller) enter(ctx context.Context, t role.Transition) {
	var (
		h    session.Handle
		err  error
		addr string
	)
	switch t.To {
	case role.Server:
		addr = c.cfg.BindAddress
		h, err = c.mgr.StartServer(ctx, addr)
	case role.Client:
		addr = c.cfg.RemoteAddress
		h, err = c.mgr.StartClient(ctx, addr)
	default:
		return
	}
	if err != nil {
		c.logger.Warn("%s: %v", t.To, err)
		c.setError(err)
		return
	}

	c.handle = h
	c.status = c.mgr.Poll(h)
	c.machine.Commit(t)
	c.clearStatus()
	c.logger.Info("entered %s role (%s)", t.To, addr)
}

// Refresh polls the active session once.  A session that closed on
// its own sends the role back to the menu.
func (c *Controller) Refresh() {
	if c.handle.IsZero() {
		return
	}
	prev := c.status.State
	st := c.mgr.Poll(c.handle)
	c.status = st

	switch st.State {
	case session.Established:
		if prev != session.Established {
			c.setInfo(fmt.Sprintf("peer %s connected", st.PeerAddr))
		}
	case session.Closed:
		c.mgr.Shutdown(c.handle) //nolint:errcheck
		c.handle = session.Handle{}
		c.machine.Reset()
		if st.Err != nil {
			c.setError(st.Err)
		} else {
			c.setInfo("session closed")
		}
	}
}

// Close tears down any session.  The UI calls it on exit.
func (c *Controller) Close() {
	c.teardown()
}

func (c *Controller) teardown() {
	if c.handle.IsZero() {
		return
	}
	if err := c.mgr.Shutdown(c.handle); err != nil {
		c.logger.Warn("shutdown: %v", err)
	}
	c.status = c.mgr.Poll(c.handle)
	c.handle = session.Handle{}
}

// View returns a snapshot for rendering.
func (c *Controller) View() View {
	v := View{
		Role:    c.machine.Role(),
		Options: c.machine.Options(),
		Index:   c.machine.Index(),
		Message: c.msg,
		IsError: c.msgErr,
	}
	switch v.Role {
	case role.Server:
		v.Target = c.cfg.BindAddress
	case role.Client:
		v.Target = c.cfg.RemoteAddress
	}
	if !c.handle.IsZero() {
		v.Session = c.status
		v.HasSession = true
	}
	return v
}

// DismissStatus clears the status line.
func (c *Controller) DismissStatus() {
	c.clearStatus()
}

func (c *Controller) setError(err error) {
	c.msg = ncerr.Short(err)
	c.msgErr = true
}

func (c *Controller) setInfo(msg string) {
	c.msg = msg
	c.msgErr = false
}

func (c *Controller) clearStatus() {
	c.msg = ""
	c.msgErr = false
}

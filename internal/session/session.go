// Package session owns the single network endpoint that backs the
// current role: a listener that accepts exactly one peer for the
// server role, or one outbound connection for the client role.
//
// Callers hold only a Handle.  The socket itself never leaves the
// Manager, and every status query is a non-blocking snapshot.
package session

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	ncerr "termlink/internal/errors"
	"termlink/internal/metrics"
	"termlink/internal/role"
	"termlink/util"
)

// State is the connection state of a session.
type State int

const (
	Idle State = iota
	Listening
	Connecting
	Established
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Listening:
		return "listening"
	case Connecting:
		return "connecting"
	case Established:
		return "established"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Handle is an opaque reference to a session.  The zero Handle refers
// to nothing.
type Handle uuid.UUID

func (h Handle) String() string { return uuid.UUID(h).String() }

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return uuid.UUID(h) == uuid.Nil }

// Status is a point-in-time view of a session.
type Status struct {
	ID        Handle
	Role      role.Role
	State     State
	LocalAddr string
	PeerAddr  string
	Err       error     // why the session closed on its own, if it did
	BytesIn   int64     // bytes read from the peer and discarded
	Since     time.Time // time of the last state change
}

// Session is one endpoint lifecycle.  It is created and destroyed by
// the Manager only.
type Session struct {
	id      Handle
	role    role.Role
	ep      endpoint
	logger  *util.Logger
	metrics *metrics.Collector

	cancel context.CancelFunc
	done   chan struct{}

	bytesIn atomic.Int64

	mu    sync.Mutex
	state State
	local string
	peer  string
	err   error
	since time.Time
}

func (s *Session) status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		ID:        s.id,
		Role:      s.role,
		State:     s.state,
		LocalAddr: s.local,
		PeerAddr:  s.peer,
		Err:       s.err,
		BytesIn:   s.bytesIn.Load(),
		Since:     s.since,
	}
}

// begin records the state an endpoint starts in.
func (s *Session) begin(st State, local string) {
	s.mu.Lock()
	s.state = st
	s.local = local
	s.since = time.Now()
	s.mu.Unlock()
}

func (s *Session) established(local, peer string) {
	s.mu.Lock()
	if s.state == Closed {
		s.mu.Unlock()
		return
	}
	s.state = Established
	s.local = local
	s.peer = peer
	s.since = time.Now()
	s.mu.Unlock()

	s.metrics.SessionEstablished()
	s.logger.Info("%s session %s established with %s", s.role, s.id, peer)
}

// fail closes the session with err as the reason.
func (s *Session) fail(err error) {
	var (
		ce *ncerr.ConnectError
		se *ncerr.SessionIOError
	)
	switch {
	case ncerr.As(err, &ce):
		s.metrics.ConnectFailed(err.Error())
	case ncerr.As(err, &se):
		s.metrics.IOError(err.Error())
	}
	s.logger.Warn("%s session %s: %v", s.role, s.id, err)
	s.finish(err)
}

// finish moves the session to Closed.  Only the first call counts.
func (s *Session) finish(err error) {
	s.mu.Lock()
	if s.state == Closed {
		s.mu.Unlock()
		return
	}
	s.state = Closed
	s.err = err
	s.since = time.Now()
	s.mu.Unlock()

	s.metrics.SessionClosed()
}

// watch reads conn until it fails.  There is no protocol, so what the
// peer sends is only counted.  A failure after ctx ended is ours and
// not reported.
func (s *Session) watch(ctx context.Context, conn net.Conn) {
	peer := conn.RemoteAddr().String()
	err := util.Drain(conn, func(n int) {
		s.bytesIn.Add(int64(n))
		s.metrics.BytesReceived(int64(n))
	})
	if ctx.Err() != nil {
		return
	}
	s.fail(ncerr.SessionIO("read", peer, err))
}

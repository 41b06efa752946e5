package session

import (
	"context"
	"net"
	"sync"
	"time"

	ncerr "termlink/internal/errors"
	"termlink/internal/transport"
	"termlink/util"
)

// endpoint is the per-role half of a session.
type endpoint interface {
	// open does the synchronous part: bind for a server, address
	// validation for a client.  It records the initial state on s.
	open(ctx context.Context, s *Session) error

	// run does the asynchronous part (accept or dial, then watch) and
	// returns when the connection is over.
	run(ctx context.Context, s *Session)

	// close releases every socket and unblocks run.  Idempotent.
	close() error
}

// connSlot holds the one connection an endpoint owns.  Once closed it
// refuses new connections, so a late accept or dial cannot leak.
type connSlot struct {
	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

// adopt stores conn, or closes it and returns false after close.
func (c *connSlot) adopt(conn net.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		conn.Close()
		return false
	}
	c.conn = conn
	return true
}

func (c *connSlot) shut() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// ── Server ───────────────────────────────────────────────────────────

type serverEndpoint struct {
	addr string
	ln   net.Listener
	slot connSlot
	once sync.Once
}

func newServerEndpoint(addr string) *serverEndpoint {
	return &serverEndpoint{addr: addr}
}

func (e *serverEndpoint) open(ctx context.Context, s *Session) error {
	if _, _, err := util.SplitAddr(e.addr, true); err != nil {
		return ncerr.Bind(e.addr, err)
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", e.addr)
	if err != nil {
		return ncerr.Bind(e.addr, err)
	}
	e.ln = ln
	s.begin(Listening, ln.Addr().String())
	s.logger.Info("server listening on %s", ln.Addr())
	return nil
}

func (e *serverEndpoint) run(ctx context.Context, s *Session) {
	conn, err := e.ln.Accept()
	// One peer per session: stop listening either way.
	e.closeListener()
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.fail(ncerr.SessionIO("accept", "", err))
		return
	}
	if !e.slot.adopt(conn) {
		return
	}
	s.established(conn.LocalAddr().String(), conn.RemoteAddr().String())
	s.watch(ctx, conn)
}

func (e *serverEndpoint) closeListener() {
	e.once.Do(func() {
		if e.ln != nil {
			e.ln.Close()
		}
	})
}

func (e *serverEndpoint) close() error {
	e.closeListener()
	return e.slot.shut()
}

// ── Client ───────────────────────────────────────────────────────────

type clientEndpoint struct {
	addr    string
	dialer  transport.Dialer
	timeout time.Duration
	slot    connSlot
}

func newClientEndpoint(addr string, d transport.Dialer, timeout time.Duration) *clientEndpoint {
	return &clientEndpoint{addr: addr, dialer: d, timeout: timeout}
}

func (e *clientEndpoint) open(_ context.Context, s *Session) error {
	_, port, err := util.SplitAddr(e.addr, false)
	if err != nil {
		return ncerr.Connect(e.addr, err)
	}
	if port == 0 {
		return ncerr.Connect(e.addr, ncerr.New("port 0 is not dialable"))
	}
	s.begin(Connecting, "")
	s.logger.Info("client connecting to %s", e.addr)
	return nil
}

func (e *clientEndpoint) run(ctx context.Context, s *Session) {
	dctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	conn, err := e.dialer.Dial(dctx, "tcp", e.addr)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.fail(ncerr.Connect(e.addr, err))
		return
	}
	if !e.slot.adopt(conn) {
		return
	}
	s.established(conn.LocalAddr().String(), conn.RemoteAddr().String())
	s.watch(ctx, conn)
}

func (e *clientEndpoint) close() error {
	return e.slot.shut()
}

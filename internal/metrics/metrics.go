// Package metrics provides lightweight, lock-free counters for the
// sessions a termlink process runs.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks session lifecycle and I/O counters.
type Collector struct {
	sessionsStarted     atomic.Int64
	sessionsEstablished atomic.Int64
	sessionsActive      atomic.Int64
	bindFailures        atomic.Int64
	connectFailures     atomic.Int64
	ioErrors            atomic.Int64
	bytesIn             atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Session lifecycle ────────────────────────────────────────────────

// SessionStarted records a new Server or Client attempt.
func (c *Collector) SessionStarted() {
	if c == nil {
		return
	}
	c.sessionsStarted.Add(1)
	c.sessionsActive.Add(1)
}

// SessionEstablished records that a peer was accepted or dialled.
func (c *Collector) SessionEstablished() {
	if c == nil {
		return
	}
	c.sessionsEstablished.Add(1)
}

// SessionClosed decrements the active session gauge.
func (c *Collector) SessionClosed() {
	if c == nil {
		return
	}
	c.sessionsActive.Add(-1)
}

// ActiveSessions returns the number of sessions not yet closed.  The
// manager keeps this at 0 or 1.
func (c *Collector) ActiveSessions() int64 {
	if c == nil {
		return 0
	}
	return c.sessionsActive.Load()
}

// SessionsStarted returns the lifetime attempt count.
func (c *Collector) SessionsStarted() int64 {
	if c == nil {
		return 0
	}
	return c.sessionsStarted.Load()
}

// SessionsEstablished returns how many attempts reached Established.
func (c *Collector) SessionsEstablished() int64 {
	if c == nil {
		return 0
	}
	return c.sessionsEstablished.Load()
}

// ── Failures ─────────────────────────────────────────────────────────

// BindFailed records a server bind failure.
func (c *Collector) BindFailed(msg string) {
	if c == nil {
		return
	}
	c.bindFailures.Add(1)
	c.recordError(msg)
}

// ConnectFailed records a client dial failure.
func (c *Collector) ConnectFailed(msg string) {
	if c == nil {
		return
	}
	c.connectFailures.Add(1)
	c.recordError(msg)
}

// IOError records a failure on an established session.
func (c *Collector) IOError(msg string) {
	if c == nil {
		return
	}
	c.ioErrors.Add(1)
	c.recordError(msg)
}

// ErrorCount returns the total number of failures of any kind.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.bindFailures.Load() + c.connectFailures.Load() + c.ioErrors.Load()
}

func (c *Collector) recordError(msg string) {
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ── I/O ──────────────────────────────────────────────────────────────

// BytesReceived records n bytes read from a peer.
func (c *Collector) BytesReceived(n int64) {
	if c == nil {
		return
	}
	c.bytesIn.Add(n)
}

// TotalBytesIn returns total bytes received.
func (c *Collector) TotalBytesIn() int64 {
	if c == nil {
		return 0
	}
	return c.bytesIn.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime              string `json:"uptime"`
	SessionsStarted     int64  `json:"sessions_started"`
	SessionsEstablished int64  `json:"sessions_established"`
	SessionsActive      int64  `json:"sessions_active"`
	BindFailures        int64  `json:"bind_failures"`
	ConnectFailures     int64  `json:"connect_failures"`
	IOErrors            int64  `json:"io_errors"`
	BytesIn             int64  `json:"bytes_in"`
	LastError           string `json:"last_error,omitempty"`
	LastErrorMessage    string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:              time.Since(c.startTime).Truncate(time.Second).String(),
		SessionsStarted:     c.sessionsStarted.Load(),
		SessionsEstablished: c.sessionsEstablished.Load(),
		SessionsActive:      c.sessionsActive.Load(),
		BindFailures:        c.bindFailures.Load(),
		ConnectFailures:     c.connectFailures.Load(),
		IOErrors:            c.ioErrors.Load(),
		BytesIn:             c.bytesIn.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.  termlink logs
// it at exit.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}

package errors

import (
	"context"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"
)

func TestNetworkError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  NetworkError
		want string
	}{
		{
			name: "retryable",
			err:  NetworkError{Op: "dial", Addr: "example.com:80", Err: io.EOF, Retryable: true},
			want: "dial example.com:80: EOF (retryable)",
		},
		{
			name: "non-retryable",
			err:  NetworkError{Op: "listen", Addr: ":8080", Err: fmt.Errorf("bind failed")},
			want: "listen :8080: bind failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBindError(t *testing.T) {
	inner := fmt.Errorf("address already in use")
	err := Bind("0.0.0.0:7070", inner)
	if got, want := err.Error(), "bind 0.0.0.0:7070: address already in use"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !Is(err, inner) {
		t.Error("should unwrap to inner error")
	}
}

func TestConnectError(t *testing.T) {
	tests := []struct {
		name        string
		inner       error
		wantTimeout bool
		want        string
	}{
		{"refused", syscall.ECONNREFUSED, false, "connect 127.0.0.1:1: connection refused"},
		{"deadline", context.DeadlineExceeded, true, "connect 127.0.0.1:1: timed out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Connect("127.0.0.1:1", tt.inner)
			if err.Timeout != tt.wantTimeout {
				t.Errorf("Timeout = %v, want %v", err.Timeout, tt.wantTimeout)
			}
			if got := err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if !Is(err, tt.inner) {
				t.Error("should unwrap to inner error")
			}
		})
	}
}

func TestSessionIO_EOFBecomesPeerClosed(t *testing.T) {
	err := SessionIO("read", "10.0.0.2:5000", io.EOF)
	if !Is(err, ErrPeerClosed) {
		t.Errorf("expected ErrPeerClosed, got %v", err)
	}
	if got, want := err.Error(), "read 10.0.0.2:5000: peer closed the connection"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSessionIO_NoPeer(t *testing.T) {
	err := SessionIO("accept", "", fmt.Errorf("boom"))
	if got, want := err.Error(), "accept: boom"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSSHError_Format(t *testing.T) {
	err := WrapSSH("handshake", "bastion.example.com", 22, fmt.Errorf("connection refused"))
	want := "ssh handshake bastion.example.com:22: connection refused"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConfigError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  ConfigError
		want string
	}{
		{
			name: "with value and hint",
			err: ConfigError{
				Field:   "connect-timeout",
				Value:   -1,
				Message: "must be positive",
				Hint:    "use a value in seconds such as 5",
			},
			want: "config: --connect-timeout=-1: must be positive\n  hint: use a value in seconds such as 5",
		},
		{
			name: "missing value no hint",
			err: ConfigError{
				Field:   "bind",
				Message: "required",
			},
			want: "config: --bind: required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"retryable network", &NetworkError{Op: "dial", Addr: "x", Err: io.EOF, Retryable: true}, true},
		{"non-retryable network", &NetworkError{Op: "dial", Addr: "x", Err: io.EOF, Retryable: false}, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"temporary dns", &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{IsTemporary: true}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsClosed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"net.ErrClosed", net.ErrClosed, true},
		{"wrapped op error", &net.OpError{Op: "accept", Err: net.ErrClosed}, true},
		{"canceled", context.Canceled, true},
		{"eof", io.EOF, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsClosed(tt.err); got != tt.want {
				t.Errorf("IsClosed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPeerReset(t *testing.T) {
	if !IsPeerReset(&net.OpError{Op: "read", Err: syscall.ECONNRESET}) {
		t.Error("ECONNRESET should be a peer reset")
	}
	if !IsPeerReset(SessionIO("read", "x", io.EOF)) {
		t.Error("peer close should be a peer reset")
	}
	if IsPeerReset(fmt.Errorf("boom")) {
		t.Error("plain error should not be a peer reset")
	}
}

func TestShort(t *testing.T) {
	err := &ConfigError{Field: "bind", Message: "invalid", Hint: "use host:port"}
	if got, want := Short(err), "config: --bind: invalid hint: use host:port"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if Short(nil) != "" {
		t.Error("Short(nil) should be empty")
	}
}

func TestSentinels(t *testing.T) {
	sentinels := []error{
		ErrSessionClosed, ErrNotConnected, ErrPeerClosed,
		ErrTimeout, ErrNotTerminal, ErrAuthFailed,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && Is(a, b) {
				t.Errorf("sentinel %d and %d should not match", i, j)
			}
		}
	}
}

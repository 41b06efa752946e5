package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"termlink/util"
)

// TestTCPDialer_Connect verifies that TCPDialer can reach a local
// TCP server and read from it.
func TestTCPDialer_Connect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("hello from server\n")) //nolint:errcheck
	}()

	d := &TCPDialer{Timeout: 2 * time.Second}
	conn, err := d.Dial(context.Background(), "tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	buf := make([]byte, 256)
	n, err := io.ReadAtLeast(conn, buf, len("hello from server\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "hello from server\n" {
		t.Errorf("got %q, want %q", got, "hello from server\n")
	}
}

// TestTCPDialer_ContextCancel verifies that a cancelled context stops the dial.
func TestTCPDialer_ContextCancel(t *testing.T) {
	d := &TCPDialer{Timeout: 5 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Dial(ctx, "tcp", "127.0.0.1:1"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestTCPDialer_Refused(t *testing.T) {
	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	d := &TCPDialer{Timeout: time.Second}
	if _, err := d.Dial(context.Background(), "tcp", util.FormatAddr("127.0.0.1", port)); err == nil {
		t.Fatal("expected connection refused")
	}
}

func TestTCPDialer_Close(t *testing.T) {
	d := &TCPDialer{}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// ── SSHDialer with a fake tunnel ─────────────────────────────────────

type fakeTunnel struct {
	mu         sync.Mutex
	alive      bool
	connects   int
	closes     int
	connectErr error
	target     string
}

func (f *fakeTunnel) Connect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if f.connectErr != nil {
		return f.connectErr
	}
	f.alive = true
	return nil
}

func (f *fakeTunnel) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	f.mu.Lock()
	f.target = address
	f.mu.Unlock()
	var d net.Dialer
	return d.DialContext(ctx, network, address)
}

func (f *fakeTunnel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	f.alive = false
	return nil
}

func (f *fakeTunnel) IsAlive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alive
}

func (f *fakeTunnel) drop() {
	f.mu.Lock()
	f.alive = false
	f.mu.Unlock()
}

func TestSSHDialer_LazyConnect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()

	ft := &fakeTunnel{}
	d := newSSHDialer(ft, "ops@jump:22", util.NewLogger(0))
	if ft.connects != 0 {
		t.Fatal("tunnel must not connect before the first Dial")
	}

	for i := 0; i < 2; i++ {
		conn, err := d.Dial(context.Background(), "tcp", ln.Addr().String())
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		conn.Close()
	}
	if ft.connects != 1 {
		t.Errorf("connects = %d, want 1", ft.connects)
	}
	if ft.target != ln.Addr().String() {
		t.Errorf("target = %q", ft.target)
	}

	ft.drop()
	conn, err := d.Dial(context.Background(), "tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial after drop: %v", err)
	}
	conn.Close()
	if ft.connects != 2 {
		t.Errorf("connects after drop = %d, want 2", ft.connects)
	}
}

func TestSSHDialer_ConnectError(t *testing.T) {
	boom := errors.New("handshake failed")
	ft := &fakeTunnel{connectErr: boom}
	d := newSSHDialer(ft, "ops@jump:22", util.NewLogger(0))

	_, err := d.Dial(context.Background(), "tcp", "127.0.0.1:1")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapping %v", err, boom)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if ft.closes != 0 {
		t.Errorf("Close on a never-connected dialer closed the tunnel")
	}
}

func TestSSHDialer_CloseIdempotent(t *testing.T) {
	ft := &fakeTunnel{}
	d := newSSHDialer(ft, "ops@jump:22", util.NewLogger(0))
	if err := d.connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	d.Close() //nolint:errcheck
	d.Close() //nolint:errcheck
	if ft.closes != 1 {
		t.Errorf("closes = %d, want 1", ft.closes)
	}
}

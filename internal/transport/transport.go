// Package transport decides how the client role reaches its peer:
// directly over TCP, or forwarded through an SSH jump host.  What
// happens on the connection afterwards is the session manager's job.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound connections for the client role.
type Dialer interface {
	// Dial establishes a connection to the given network address.  It
	// must return promptly once ctx is done.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases long-lived resources such as an SSH connection.
	// Stateless dialers return nil.
	Close() error
}

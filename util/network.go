package util

import (
	"fmt"
	"net"
	"strconv"
)

// SplitAddr validates a host:port string.  The host may be empty (all
// interfaces) only when allowEmptyHost is true; the port must be
// numeric and within 0-65535.
func SplitAddr(addr string, allowEmptyHost bool) (host string, port int, err error) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if host == "" && !allowEmptyHost {
		return "", 0, fmt.Errorf("invalid address %q: host is required", addr)
	}
	port, err = strconv.Atoi(p)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q", p)
	}
	if port < 0 || port > 65535 {
		return "", 0, fmt.Errorf("port %d out of range 0-65535", port)
	}
	return host, port, nil
}

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// FindFreePort returns an available TCP port on 127.0.0.1.
func FindFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("finding free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// Package probe checks host reachability with bounded TCP dials.
// The fake implementation allows testing without a network.
package probe

import (
	"context"
	"net"
	"time"
)

// Prober reports whether hosts accept TCP connections.
type Prober interface {
	// Reachable reports whether addr accepted a connection before the
	// context deadline. No retries, no hysteresis.
	Reachable(ctx context.Context, addr string) bool
}

// NetProber dials over the real network.
type NetProber struct {
	// Timeout bounds each dial on top of any context deadline.
	Timeout time.Duration
}

// Reachable dials addr and reports success. The connection is closed
// immediately; only the handshake matters.
func (p *NetProber) Reachable(ctx context.Context, addr string) bool {
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

package sshutil

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/rileyhilliard/raytop/internal/logger"
)

// forwarder is the part of an SSH connection a Tunnel needs.
type forwarder interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
	Close() error
}

// Tunnel forwards TCP connections through a lazily dialed SSH connection.
// A broken connection is redialed once per forwarding attempt. Its
// DialContext plugs into http.Transport.
type Tunnel struct {
	host    string
	timeout time.Duration
	log     logger.Logger
	connect func(ctx context.Context) (forwarder, error)

	mu      sync.Mutex
	conn    forwarder
	dialing chan struct{} // closed when the in-flight dial finishes
	closed  bool
}

// NewTunnel creates a tunnel through host. Nothing is dialed until the
// first DialContext.
func NewTunnel(host string, timeout time.Duration, log logger.Logger) *Tunnel {
	if log == nil {
		log = logger.Noop()
	}
	t := &Tunnel{host: host, timeout: timeout, log: log}
	t.connect = func(ctx context.Context) (forwarder, error) {
		return Dial(ctx, t.host, t.timeout)
	}
	return t
}

// Host returns the SSH host the tunnel goes through.
func (t *Tunnel) Host() string {
	return t.host
}

// DialContext opens a connection to addr as seen from the SSH host.
func (t *Tunnel) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		f, err := t.forwarder(ctx)
		if err != nil {
			return nil, err
		}

		conn, err := f.DialContext(ctx, network, addr)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}

		t.log.Warn("forward to %s through %s failed, reconnecting: %v", addr, t.host, err)
		t.drop(f)
	}

	return nil, errors.WrapWithCode(lastErr, errors.ErrSSH,
		fmt.Sprintf("Couldn't forward to %s through '%s'", addr, t.host),
		"Check the dashboard address is reachable from the SSH host (try 127.0.0.1:8265 when tunneling to the head node)")
}

// forwarder returns the live SSH connection, dialing if needed. The dial
// runs without t.mu held so Close never waits on a handshake; concurrent
// callers wait for the one dial in flight.
func (t *Tunnel) forwarder(ctx context.Context) (forwarder, error) {
	for {
		t.mu.Lock()
		if t.closed {
			t.mu.Unlock()
			return nil, errTunnelClosed()
		}
		if t.conn != nil {
			f := t.conn
			t.mu.Unlock()
			return f, nil
		}
		if wait := t.dialing; wait != nil {
			t.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return nil, errors.WrapWithCode(ctx.Err(), errors.ErrSSH,
					fmt.Sprintf("Gave up waiting for the SSH tunnel through '%s'", t.host), "")
			}
		}

		done := make(chan struct{})
		t.dialing = done
		t.mu.Unlock()

		t.log.Debug("opening SSH tunnel through %s", t.host)
		f, err := t.connect(ctx)

		t.mu.Lock()
		t.dialing = nil
		close(done)
		if err != nil {
			t.mu.Unlock()
			return nil, err
		}
		if t.closed {
			t.mu.Unlock()
			_ = f.Close()
			return nil, errTunnelClosed()
		}
		t.conn = f
		t.mu.Unlock()
		return f, nil
	}
}

func errTunnelClosed() error {
	return errors.New(errors.ErrSSH, "SSH tunnel is closed", "")
}

// drop discards f if it is still the current connection.
func (t *Tunnel) drop(f forwarder) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == f {
		_ = t.conn.Close()
		t.conn = nil
	}
}

// Close shuts the SSH connection. Later dials fail.
func (t *Tunnel) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

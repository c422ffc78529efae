package sshutil

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	stderrors "errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/rileyhilliard/raytop/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

type fakeForwarder struct {
	mu     sync.Mutex
	fail   bool
	addrs  []string
	closed bool
}

func (f *fakeForwarder) DialContext(_ context.Context, _, addr string) (net.Conn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addrs = append(f.addrs, addr)
	if f.fail {
		return nil, stderrors.New("ssh: channel open failed")
	}
	client, server := net.Pipe()
	server.Close()
	return client, nil
}

func (f *fakeForwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func newFakeTunnel(forwarders ...*fakeForwarder) (*Tunnel, *int) {
	dials := 0
	t := NewTunnel("ray-head", 0, logger.Noop())
	t.connect = func(context.Context) (forwarder, error) {
		if dials >= len(forwarders) {
			return nil, errors.New(errors.ErrSSH, "no more connections", "")
		}
		f := forwarders[dials]
		dials++
		return f, nil
	}
	return t, &dials
}

func TestTunnel_DialsLazilyAndReuses(t *testing.T) {
	fwd := &fakeForwarder{}
	tun, dials := newFakeTunnel(fwd)
	assert.Equal(t, 0, *dials)

	for i := 0; i < 3; i++ {
		conn, err := tun.DialContext(context.Background(), "tcp", "127.0.0.1:8265")
		require.NoError(t, err)
		conn.Close()
	}

	assert.Equal(t, 1, *dials)
	assert.Equal(t, []string{"127.0.0.1:8265", "127.0.0.1:8265", "127.0.0.1:8265"}, fwd.addrs)
	assert.Equal(t, "ray-head", tun.Host())
}

func TestTunnel_ReconnectsOnce(t *testing.T) {
	broken := &fakeForwarder{fail: true}
	fresh := &fakeForwarder{}
	tun, dials := newFakeTunnel(broken, fresh)

	conn, err := tun.DialContext(context.Background(), "tcp", "127.0.0.1:8265")
	require.NoError(t, err)
	conn.Close()

	assert.Equal(t, 2, *dials)
	assert.True(t, broken.closed)
	assert.False(t, fresh.closed)
}

func TestTunnel_GivesUpAfterSecondFailure(t *testing.T) {
	tun, dials := newFakeTunnel(&fakeForwarder{fail: true}, &fakeForwarder{fail: true})

	_, err := tun.DialContext(context.Background(), "tcp", "10.0.0.1:8265")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSSH))
	assert.Contains(t, err.Error(), "Couldn't forward to 10.0.0.1:8265 through 'ray-head'")
	assert.Equal(t, 2, *dials)
}

func TestTunnel_ConnectErrorPassesThrough(t *testing.T) {
	tun, _ := newFakeTunnel()

	_, err := tun.DialContext(context.Background(), "tcp", "127.0.0.1:8265")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no more connections")
}

func TestTunnel_Close(t *testing.T) {
	fwd := &fakeForwarder{}
	tun, _ := newFakeTunnel(fwd)

	conn, err := tun.DialContext(context.Background(), "tcp", "127.0.0.1:8265")
	require.NoError(t, err)
	conn.Close()

	require.NoError(t, tun.Close())
	assert.True(t, fwd.closed)

	_, err = tun.DialContext(context.Background(), "tcp", "127.0.0.1:8265")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

// silentListener accepts TCP connections and never says anything, like a
// host whose sshd is wedged.
func silentListener(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	})

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	return ln.Addr().String()
}

// withTestKey points key auth at a fresh unencrypted key and turns off
// known_hosts checking so dialing gets as far as the handshake.
func withTestKey(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SSH_AUTH_SOCK", "")

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)

	keyPath := filepath.Join(home, "test_key")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(block), 0600))
	t.Setenv(KeyEnv, keyPath)

	orig := StrictHostKeyChecking
	StrictHostKeyChecking = false
	t.Cleanup(func() { StrictHostKeyChecking = orig })
}

func TestDial_StalledHandshakeStopsAtContextDeadline(t *testing.T) {
	withTestKey(t)
	addr := silentListener(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Dial(ctx, addr, 30*time.Second)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSSH))
	assert.Contains(t, err.Error(), "interrupted")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestDial_StalledHandshakeStopsAtTimeout(t *testing.T) {
	withTestKey(t)
	addr := silentListener(t)

	start := time.Now()
	_, err := Dial(context.Background(), addr, 200*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSSH))
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestTunnel_StalledHandshake(t *testing.T) {
	withTestKey(t)
	addr := silentListener(t)
	tun := NewTunnel(addr, 30*time.Second, logger.Noop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := tun.DialContext(ctx, "tcp", "127.0.0.1:8265")
		done <- err
	}()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("DialContext ignored the context deadline")
	}

	closed := make(chan struct{})
	go func() {
		tun.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close blocked after a stalled handshake")
	}
}

func TestTunnel_CloseDoesNotWaitForDial(t *testing.T) {
	started := make(chan struct{})
	tun := NewTunnel("ray-head", 0, logger.Noop())
	tun.connect = func(ctx context.Context) (forwarder, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := tun.DialContext(ctx, "tcp", "127.0.0.1:8265")
		done <- err
	}()
	<-started

	closed := make(chan struct{})
	go func() {
		tun.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close waited for the in-flight dial")
	}

	cancel()
	assert.Error(t, <-done)
}

func TestTunnel_DialFinishingAfterCloseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fwd := &fakeForwarder{}
	tun := NewTunnel("ray-head", 0, logger.Noop())
	tun.connect = func(context.Context) (forwarder, error) {
		close(started)
		<-release
		return fwd, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := tun.DialContext(context.Background(), "tcp", "127.0.0.1:8265")
		done <- err
	}()
	<-started

	require.NoError(t, tun.Close())
	close(release)

	err := <-done
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
	assert.True(t, fwd.closed)
}

func TestTunnel_WaitersShareOneDial(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fwd := &fakeForwarder{}
	var dials int
	tun := NewTunnel("ray-head", 0, logger.Noop())
	tun.connect = func(context.Context) (forwarder, error) {
		dials++
		close(started)
		<-release
		return fwd, nil
	}

	first := make(chan error, 1)
	go func() {
		conn, err := tun.DialContext(context.Background(), "tcp", "127.0.0.1:8265")
		if err == nil {
			conn.Close()
		}
		first <- err
	}()
	<-started

	// A waiter whose context ends gives up without touching the dial.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tun.DialContext(ctx, "tcp", "127.0.0.1:8265")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSSH))

	close(release)
	require.NoError(t, <-first)

	conn, err := tun.DialContext(context.Background(), "tcp", "127.0.0.1:8265")
	require.NoError(t, err)
	conn.Close()
	assert.Equal(t, 1, dials)
}

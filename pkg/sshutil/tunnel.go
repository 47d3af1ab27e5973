package sshutil

import (
	"context"
	stderrors "errors"
	"net"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/rileyhilliard/vdash/internal/logger"
)

type dialFunc func(ctx context.Context) (*Client, error)

// Tunnel forwards TCP connections through one SSH connection. The SSH
// connection is opened on first use and reopened after it dies, so a
// Tunnel can back a session that reconnects for hours.
type Tunnel struct {
	host string
	dial dialFunc
	log  logger.Logger

	mu     sync.Mutex
	client *Client
	dials  int
}

// NewTunnel creates a tunnel through host. Nothing is dialled until the
// first DialContext.
func NewTunnel(host string, timeout time.Duration, log logger.Logger) *Tunnel {
	return newTunnel(host, func(ctx context.Context) (*Client, error) {
		return DialContext(ctx, host, timeout)
	}, log)
}

func newTunnel(host string, dial dialFunc, log logger.Logger) *Tunnel {
	if log == nil {
		log = logger.Default()
	}
	return &Tunnel{host: host, dial: dial, log: log}
}

// Host returns the SSH host the tunnel goes through.
func (t *Tunnel) Host() string {
	return t.host
}

// DialContext opens a connection to addr as seen from the SSH host. It
// matches net.Dialer.DialContext so it can replace a TCP dial.
func (t *Tunnel) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	client, err := t.connect(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := client.DialContext(ctx, network, addr)
	if err == nil {
		return conn, nil
	}

	// The remote end refused the forward; the SSH link itself is fine.
	var openErr *ssh.OpenChannelError
	if stderrors.As(err, &openErr) || ctx.Err() != nil {
		return nil, err
	}

	t.log.Debug("ssh %s: forward to %s failed (%v), reconnecting", t.host, addr, err)
	t.drop(client)
	client, err = t.connect(ctx)
	if err != nil {
		return nil, err
	}
	return client.DialContext(ctx, network, addr)
}

// Ping checks the SSH connection, dialling it if needed.
func (t *Tunnel) Ping(ctx context.Context) error {
	client, err := t.connect(ctx)
	if err != nil {
		return err
	}
	if err := client.Ping(); err != nil {
		t.drop(client)
		return err
	}
	return nil
}

// Close closes the SSH connection. The tunnel redials on next use.
func (t *Tunnel) Close() error {
	t.mu.Lock()
	client := t.client
	t.client = nil
	t.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Close()
}

// Dials reports how many SSH connections the tunnel has opened.
func (t *Tunnel) Dials() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dials
}

// connect returns the live client, dialling under the lock so concurrent
// callers share one SSH connection.
func (t *Tunnel) connect(ctx context.Context) (*Client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client != nil {
		return t.client, nil
	}

	client, err := t.dial(ctx)
	if err != nil {
		return nil, err
	}
	t.dials++
	t.client = client
	t.log.Debug("ssh %s: connected to %s", t.host, client.Address)
	return client, nil
}

func (t *Tunnel) drop(client *Client) {
	t.mu.Lock()
	if t.client == client {
		t.client = nil
	}
	t.mu.Unlock()
	_ = client.Close()
}

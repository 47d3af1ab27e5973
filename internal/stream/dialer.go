package stream

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rileyhilliard/vdash/internal/feed"
	"github.com/rileyhilliard/vdash/internal/logger"
)

const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultPingInterval     = 20 * time.Second

	// AttemptHeader carries the per-attempt id so backend logs can be
	// matched to client logs.
	AttemptHeader = "X-Vdash-Attempt"

	writeWait = time.Second
)

// Options configures a Dialer.
type Options struct {
	HandshakeTimeout time.Duration // 0 uses DefaultHandshakeTimeout
	PingInterval     time.Duration // 0 uses DefaultPingInterval, negative disables keepalive
	Header           http.Header

	// NetDialContext replaces the TCP dialer, e.g. with an SSH tunnel.
	NetDialContext func(ctx context.Context, network, addr string) (net.Conn, error)

	Logger logger.Logger
}

// Dialer opens websocket connections for a feed.Session.
type Dialer struct {
	ws           websocket.Dialer
	header       http.Header
	pingInterval time.Duration
	log          logger.Logger
}

var _ feed.Dialer = (*Dialer)(nil)

// NewDialer creates a Dialer from opts.
func NewDialer(opts Options) *Dialer {
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if opts.PingInterval == 0 {
		opts.PingInterval = DefaultPingInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	ws := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.HandshakeTimeout,
		NetDialContext:   opts.NetDialContext,
	}

	return &Dialer{
		ws:           ws,
		header:       opts.Header,
		pingInterval: opts.PingInterval,
		log:          opts.Logger,
	}
}

// Dial performs the websocket handshake. It honours ctx until the
// handshake completes; after that the connection lives until Close.
func (d *Dialer) Dial(ctx context.Context, url string) (feed.Conn, error) {
	id := uuid.NewString()

	header := d.header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set(AttemptHeader, id)

	d.log.Debug("stream %s: dialing %s", id, url)
	ws, resp, err := d.ws.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("handshake with %s failed (HTTP %d): %w", url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := newConn(ws, id, d.pingInterval, d.log)
	d.log.Debug("stream %s: connected", id)
	return c, nil
}

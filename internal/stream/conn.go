package stream

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rileyhilliard/vdash/internal/logger"
)

// Conn is one websocket connection. ReadMessage must be called from a
// single goroutine; Close may be called from any goroutine.
type Conn struct {
	ws  *websocket.Conn
	id  string
	log logger.Logger

	pingInterval time.Duration
	pongWait     time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, id string, pingInterval time.Duration, log logger.Logger) *Conn {
	c := &Conn{
		ws:           ws,
		id:           id,
		log:          log,
		pingInterval: pingInterval,
		done:         make(chan struct{}),
	}

	if pingInterval > 0 {
		c.pongWait = 2 * pingInterval
		_ = ws.SetReadDeadline(time.Now().Add(c.pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(c.pongWait))
		})
		go c.heartbeatLoop()
	}

	return c
}

// ID returns the attempt id sent in AttemptHeader.
func (c *Conn) ID() string {
	return c.id
}

// ReadMessage returns the payload of the next data frame. Text and binary
// frames are both returned; decoding is the caller's concern.
func (c *Conn) ReadMessage() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, c.translate(err)
	}
	if c.pongWait > 0 {
		// Data frames prove liveness as well as pongs do.
		_ = c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	}
	return data, nil
}

// Close sends a normal close frame and tears the connection down.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait),
		)
		err = c.ws.Close()
		c.log.Debug("stream %s: closed", c.id)
	})
	return err
}

func (c *Conn) translate(err error) error {
	select {
	case <-c.done:
		return io.EOF
	default:
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return io.EOF
	}
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		c.log.Debug("stream %s: closed by peer with code %d", c.id, closeErr.Code)
	}
	return err
}

// heartbeatLoop pings the peer so the pong handler keeps extending the
// read deadline. A peer that stops answering trips the deadline and
// ReadMessage fails with a timeout.
func (c *Conn) heartbeatLoop() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(writeWait)
			if err := c.ws.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				c.log.Debug("stream %s: failed to send ping: %v", c.id, err)
				return
			}
		}
	}
}

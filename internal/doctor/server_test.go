package doctor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vdash/internal/feed"
	"github.com/rileyhilliard/vdash/internal/stream"
)

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    CheckStatus
		message string
	}{
		{"healthy", http.StatusOK, `{"status":"healthy","timestamp":"2026-01-01T12:00:00"}`, StatusPass, "healthy"},
		{"degraded", http.StatusOK, `{"status":"degraded"}`, StatusWarn, `"degraded"`},
		{"not json", http.StatusOK, `<html>hi</html>`, StatusWarn, "not JSON"},
		{"not found", http.StatusNotFound, `{"detail":"Not Found"}`, StatusFail, "HTTP 404"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, stream.HealthPath, r.URL.Path)
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer server.Close()

			url, err := stream.HealthURL(server.URL)
			require.NoError(t, err)

			check := &HealthCheck{URL: url, Client: server.Client()}
			result := check.Run(context.Background())
			assert.Equal(t, tc.want, result.Status)
			assert.Contains(t, result.Message, tc.message)
		})
	}
}

func TestHealthCheck_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL + stream.HealthPath
	server.Close()

	result := (&HealthCheck{URL: url}).Run(context.Background())
	assert.Equal(t, StatusFail, result.Status)
	assert.Contains(t, result.Message, "Cannot reach")
	assert.NotEmpty(t, result.Suggestion)
}

// scriptedConn replays fixed frames, then blocks until closed.
type scriptedConn struct {
	frames [][]byte
	err    error
	closed chan struct{}
}

func newScriptedConn(frames ...string) *scriptedConn {
	c := &scriptedConn{closed: make(chan struct{})}
	for _, f := range frames {
		c.frames = append(c.frames, []byte(f))
	}
	return c
}

func (c *scriptedConn) ReadMessage() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if len(c.frames) > 0 {
		f := c.frames[0]
		c.frames = c.frames[1:]
		return f, nil
	}
	<-c.closed
	return nil, io.EOF
}

func (c *scriptedConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func dialerFor(conn feed.Conn, err error) feed.Dialer {
	return feed.DialerFunc(func(ctx context.Context, url string) (feed.Conn, error) {
		if err != nil {
			return nil, err
		}
		return conn, nil
	})
}

func TestStreamCheck(t *testing.T) {
	frame := `{"timestamp":"2026-01-01T12:00:00","models":[{"name":"a","status":"running"},{"name":"b","status":"starting"}]}`

	tests := []struct {
		name    string
		conn    *scriptedConn
		dialErr error
		want    CheckStatus
		message string
	}{
		{"frame received", newScriptedConn(frame), nil, StatusPass, "2 models, 1 running"},
		{"no frame in time", newScriptedConn(), nil, StatusWarn, "no frame within"},
		{"not an object", newScriptedConn(`[1,2]`), nil, StatusFail, "not a JSON object"},
		{"null frame", newScriptedConn(`null`), nil, StatusFail, "not a JSON object"},
		{"malformed frame", newScriptedConn(`{bad json`), nil, StatusFail, "not a JSON object"},
		{"unexpected shape", newScriptedConn(`{"models":"nope"}`), nil, StatusWarn, "expected shape"},
		{"dial fails", nil, errors.New("connection refused"), StatusFail, "connection refused"},
		{"closed early", &scriptedConn{err: io.EOF, closed: make(chan struct{})}, nil, StatusFail, "before the first frame"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var conn feed.Conn
			if tc.conn != nil {
				conn = tc.conn
			}
			check := &StreamCheck{
				URL:    "ws://example/ws/monitoring",
				Dialer: dialerFor(conn, tc.dialErr),
				Wait:   50 * time.Millisecond,
			}
			result := check.Run(context.Background())
			assert.Equal(t, tc.want, result.Status)
			assert.Contains(t, result.Message, tc.message)
			if tc.conn != nil {
				select {
				case <-tc.conn.closed:
				default:
					t.Error("connection was not closed")
				}
			}
		})
	}
}

func TestStreamCheck_Websocket(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		_ = ws.WriteMessage(websocket.TextMessage, []byte(`{"models":[{"name":"m","status":"running"}]}`))
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	url, err := stream.EndpointURL(server.URL, "")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "ws://"))

	check := &StreamCheck{URL: url, Dialer: stream.NewDialer(stream.Options{PingInterval: -1})}
	result := check.Run(context.Background())
	assert.Equal(t, StatusPass, result.Status, result.Message)
	assert.Contains(t, result.Message, "1 model, 1 running")
}

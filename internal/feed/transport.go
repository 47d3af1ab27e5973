package feed

import (
	"context"
	"reflect"
	"time"
)

// Snapshot is the latest decoded telemetry document. It is replaced
// wholesale on every frame and must be treated as read-only.
type Snapshot map[string]any

// Same reports whether a and b are the same published snapshot. Snapshots
// are replaced wholesale, never mutated, so identity means "no new frame".
// Two nil snapshots are not the same.
func Same(a, b Snapshot) bool {
	if a == nil || b == nil {
		return false
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// Dialer opens one stream connection. Dial blocks until the connection is
// established or fails; the session calls it from its own goroutine.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// Conn is one established stream connection.
type Conn interface {
	// ReadMessage blocks for the next text frame. A clean close from either
	// side is reported as io.EOF; any other error is a transport failure.
	ReadMessage() ([]byte, error)

	// Close tears the connection down and unblocks ReadMessage.
	Close() error
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, url string) (Conn, error)

// Dial calls f(ctx, url).
func (f DialerFunc) Dial(ctx context.Context, url string) (Conn, error) {
	return f(ctx, url)
}

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// Clock schedules the retry timer and timestamps stats.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallClock returns the Clock backed by package time.
func WallClock() Clock {
	return wallClock{}
}

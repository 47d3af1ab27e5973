package feed

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

const waitTimeout = 2 * time.Second

var errConnClosed = errors.New("use of closed connection")

// fakeDialer hands every Dial call to the test, which decides its outcome.
type fakeDialer struct {
	mu       sync.Mutex
	dials    int
	urls     []string
	attempts chan *dialAttempt
}

type dialResult struct {
	conn Conn
	err  error
}

type dialAttempt struct {
	ctx    context.Context
	url    string
	result chan dialResult
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{attempts: make(chan *dialAttempt, 16)}
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	a := &dialAttempt{ctx: ctx, url: url, result: make(chan dialResult, 1)}

	d.mu.Lock()
	d.dials++
	d.urls = append(d.urls, url)
	d.mu.Unlock()

	d.attempts <- a

	select {
	case r := <-a.result:
		return r.conn, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *fakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// next waits for the session to start a dial.
func (d *fakeDialer) next(t *testing.T) *dialAttempt {
	t.Helper()
	select {
	case a := <-d.attempts:
		return a
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a dial attempt")
		return nil
	}
}

// expectNoDial asserts no dial starts within a short window.
func (d *fakeDialer) expectNoDial(t *testing.T) {
	t.Helper()
	select {
	case a := <-d.attempts:
		t.Fatalf("unexpected dial attempt to %s", a.url)
	case <-time.After(50 * time.Millisecond):
	}
}

func (a *dialAttempt) accept() *fakeConn {
	c := newFakeConn()
	a.result <- dialResult{conn: c}
	return c
}

func (a *dialAttempt) fail(err error) {
	a.result <- dialResult{err: err}
}

type frame struct {
	data []byte
	err  error
}

// fakeConn is a connection whose inbound frames the test scripts.
type fakeConn struct {
	frames chan frame
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		frames: make(chan frame, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case f := <-c.frames:
		return f.data, f.err
	case <-c.closed:
		return nil, errConnClosed
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) send(text string) {
	c.frames <- frame{data: []byte(text)}
}

func (c *fakeConn) fail(err error) {
	c.frames <- frame{err: err}
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// manualClock only fires timers when the test advances it.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs every timer that came due.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

// FireStopped runs callbacks of timers that were stopped, the way a
// time.AfterFunc can fire just before Stop wins the race.
func (c *manualClock) FireStopped() {
	c.mu.Lock()
	var stopped []*manualTimer
	for _, t := range c.timers {
		if t.stopped && !t.fired {
			t.fired = true
			stopped = append(stopped, t)
		}
	}
	c.mu.Unlock()

	for _, t := range stopped {
		t.f()
	}
}

// Pending counts timers that are armed and not yet fired or stopped.
func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Armed counts every timer ever scheduled.
func (c *manualClock) Armed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// recorder captures every observer call.
type recorder struct {
	mu      sync.Mutex
	updates []Update
	ch      chan Update
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Update, 256)}
}

func (r *recorder) observe(snap Snapshot, status Status) {
	u := Update{Snapshot: snap, Status: status}
	r.mu.Lock()
	r.updates = append(r.updates, u)
	r.mu.Unlock()
	r.ch <- u
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

// waitStatus drains updates until one with the wanted status arrives.
func (r *recorder) waitStatus(t *testing.T, want Status) Update {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case u := <-r.ch:
			if u.Status == want {
				return u
			}
		case <-deadline:
			t.Fatalf("timed out waiting for status %s", want)
			return Update{}
		}
	}
}

// waitUpdate returns the next update.
func (r *recorder) waitUpdate(t *testing.T) Update {
	t.Helper()
	select {
	case u := <-r.ch:
		return u
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for an update")
		return Update{}
	}
}

// expectQuiet asserts no update arrives within a short window.
func (r *recorder) expectQuiet(t *testing.T) {
	t.Helper()
	select {
	case u := <-r.ch:
		t.Fatalf("unexpected update: status=%s snapshot=%v", u.Status, u.Snapshot)
	case <-time.After(50 * time.Millisecond):
	}
}

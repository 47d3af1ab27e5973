package feed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/vdash/internal/logger"
)

// DefaultRetryInterval is the fixed delay before a reconnection attempt.
const DefaultRetryInterval = 3 * time.Second

// ErrNotObject is returned by DecodeSnapshot for valid JSON that is not an object.
var ErrNotObject = errors.New("frame is not a JSON object")

// Observer receives the published snapshot and status after every change.
// It is called outside the session lock and must not block or call back
// into the session synchronously. Calling Deactivate from an observer
// deadlocks.
type Observer func(snap Snapshot, status Status)

// Options configures a Session.
type Options struct {
	URL           string
	Dialer        Dialer
	RetryInterval time.Duration // 0 uses DefaultRetryInterval
	Clock         Clock         // nil uses WallClock; AfterFunc must not call f synchronously
	Logger        logger.Logger
	Observer      Observer
}

// Stats describes the session's connection history.
type Stats struct {
	Attempts      int       // attempts started since the last successful open
	LastError     string    // most recent transport error, cleared on open
	ConnectedAt   time.Time // zero unless the current handle is open
	LastMessageAt time.Time // when the last snapshot was decoded
	Frames        int       // snapshots decoded over the session lifetime
	DroppedFrames int       // frames that failed to decode
}

type handleState int

const (
	handleOpening handleState = iota
	handleOpen
	handleClosed
)

// handle is one connection attempt and, once open, the connection itself.
type handle struct {
	id     int
	state  handleState
	cancel context.CancelFunc
	conn   Conn
}

// retryTimer identifies one armed retry so a late firing can tell whether
// it is still the session's pending retry.
type retryTimer struct {
	timer Timer
}

type update struct {
	seq      uint64
	snapshot Snapshot
	status   Status
}

// Session owns one streaming connection to the monitoring endpoint.
type Session struct {
	url      string
	dialer   Dialer
	interval time.Duration
	clock    Clock
	log      logger.Logger
	observer Observer

	mu       sync.Mutex
	active   bool
	state    State
	status   Status
	snapshot Snapshot
	handle   *handle
	retry    *retryTimer
	nextID   int
	seq      uint64
	stats    Stats

	notifyMu  sync.Mutex
	delivered uint64
	floor     atomic.Uint64 // updates at or below this sequence are never delivered
}

// NewSession creates an inactive session. Nothing is dialled until Activate.
func NewSession(opts Options) *Session {
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultRetryInterval
	}
	if opts.Clock == nil {
		opts.Clock = WallClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	return &Session{
		url:      opts.URL,
		dialer:   opts.Dialer,
		interval: opts.RetryInterval,
		clock:    opts.Clock,
		log:      opts.Logger,
		observer: opts.Observer,
	}
}

// Activate starts a connection attempt unless one is already opening or
// open. It returns immediately; the outcome arrives through the observer.
func (s *Session) Activate() {
	s.mu.Lock()
	s.active = true
	u, ok := s.activateLocked()
	s.mu.Unlock()

	if ok {
		s.publish(u)
	}
}

// Deactivate closes the handle, cancels any pending retry and stops
// reacting to liveness hints. It publishes nothing and is safe to call
// from any state, any number of times. When it returns, any observer call
// already in progress has finished and no further calls will be made
// until the next Activate.
func (s *Session) Deactivate() {
	s.mu.Lock()
	s.active = false
	s.cancelRetryLocked()

	h := s.handle
	s.handle = nil
	var conn Conn
	if h != nil {
		conn = h.conn
		h.conn = nil
		h.state = handleClosed
	}
	s.state = Transition(s.state, EventDeactivate)
	s.seq++
	s.floor.Store(s.seq)
	s.mu.Unlock()

	// Wait out a delivery that passed the floor check before it was raised.
	s.notifyMu.Lock()
	s.notifyMu.Unlock() //nolint:staticcheck // empty critical section is the barrier

	if h != nil {
		h.cancel()
		if conn != nil {
			_ = conn.Close()
		}
		s.log.Debug("handle %d: closed by deactivate", h.id)
	}
}

// LivenessHint tells the session its host just became visible again
// (terminal focus, process resumed). If the stream is not open it attempts
// a connection now instead of waiting for the retry timer.
func (s *Session) LivenessHint() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	if s.handle != nil && s.handle.state == handleOpen {
		s.mu.Unlock()
		return
	}
	s.log.Debug("liveness hint while %s: reconnecting now", s.state)
	u, ok := s.activateLocked()
	s.mu.Unlock()

	if ok {
		s.publish(u)
	}
}

// Run activates the session and blocks until ctx is done, then deactivates.
func (s *Session) Run(ctx context.Context) {
	s.Activate()
	<-ctx.Done()
	s.Deactivate()
}

// Snapshot returns the latest decoded snapshot, or nil before the first frame.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Status returns the last published status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns a copy of the connection history.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// URL returns the endpoint the session dials.
func (s *Session) URL() string {
	return s.url
}

func (s *Session) activateLocked() (update, bool) {
	if h := s.handle; h != nil && h.state != handleClosed {
		return update{}, false
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.nextID++
	h := &handle{id: s.nextID, state: handleOpening, cancel: cancel}
	s.handle = h

	s.state = Transition(s.state, EventActivate)
	s.status = StatusConnecting
	s.stats.Attempts++
	s.log.Debug("handle %d: dialing %s (attempt %d)", h.id, s.url, s.stats.Attempts)

	go s.run(ctx, h)

	return s.updateLocked(), true
}

// run drives one handle: dial, then read until the connection ends.
func (s *Session) run(ctx context.Context, h *handle) {
	conn, err := s.dialer.Dial(ctx, s.url)
	if err != nil {
		s.onError(h, err)
		s.onClose(h)
		return
	}
	defer conn.Close()

	if !s.onOpen(h, conn) {
		return
	}

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.onError(h, err)
			}
			s.onClose(h)
			return
		}
		s.onMessage(h, data)
	}
}

func (s *Session) onOpen(h *handle, conn Conn) bool {
	s.mu.Lock()
	if s.handle != h {
		s.mu.Unlock()
		return false
	}

	h.state = handleOpen
	h.conn = conn
	s.state = Transition(s.state, EventOpen)
	s.status = StatusConnected
	s.cancelRetryLocked()
	s.stats.Attempts = 0
	s.stats.LastError = ""
	s.stats.ConnectedAt = s.clock.Now()
	u := s.updateLocked()
	s.mu.Unlock()

	s.log.Debug("handle %d: open", h.id)
	s.publish(u)
	return true
}

func (s *Session) onMessage(h *handle, data []byte) {
	snap, err := DecodeSnapshot(data)

	s.mu.Lock()
	if s.handle != h {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.stats.DroppedFrames++
		s.mu.Unlock()
		s.log.Warn("handle %d: dropping frame (%d bytes): %v", h.id, len(data), err)
		return
	}

	s.snapshot = snap
	s.stats.Frames++
	s.stats.LastMessageAt = s.clock.Now()
	u := s.updateLocked()
	s.mu.Unlock()

	s.publish(u)
}

func (s *Session) onError(h *handle, err error) {
	s.mu.Lock()
	if s.handle != h {
		s.mu.Unlock()
		return
	}

	h.state = handleClosed
	s.state = Transition(s.state, EventError)
	s.status = StatusDisconnected
	s.stats.LastError = err.Error()
	s.stats.ConnectedAt = time.Time{}
	s.scheduleRetryLocked()
	u := s.updateLocked()
	s.mu.Unlock()

	s.log.Debug("handle %d: error: %v", h.id, err)
	s.publish(u)
}

func (s *Session) onClose(h *handle) {
	s.mu.Lock()
	if s.handle != h {
		s.mu.Unlock()
		return
	}

	h.state = handleClosed
	h.conn = nil
	s.state = Transition(s.state, EventClose)
	s.status = StatusDisconnected
	s.stats.ConnectedAt = time.Time{}
	s.scheduleRetryLocked()
	u := s.updateLocked()
	s.mu.Unlock()

	s.log.Debug("handle %d: closed", h.id)
	s.publish(u)
}

// scheduleRetryLocked arms the retry timer unless one is already pending.
func (s *Session) scheduleRetryLocked() {
	if s.retry != nil || !s.active {
		return
	}

	rt := &retryTimer{}
	rt.timer = s.clock.AfterFunc(s.interval, func() {
		s.fireRetry(rt)
	})
	s.retry = rt
	s.log.Debug("reconnecting in %s", s.interval)
}

func (s *Session) fireRetry(rt *retryTimer) {
	s.mu.Lock()
	if s.retry != rt {
		// Cancelled after the timer had already fired.
		s.mu.Unlock()
		return
	}
	s.retry = nil
	u, ok := s.activateLocked()
	s.mu.Unlock()

	if ok {
		s.publish(u)
	}
}

func (s *Session) cancelRetryLocked() {
	if s.retry == nil {
		return
	}
	s.retry.timer.Stop()
	s.retry = nil
}

func (s *Session) updateLocked() update {
	s.seq++
	return update{seq: s.seq, snapshot: s.snapshot, status: s.status}
}

// publish delivers u unless a newer update was already delivered or the
// session was deactivated after u was produced.
func (s *Session) publish(u update) {
	if s.observer == nil {
		return
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if u.seq <= s.delivered || u.seq <= s.floor.Load() {
		return
	}
	s.delivered = u.seq
	s.observer(u.snapshot, u.status)
}

// DecodeSnapshot parses one frame. Anything but a JSON object is an error.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNotObject
	}
	return snap, nil
}

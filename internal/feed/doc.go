// Package feed keeps one telemetry stream open to the dashboard backend.
//
// A Session owns exactly one stream handle and at most one pending retry
// timer. It publishes the latest decoded Snapshot and a tri-state Status to
// an Observer. Hosts (the TUI dashboard, the tail printer) own the session,
// call Activate/Deactivate around their lifetime and forward liveness hints
// such as terminal focus or SIGCONT.
//
// # State Machine
//
//	          Activate            Open
//	Idle ──────────────▶ Connecting ──────▶ Connected
//	  ▲                      │  ▲               │
//	  │ Deactivate     Close │  │ Activate      │ Close/Error
//	  │ (from any)     Error ▼  │ (retry, hint) ▼
//	  └──────────────── Disconnected ◀──────────┘
//
// Message events never change the state. Events delivered by a handle that
// is no longer the session's current handle are ignored.
//
// # Reconnection
//
// Close and error both arm the retry timer through one guard, so a transport
// that reports error then close still leaves a single pending retry. The
// interval is fixed (3s by default) with no backoff and no retry limit; the
// session retries until it connects or is deactivated.
//
// # Concurrency
//
// Handlers run under the session mutex, which gives them the atomicity a
// single event loop would. Observers are called outside the lock, in
// transition order; an update that loses a race to a newer one is dropped.
// Observers must not block. Hosts that need to hand updates to another loop
// use Latest.
package feed

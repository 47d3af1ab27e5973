package feed

// Update is one published (snapshot, status) pair.
type Update struct {
	Snapshot Snapshot
	Status   Status
}

// Latest is a single-slot mailbox that keeps only the newest update.
// Its Observe method never blocks, so it can be passed as a session
// Observer while another loop drains C at its own pace.
type Latest struct {
	ch chan Update
}

// NewLatest creates an empty mailbox.
func NewLatest() *Latest {
	return &Latest{ch: make(chan Update, 1)}
}

// Observe replaces any unread update with this one.
func (l *Latest) Observe(snap Snapshot, status Status) {
	u := Update{Snapshot: snap, Status: status}
	for {
		select {
		case l.ch <- u:
			return
		default:
		}
		// Slot is full: discard the stale update and try again.
		select {
		case <-l.ch:
		default:
		}
	}
}

// C returns the channel updates are delivered on.
func (l *Latest) C() <-chan Update {
	return l.ch
}

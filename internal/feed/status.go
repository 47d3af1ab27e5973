package feed

// Status is the connection health published to observers.
type Status int

const (
	// StatusConnecting is the zero value: a session that has not reported
	// anything yet is considered to be connecting.
	StatusConnecting Status = iota
	StatusConnected
	StatusDisconnected
)

// String returns a human-readable status string.
func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// MarshalText lets Status appear as a string in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is the session's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateDisconnected
)

// String returns a human-readable state string.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Status maps a state to the status it publishes. Idle publishes nothing;
// it reports disconnected for callers that ask anyway.
func (s State) Status() Status {
	switch s {
	case StateConnecting:
		return StatusConnecting
	case StateConnected:
		return StatusConnected
	default:
		return StatusDisconnected
	}
}

// Event is an input to the state machine.
type Event int

const (
	EventActivate Event = iota
	EventOpen
	EventClose
	EventError
	EventDeactivate
)

// String returns the event name used in logs.
func (e Event) String() string {
	switch e {
	case EventActivate:
		return "activate"
	case EventOpen:
		return "open"
	case EventClose:
		return "close"
	case EventError:
		return "error"
	case EventDeactivate:
		return "deactivate"
	default:
		return "unknown"
	}
}

// Transition returns the state that follows s on event e. Transitions that
// make no sense (open while idle, activate while connected) leave s unchanged.
func Transition(s State, e Event) State {
	switch e {
	case EventDeactivate:
		return StateIdle
	case EventActivate:
		if s == StateIdle || s == StateDisconnected {
			return StateConnecting
		}
	case EventOpen:
		if s == StateConnecting {
			return StateConnected
		}
	case EventClose, EventError:
		if s != StateIdle {
			return StateDisconnected
		}
	}
	return s
}

package domain

// SessionState is the externally observable lifecycle of a session.
// There is no intermediate "connecting" value: a session flips to
// Connected atomically once its transport has established itself.
type SessionState int

const (
	// StateDisconnected is the initial state, the state after Close,
	// and the terminal state when negotiation fails.
	StateDisconnected SessionState = iota

	// StateConnected means messages posted on the session are forwarded
	// to the peer.
	StateConnected
)

func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

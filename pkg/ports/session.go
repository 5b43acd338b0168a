package ports

import (
	"context"

	"github.com/castlet/castlet/pkg/domain"
)

// MessageHandler receives an application payload delivered on a session.
type MessageHandler func(payload []byte)

// StateHandler observes session lifecycle transitions.
type StateHandler func(state domain.SessionState)

// Session is the uniform contract every transport realizes: a
// bidirectional, stateful channel to a second display surface.
//
// PostMessage and Close are silent no-ops unless the session is
// connected; neither ever returns an error to the caller. OnMessage and
// OnStateChange are single-slot callbacks: each call replaces the prior
// handler rather than accumulating.
type Session interface {
	// URL is the target content URL, immutable after construction.
	URL() string

	// State returns the current lifecycle state.
	State() domain.SessionState

	// PostMessage forwards payload verbatim to the peer. No-op unless
	// connected. Payloads must not collide with the reserved handshake
	// tokens on the window transport.
	PostMessage(payload []byte)

	// Close tears the session down. No-op unless connected.
	Close()

	// OnMessage sets the application message callback.
	OnMessage(fn MessageHandler)

	// OnStateChange sets the lifecycle callback, fired on every
	// transition including to disconnected.
	OnStateChange(fn StateHandler)
}

// Transport is one concrete mechanism capable of realizing a Session.
// The negotiator tries transports in priority order on the controller
// side; the receiver bootstrapper probes them in the same order.
type Transport interface {
	// Name identifies the transport in logs and metrics.
	Name() string

	// Create establishes a controller-side session for url. It blocks
	// until the transport has definitively succeeded or failed; it never
	// times out on its own, but honors ctx cancellation.
	Create(ctx context.Context, url string) (Session, error)

	// StartReceiver detects whether the current execution context runs
	// inside this transport's receiver environment and, if so, returns
	// the receiver-side session once it is ready.
	StartReceiver(ctx context.Context) (Session, error)
}

// ReadyAnnouncer is an optional capability of receiver-side sessions
// whose readiness signal is a protocol step rather than part of session
// establishment. The receiver bootstrapper invokes it once, after the
// present event has fired.
type ReadyAnnouncer interface {
	AnnounceReady()
}

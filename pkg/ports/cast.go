package ports

import "context"

// CastSession is the native session object handed out by the cast
// library once a connection to a remote device exists. Messages are
// scoped to a single named channel.
type CastSession interface {
	// Send forwards payload on the named channel.
	Send(channel string, payload []byte) error

	// OnMessage sets the single-slot receive callback for the named
	// channel.
	OnMessage(channel string, fn func(payload []byte))

	// OnStatus sets the single-slot liveness callback. The library fires
	// it on every liveness update, including repeats.
	OnStatus(fn func(alive bool))

	// Leave requests the native session stop. Known limitation of the
	// underlying protocol: stopping terminates the whole remote
	// application, not just this channel.
	Leave() error
}

// ReceiverManager is the native receiver-side manager. Start-up and
// readiness are folded into CastLibrary.StartReceiverHost; once returned,
// the manager is ready.
type ReceiverManager interface {
	// Broadcast sends payload on the named channel to every connected
	// sender. The native protocol offers no per-sender addressing here.
	Broadcast(channel string, payload []byte) error

	// OnMessage sets the single-slot receive callback for the named
	// channel. senderID identifies the originating sender.
	OnMessage(channel string, fn func(senderID string, payload []byte))

	// Stop shuts the receiver manager down entirely.
	Stop() error
}

// CastLibrary abstracts the native cast runtime the cast transport
// depends on. Production embedders supply a binding to the real runtime;
// tests substitute a fake implementing the same contract.
type CastLibrary interface {
	// Available reports whether the native runtime is loaded in this
	// execution context at all.
	Available() bool

	// Initialize performs the one-time library setup for the given
	// launch identifier. The transport shares a single in-flight
	// initialization across concurrent sessions and only re-invokes it
	// after a failed attempt; implementations need not guard.
	Initialize(ctx context.Context, launchID string) error

	// DevicesAvailable probes whether at least one compatible remote
	// device is reachable.
	DevicesAvailable(ctx context.Context) (bool, error)

	// RequestSession asks the runtime for a brand-new native session,
	// typically raising a device-picker dialog. A cancelled dialog
	// surfaces as domain.ErrSessionDeclined.
	RequestSession(ctx context.Context, launchID string) (CastSession, error)

	// Resumed returns a channel on which the runtime delivers a
	// previously active session it was able to restore, if any. May
	// return nil when the runtime has no resume support.
	Resumed() <-chan CastSession

	// IsReceiverHost reports whether this execution context fingerprints
	// as the native receiver environment.
	IsReceiverHost() bool

	// StartReceiverHost starts the native receiver manager and returns
	// it once it reports ready.
	StartReceiverHost(ctx context.Context) (ReceiverManager, error)
}

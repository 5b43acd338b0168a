package ports

import "context"

// Messenger is one end of a generic bidirectional postable-message
// channel between two execution contexts.
type Messenger interface {
	// Post delivers payload to the peer context.
	Post(payload []byte) error

	// OnMessage sets the single-slot receive callback.
	OnMessage(fn func(payload []byte))
}

// DisplaySurface is a secondary display surface opened by a controller,
// reachable through its message channel.
type DisplaySurface interface {
	Messenger

	// Close closes the surface (and with it the channel).
	Close() error
}

// SurfaceOpener opens secondary display surfaces. A blocked or otherwise
// failed open returns domain.ErrSurfaceBlocked.
type SurfaceOpener interface {
	// Open launches a surface at url. intent tags the request so the
	// opened context can recognize it (domain.PresentationIntent).
	Open(ctx context.Context, url, intent string) (DisplaySurface, error)
}

// WindowEnvironment is what a receiver candidate sees of its own
// execution context: an optional back-channel to whoever opened it, and
// an unload notification.
type WindowEnvironment interface {
	// Opener returns the message channel back to the opening context,
	// or ok=false when this context was not opened by anyone.
	Opener() (Messenger, bool)

	// OnUnload registers fn to run when this context is torn down.
	OnUnload(fn func())

	// URL returns the content URL this context is displaying.
	URL() string
}

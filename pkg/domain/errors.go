package domain

import "errors"

// ErrLibraryUnavailable is returned when the native cast runtime is not
// loaded in the current execution context.
var ErrLibraryUnavailable = errors.New("cast library unavailable")

// ErrAppNotRegistered is returned by registry lookups for URLs with no
// launch identifier. The negotiator treats it as "skip this transport",
// not as a failure of the whole negotiation.
var ErrAppNotRegistered = errors.New("application not registered")

// ErrNoDeviceAvailable is returned when the capability probe reports no
// compatible remote device. Callers may retry a whole new negotiation
// later; the transport itself never retries.
var ErrNoDeviceAvailable = errors.New("no compatible device available")

// ErrSessionDeclined is returned when the native connection dialog was
// cancelled by the user. Logged only; callers cannot distinguish it from
// ErrNoDeviceAvailable through session state.
var ErrSessionDeclined = errors.New("session request declined")

// ErrNotReceiver is returned by StartReceiver when the current context is
// not the transport's receiver environment.
var ErrNotReceiver = errors.New("not running as a receiver")

// ErrSurfaceBlocked is returned when the secondary display surface could
// not be opened (e.g. blocked by the host environment).
var ErrSurfaceBlocked = errors.New("display surface could not be opened")

// ErrNoOpener is returned by the window transport's StartReceiver when
// the current context has no opener reference at all.
var ErrNoOpener = errors.New("no opener reference")

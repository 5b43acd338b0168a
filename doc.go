/*
Package castlet gives callers a single abstraction, the presentation
session, for projecting content onto a second display and exchanging
messages with it, while the actual transport may be one of several
mutually incompatible mechanisms: a native cast protocol, or a plain
secondary window reachable through a generic message channel.

Callers never learn which transport was used. The controller side tries
transports in priority order until one succeeds and wraps the winner
behind a uniform session façade; the receiver side detects which
transport environment it is running inside and produces the matching
session, then signals readiness back to the controller.

# Architecture

The core is hexagonal: pkg/ports defines the session and transport
contracts plus the capabilities the host environment must inject (the
native cast library, the surface opener), and pkg/adapters implements
them. The negotiator and receiver bootstrapper are plain sequential
fallbacks over the same transport list.

# Controller usage

	ctrl := castlet.New(
		castlet.WithCastLibrary(myCastBinding),
		castlet.WithSurfaceOpener(myOpener),
	)
	_ = ctrl.RegisterApplication(ctx, "https://host/slides", "APP-ID-1")

	sess := ctrl.RequestSession(ctx, "https://host/slides")
	sess.OnStateChange(func(s domain.SessionState) {
		log.Println("session is now", s)
	})
	sess.PostMessage([]byte(`{"cmd":"next"}`))

RequestSession returns immediately; the façade reports disconnected
until negotiation completes, and forever if every transport fails.

# Receiver usage

	recv := castlet.NewReceiver(
		castlet.WithWindowEnvironment(myEnv),
	)
	recv.OnPresent(func(p receiver.Present) {
		dispatcher.Bind(p.Session)
	})
	recv.Run(ctx)

# Known limitations

Sessions do not reconnect after close, there is no multi-receiver
fan-out, and no blocking operation carries an internal timeout: a
transport that stalls mid-handshake blocks until the caller's context is
cancelled. Stopping a cast session terminates the whole remote
application; this is a property of the underlying protocol.
*/
package castlet

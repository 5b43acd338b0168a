// Package receiver holds the receiver-side bootstrapper: on load it
// detects which transport environment the current execution context runs
// inside and delivers the matching session through a single present
// event.
package receiver

import (
	"context"
	"log/slog"
	"sync"

	"github.com/castlet/castlet/internal/logging"
	"github.com/castlet/castlet/pkg/ports"
)

// Present carries the resolved receiver-side session.
type Present struct {
	Session ports.Session
}

// Bootstrapper probes transports in priority order. If none recognizes
// the current context, the page is not a receiver and no event fires.
type Bootstrapper struct {
	transports []ports.Transport
	logger     *slog.Logger

	mu        sync.Mutex
	onPresent func(Present)
	fired     bool
}

type Option func(*Bootstrapper)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bootstrapper) {
		b.logger = logger
	}
}

// New creates a bootstrapper over the given transports, probed in the
// order given (conventionally cast first, window second).
func New(transports []ports.Transport, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		transports: transports,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OnPresent sets the single-slot present callback. Set it before Run.
func (b *Bootstrapper) OnPresent(fn func(Present)) {
	b.mu.Lock()
	b.onPresent = fn
	b.mu.Unlock()
}

// Run probes each transport's receiver detection in order. On the first
// success it fires OnPresent exactly once and then announces readiness
// for transports whose readiness signal is a protocol step (the window
// transport) after the event, so application code observes one unified
// moment across transports. Returns true when this context is a
// receiver.
func (b *Bootstrapper) Run(ctx context.Context) bool {
	for _, transport := range b.transports {
		sess, err := transport.StartReceiver(ctx)
		if err != nil {
			b.logger.Debug("not a receiver for transport",
				"transport", transport.Name(), "err", err)
			continue
		}

		b.mu.Lock()
		if b.fired {
			b.mu.Unlock()
			return true
		}
		b.fired = true
		fn := b.onPresent
		b.mu.Unlock()

		b.logger.Info("receiver session presented", "transport", transport.Name())
		if fn != nil {
			fn(Present{Session: sess})
		}
		if ra, ok := sess.(ports.ReadyAnnouncer); ok {
			ra.AnnounceReady()
		}
		return true
	}

	b.logger.Debug("no transport recognized this context; running as a plain page")
	return false
}

package castlet

import (
	"context"
	"log/slog"

	"github.com/castlet/castlet/internal/logging"
	"github.com/castlet/castlet/pkg/adapters/cast"
	"github.com/castlet/castlet/pkg/adapters/window"
	"github.com/castlet/castlet/pkg/negotiation"
	"github.com/castlet/castlet/pkg/observability"
	"github.com/castlet/castlet/pkg/ports"
	"github.com/castlet/castlet/pkg/receiver"
	"github.com/castlet/castlet/pkg/registry"
	"github.com/castlet/castlet/pkg/session"
)

// Version is the castlet release version.
var Version = "0.3.0"

// Controller is the high-level controller-side entry point. It wires the
// application registry, the transports and the negotiator behind a
// two-call API: RegisterApplication and RequestSession.
type Controller struct {
	registry   ports.ApplicationRegistry
	castLib    ports.CastLibrary
	opener     ports.SurfaceOpener
	metrics    *observability.Metrics
	logger     *slog.Logger
	negotiator *negotiation.Negotiator
}

// Option defines a functional option for configuring the Controller.
type Option func(*Controller)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithRegistry injects a custom application registry (e.g. the redis
// adapter), bypassing the default in-memory table.
func WithRegistry(reg ports.ApplicationRegistry) Option {
	return func(c *Controller) {
		c.registry = reg
	}
}

// WithCastLibrary injects the native cast runtime binding. Without it
// the cast transport reports unavailable and negotiation falls through
// to the window transport.
func WithCastLibrary(lib ports.CastLibrary) Option {
	return func(c *Controller) {
		c.castLib = lib
	}
}

// WithSurfaceOpener injects the secondary-display opener used by the
// window transport.
func WithSurfaceOpener(opener ports.SurfaceOpener) Option {
	return func(c *Controller) {
		c.opener = opener
	}
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// New initializes a Controller. By default it uses an in-memory
// application registry and carries no cast runtime or surface opener;
// supply those through options to enable the matching transports.
func New(opts ...Option) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.registry == nil {
		c.registry = registry.New()
	}

	transports := []ports.Transport{
		cast.New(
			cast.WithLibrary(c.castLib),
			cast.WithRegistry(c.registry),
			cast.WithLogger(c.logger),
		),
		window.New(
			window.WithOpener(c.opener),
			window.WithLogger(c.logger),
		),
	}

	c.negotiator = negotiation.New(transports,
		negotiation.WithLogger(c.logger),
		negotiation.WithMetrics(c.metrics),
	)
	return c
}

// RegisterApplication stores the cast launch identifier for url. Call it
// before any RequestSession targeting that URL if cast support is
// desired; re-registration overwrites the prior identifier.
func (c *Controller) RegisterApplication(ctx context.Context, url, launchID string) error {
	return c.registry.Register(ctx, url, launchID)
}

// RequestSession starts negotiating a presentation session for url and
// returns the façade immediately. Failure of every transport leaves the
// façade permanently disconnected.
func (c *Controller) RequestSession(ctx context.Context, url string) *session.Presentation {
	return c.negotiator.RequestSession(ctx, url)
}

// Registry returns the underlying application registry.
func (c *Controller) Registry() ports.ApplicationRegistry {
	return c.registry
}

// Receiver is the high-level receiver-side entry point.
type Receiver struct {
	castLib      ports.CastLibrary
	env          ports.WindowEnvironment
	logger       *slog.Logger
	bootstrapper *receiver.Bootstrapper
}

// ReceiverOption defines a functional option for configuring the
// Receiver.
type ReceiverOption func(*Receiver)

// WithReceiverLogger sets a custom structured logger.
func WithReceiverLogger(logger *slog.Logger) ReceiverOption {
	return func(r *Receiver) {
		r.logger = logger
	}
}

// WithReceiverCastLibrary injects the native cast runtime binding for
// receiver detection.
func WithReceiverCastLibrary(lib ports.CastLibrary) ReceiverOption {
	return func(r *Receiver) {
		r.castLib = lib
	}
}

// WithWindowEnvironment injects the window environment of the current
// context for opener detection.
func WithWindowEnvironment(env ports.WindowEnvironment) ReceiverOption {
	return func(r *Receiver) {
		r.env = env
	}
}

// NewReceiver initializes a Receiver over the same transport priority
// order as the controller side.
func NewReceiver(opts ...ReceiverOption) *Receiver {
	r := &Receiver{}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logging.NewNop()
	}

	transports := []ports.Transport{
		cast.New(
			cast.WithLibrary(r.castLib),
			cast.WithLogger(r.logger),
		),
		window.New(
			window.WithEnvironment(r.env),
			window.WithLogger(r.logger),
		),
	}

	r.bootstrapper = receiver.New(transports, receiver.WithLogger(r.logger))
	return r
}

// OnPresent sets the single-slot present callback. Set it before Run.
func (r *Receiver) OnPresent(fn func(receiver.Present)) {
	r.bootstrapper.OnPresent(fn)
}

// Run detects the receiver environment and fires OnPresent on success.
// Returns false when this context is a plain page.
func (r *Receiver) Run(ctx context.Context) bool {
	return r.bootstrapper.Run(ctx)
}

// Package negotiation holds the controller-side transport negotiator:
// the sequential fallback across transports that produces the one
// presentation session façade application code sees.
package negotiation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/castlet/castlet/internal/logging"
	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/observability"
	"github.com/castlet/castlet/pkg/ports"
	"github.com/castlet/castlet/pkg/session"
)

// Negotiator tries transports in priority order until one produces a
// session. Negotiation failure is observable only through the façade's
// state, never through a distinct error channel.
type Negotiator struct {
	transports []ports.Transport
	logger     *slog.Logger
	metrics    *observability.Metrics
}

type Option func(*Negotiator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Negotiator) {
		n.logger = logger
	}
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(n *Negotiator) {
		n.metrics = m
	}
}

// New creates a negotiator over the given transports, tried in the order
// given. The conventional order is cast first, window second.
func New(transports []ports.Transport, opts ...Option) *Negotiator {
	n := &Negotiator{
		transports: transports,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// RequestSession returns a façade immediately (state disconnected, no
// inner session yet) and negotiates in the background. A later transport
// is never attempted before the prior one has definitively failed; when
// every transport fails the façade stays permanently disconnected.
func (n *Negotiator) RequestSession(ctx context.Context, url string) *session.Presentation {
	facade := session.New(url,
		session.WithStateObserver(n.stateObserver()),
		session.WithPostObserver(n.postObserver()),
	)
	go n.negotiate(ctx, url, facade)
	return facade
}

func (n *Negotiator) negotiate(ctx context.Context, url string, facade *session.Presentation) {
	for _, transport := range n.transports {
		n.metrics.Attempt(transport.Name())

		inner, err := transport.Create(ctx, url)
		if err != nil {
			n.metrics.Failure(transport.Name())
			n.logger.Debug("transport failed, falling back",
				"transport", transport.Name(), "url", url, "err", err)
			continue
		}

		n.metrics.Established(transport.Name())
		facade.Bind(inner)
		n.logger.Info("session negotiated", "transport", transport.Name(), "url", url)
		return
	}

	n.logger.Warn("negotiation failed on every transport", "url", url)
}

// stateObserver keeps the active-session gauge honest: one decrement per
// façade on its first disconnect. Sessions never reconnect after that.
func (n *Negotiator) stateObserver() ports.StateHandler {
	if n.metrics == nil {
		return nil
	}
	var once sync.Once
	return func(state domain.SessionState) {
		if state == domain.StateDisconnected {
			once.Do(n.metrics.Dropped)
		}
	}
}

// postObserver counts payloads forwarded through the façade.
func (n *Negotiator) postObserver() func() {
	if n.metrics == nil {
		return nil
	}
	return n.metrics.Posted
}

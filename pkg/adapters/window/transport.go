// Package window implements the presentation session contract over a
// generic postable-message channel between two execution contexts, with
// no native dependency. Establishment is a fixed token handshake; see
// handshake.go for the protocol machine.
package window

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/castlet/castlet/internal/logging"
	"github.com/castlet/castlet/internal/syncutil"
	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
)

// TransportName identifies this transport in logs and metrics.
const TransportName = "window"

// Transport realizes sessions over secondary display surfaces. The
// controller side needs a SurfaceOpener; the receiver side needs a
// WindowEnvironment. Either may be absent for a one-sided process.
type Transport struct {
	opener ports.SurfaceOpener
	env    ports.WindowEnvironment
	logger *slog.Logger
}

var _ ports.Transport = (*Transport)(nil)

type Option func(*Transport)

// WithOpener supplies the controller-side surface opener.
func WithOpener(o ports.SurfaceOpener) Option {
	return func(t *Transport) {
		t.opener = o
	}
}

// WithEnvironment supplies the receiver-side window environment.
func WithEnvironment(env ports.WindowEnvironment) Option {
	return func(t *Transport) {
		t.env = env
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// New creates the window transport.
func New(opts ...Option) *Transport {
	t := &Transport{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns "window".
func (t *Transport) Name() string { return TransportName }

// Create opens a secondary surface at url tagged with the presentation
// intent, then waits for the readiness handshake. There is no internal
// timeout: a candidate that never answers leaves Create blocked until
// ctx is cancelled.
func (t *Transport) Create(ctx context.Context, url string) (ports.Session, error) {
	if t.opener == nil {
		return nil, fmt.Errorf("window transport: no opener configured: %w", domain.ErrSurfaceBlocked)
	}

	surface, err := t.opener.Open(ctx, url, domain.PresentationIntent)
	if err != nil {
		return nil, fmt.Errorf("window transport: %w", err)
	}
	if surface == nil {
		return nil, fmt.Errorf("window transport: open returned no surface: %w", domain.ErrSurfaceBlocked)
	}

	s := newControllerSession(url, surface, t.logger)
	ready := syncutil.NewSettler[struct{}]()
	s.onEstablished = func() {
		ready.Resolve(struct{}{})
	}
	surface.OnMessage(s.handleRaw)

	t.logger.Debug("surface opened, awaiting handshake", "url", url)

	select {
	case <-ready.Done():
		t.logger.Info("window session established", "url", url)
		return s, nil
	case <-ctx.Done():
		_ = surface.Close()
		return nil, fmt.Errorf("window transport: handshake aborted: %w", ctx.Err())
	}
}

// StartReceiver checks whether this context was opened by a controller
// and, if so, runs the receiver half of the handshake. It blocks until
// the opener confirms (or forever, if it never does and ctx is never
// cancelled).
func (t *Transport) StartReceiver(ctx context.Context) (ports.Session, error) {
	if t.env == nil {
		return nil, fmt.Errorf("window transport: no environment configured: %w", domain.ErrNoOpener)
	}
	opener, ok := t.env.Opener()
	if !ok {
		return nil, fmt.Errorf("window transport: %w", domain.ErrNoOpener)
	}

	s := newReceiverSession(t.env.URL(), opener, t.logger)
	confirmed := syncutil.NewSettler[struct{}]()
	s.onEstablished = func() {
		confirmed.Resolve(struct{}{})
	}
	opener.OnMessage(s.handleRaw)
	t.env.OnUnload(s.shutdown)

	// Announce ourselves to the opener.
	s.mu.Lock()
	res := s.hs.start()
	s.mu.Unlock()
	if res.emit != "" {
		if err := opener.Post([]byte(res.emit)); err != nil {
			return nil, fmt.Errorf("window transport: probe failed: %w", err)
		}
	}

	select {
	case <-confirmed.Done():
		t.logger.Info("window receiver confirmed", "url", s.URL())
		return s, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("window transport: confirmation aborted: %w", ctx.Err())
	}
}

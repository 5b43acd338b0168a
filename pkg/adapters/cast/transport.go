// Package cast implements the presentation session contract on top of a
// native cast runtime, injected as ports.CastLibrary. The transport owns
// the multi-step connection protocol: lazy one-time library
// initialization, the device capability probe, and the race between
// requesting a new native session and resuming an existing one.
package cast

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/castlet/castlet/internal/logging"
	"github.com/castlet/castlet/internal/syncutil"
	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
)

// TransportName identifies this transport in logs and metrics.
const TransportName = "cast"

// messageNamespace is the single named channel castlet uses on the
// native transport, on both the sender and receiver side.
const messageNamespace = "urn:x-cast:dev.castlet.presentation"

// Transport realizes sessions over the native cast protocol.
type Transport struct {
	lib      ports.CastLibrary
	registry ports.ApplicationRegistry
	logger   *slog.Logger

	mu   sync.Mutex
	init *initState
}

// initState tracks the one-time library initialization. A Create that
// arrives while initialization is pending or already complete waits on
// done instead of re-initializing.
type initState struct {
	done chan struct{}
	err  error
}

var _ ports.Transport = (*Transport)(nil)

type Option func(*Transport)

// WithLibrary injects the native cast runtime binding.
func WithLibrary(lib ports.CastLibrary) Option {
	return func(t *Transport) {
		t.lib = lib
	}
}

// WithRegistry injects the application registry used to resolve launch
// identifiers.
func WithRegistry(reg ports.ApplicationRegistry) Option {
	return func(t *Transport) {
		t.registry = reg
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// New creates the cast transport.
func New(opts ...Option) *Transport {
	t := &Transport{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns "cast".
func (t *Transport) Name() string { return TransportName }

// Create establishes a controller-side session for url. It fails
// immediately when the native runtime is absent or url has no registered
// launch identifier, probes device availability, then resolves to a
// single native session even when both the "request new" and "resume
// existing" paths would succeed.
func (t *Transport) Create(ctx context.Context, url string) (ports.Session, error) {
	if t.lib == nil || !t.lib.Available() {
		return nil, fmt.Errorf("cast transport: %w", domain.ErrLibraryUnavailable)
	}
	if t.registry == nil {
		return nil, fmt.Errorf("cast transport: no registry configured: %w", domain.ErrAppNotRegistered)
	}

	launchID, err := t.registry.Lookup(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("cast transport: %w", err)
	}

	if err := t.ensureInitialized(ctx, launchID); err != nil {
		return nil, fmt.Errorf("cast transport: initialization failed: %w", err)
	}

	available, err := t.lib.DevicesAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("cast transport: capability probe failed: %w", err)
	}
	if !available {
		return nil, fmt.Errorf("cast transport: %w", domain.ErrNoDeviceAvailable)
	}

	// Request a new native session while listening for a resumable one
	// the runtime may restore. Whichever settles first wins; the settler
	// guarantees the loser becomes a no-op.
	settle := syncutil.NewSettler[ports.CastSession]()

	go func() {
		native, err := t.lib.RequestSession(ctx, launchID)
		if err != nil {
			if settle.Reject(err) {
				t.logger.Debug("session request failed", "err", err, "url", url)
			}
			return
		}
		if !settle.Resolve(native) {
			t.logger.Debug("requested session lost the race to a resumed one", "url", url)
		}
	}()

	if resumed := t.lib.Resumed(); resumed != nil {
		go func() {
			select {
			case native := <-resumed:
				if settle.Resolve(native) {
					t.logger.Info("resumed existing cast session", "url", url)
				}
			case <-settle.Done():
			}
		}()
	}

	select {
	case <-settle.Done():
	case <-ctx.Done():
		return nil, fmt.Errorf("cast transport: %w", ctx.Err())
	}

	native, err := settle.Result()
	if err != nil {
		return nil, fmt.Errorf("cast transport: %w", err)
	}

	t.logger.Info("cast session established", "url", url, "app", launchID)
	return newSession(url, native, t.logger), nil
}

// StartReceiver starts the native receiver manager when this context
// fingerprints as the receiver environment.
func (t *Transport) StartReceiver(ctx context.Context) (ports.Session, error) {
	if t.lib == nil || !t.lib.Available() || !t.lib.IsReceiverHost() {
		return nil, fmt.Errorf("cast transport: %w", domain.ErrNotReceiver)
	}

	manager, err := t.lib.StartReceiverHost(ctx)
	if err != nil {
		return nil, fmt.Errorf("cast transport: receiver start failed: %w", err)
	}

	t.logger.Info("cast receiver manager ready")
	return newReceiverSession(manager, t.logger), nil
}

// ensureInitialized performs the lazy one-time library setup. Concurrent
// and repeated calls share a single initialization; a failed attempt is
// cleared so a later Create can retry.
func (t *Transport) ensureInitialized(ctx context.Context, launchID string) error {
	t.mu.Lock()
	if t.init == nil {
		st := &initState{done: make(chan struct{})}
		t.init = st
		go func() {
			st.err = t.lib.Initialize(context.WithoutCancel(ctx), launchID)
			if st.err != nil {
				t.mu.Lock()
				t.init = nil
				t.mu.Unlock()
			}
			close(st.done)
		}()
	}
	st := t.init
	t.mu.Unlock()

	select {
	case <-st.done:
		return st.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

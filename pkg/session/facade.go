// Package session holds the presentation session façade, the only
// session object handed to application code on the controller side. The
// façade wraps whichever transport session negotiation produced and
// forwards its lifecycle and message events.
package session

import (
	"sync"

	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
)

// Presentation wraps at most one inner transport session. Before
// negotiation completes (and forever after negotiation fails) it has no
// inner session and reports disconnected; PostMessage and Close are
// silent no-ops in that state.
type Presentation struct {
	mu     sync.Mutex
	url    string
	inner  ports.Session
	closed bool

	onMessage     ports.MessageHandler
	onStateChange ports.StateHandler

	// lastState/pending latch transitions that arrive while no state
	// handler is installed, so a listener attached after the transition
	// still hears it. Negotiation runs on a goroutine, so binding can
	// beat the caller's OnStateChange call.
	lastState domain.SessionState
	pending   bool

	// observer is an additional state listener reserved for the library
	// itself (instrumentation). It is not part of the session contract
	// and never occupies the application's single OnStateChange slot.
	observer ports.StateHandler

	// onPosted is a library-internal hook fired for every payload that
	// was actually forwarded to the inner session.
	onPosted func()
}

var _ ports.Session = (*Presentation)(nil)

// Option configures a façade at construction time.
type Option func(*Presentation)

// WithStateObserver attaches a library-internal state listener that runs
// alongside the application's OnStateChange callback.
func WithStateObserver(fn ports.StateHandler) Option {
	return func(p *Presentation) {
		p.observer = fn
	}
}

// WithPostObserver attaches a library-internal hook fired once per
// payload forwarded to the inner session.
func WithPostObserver(fn func()) Option {
	return func(p *Presentation) {
		p.onPosted = fn
	}
}

// New returns an unbound façade for url, state disconnected.
func New(url string, opts ...Option) *Presentation {
	p := &Presentation{url: url}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// URL returns the target content URL.
func (p *Presentation) URL() string {
	return p.url
}

// State mirrors the inner session, or disconnected when none is bound.
func (p *Presentation) State() domain.SessionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inner == nil || p.closed {
		return domain.StateDisconnected
	}
	return p.inner.State()
}

// Bind installs the transport session negotiation produced. It wires
// message and state pass-through, and if the session is already connected
// at bind time, fires one state notification immediately: the transition
// happened before the façade had a listener attached.
func (p *Presentation) Bind(inner ports.Session) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		// The caller closed the façade while negotiation was in flight;
		// nobody else holds the winning session, so release it here.
		inner.Close()
		return
	}
	if p.inner != nil {
		p.mu.Unlock()
		return
	}
	p.inner = inner
	p.mu.Unlock()

	inner.OnMessage(func(payload []byte) {
		p.mu.Lock()
		fn := p.onMessage
		p.mu.Unlock()
		if fn != nil {
			fn(payload)
		}
	})
	inner.OnStateChange(func(state domain.SessionState) {
		p.notifyState(state)
	})

	if inner.State() == domain.StateConnected {
		p.notifyState(domain.StateConnected)
	}
}

func (p *Presentation) notifyState(state domain.SessionState) {
	p.mu.Lock()
	fn := p.onStateChange
	obs := p.observer
	p.lastState = state
	p.pending = fn == nil
	p.mu.Unlock()

	if fn != nil {
		fn(state)
	}
	if obs != nil {
		obs(state)
	}
}

// PostMessage forwards payload to the inner session. Silent no-op when
// no inner session exists, after Close, or while not connected.
func (p *Presentation) PostMessage(payload []byte) {
	p.mu.Lock()
	inner := p.inner
	closed := p.closed
	p.mu.Unlock()

	if inner == nil || closed {
		return
	}
	if inner.State() != domain.StateConnected {
		return
	}
	inner.PostMessage(payload)

	p.mu.Lock()
	posted := p.onPosted
	p.mu.Unlock()
	if posted != nil {
		posted()
	}
}

// Close releases the inner session reference. Any later PostMessage is a
// silent no-op.
func (p *Presentation) Close() {
	p.mu.Lock()
	inner := p.inner
	alreadyClosed := p.closed
	p.closed = true
	p.inner = nil
	p.mu.Unlock()

	if inner == nil || alreadyClosed {
		return
	}
	inner.Close()
}

// OnMessage sets the application message callback. Replaces any prior
// handler.
func (p *Presentation) OnMessage(fn ports.MessageHandler) {
	p.mu.Lock()
	p.onMessage = fn
	p.mu.Unlock()
}

// OnStateChange sets the lifecycle callback. Replaces any prior handler.
// A transition that arrived while no handler was installed is replayed
// immediately, so a listener attached after negotiation completed still
// hears the connected event.
func (p *Presentation) OnStateChange(fn ports.StateHandler) {
	p.mu.Lock()
	p.onStateChange = fn
	replay := p.pending && fn != nil
	state := p.lastState
	if replay {
		p.pending = false
	}
	p.mu.Unlock()

	if replay {
		fn(state)
	}
}

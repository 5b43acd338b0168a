package cast

import (
	"log/slog"
	"sync"

	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
)

// Session is the controller-side session over a native cast session. It
// starts connected; the native object's liveness updates drive all later
// transitions (alive -> connected, not alive -> disconnected).
type Session struct {
	mu     sync.Mutex
	url    string
	native ports.CastSession
	state  domain.SessionState
	logger *slog.Logger

	onMessage     ports.MessageHandler
	onStateChange ports.StateHandler
}

var _ ports.Session = (*Session)(nil)

func newSession(url string, native ports.CastSession, logger *slog.Logger) *Session {
	s := &Session{
		url:    url,
		native: native,
		state:  domain.StateConnected,
		logger: logger,
	}
	native.OnMessage(messageNamespace, func(payload []byte) {
		s.mu.Lock()
		fn := s.onMessage
		s.mu.Unlock()
		if fn != nil {
			fn(payload)
		}
	})
	native.OnStatus(func(alive bool) {
		if alive {
			s.transition(domain.StateConnected)
		} else {
			s.transition(domain.StateDisconnected)
		}
	})
	return s
}

// URL returns the target content URL.
func (s *Session) URL() string { return s.url }

// State returns the current lifecycle state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PostMessage forwards payload verbatim over the message namespace.
// No-op unless connected.
func (s *Session) PostMessage(payload []byte) {
	s.mu.Lock()
	if s.state != domain.StateConnected {
		s.mu.Unlock()
		return
	}
	native := s.native
	s.mu.Unlock()

	if err := native.Send(messageNamespace, payload); err != nil {
		s.logger.Warn("cast send failed", "err", err, "url", s.url)
	}
}

// Close requests the native session stop. No-op unless connected.
// Known limitation of the underlying protocol: stopping terminates the
// whole remote application, not just this channel.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state != domain.StateConnected {
		s.mu.Unlock()
		return
	}
	native := s.native
	s.mu.Unlock()

	if err := native.Leave(); err != nil {
		s.logger.Warn("cast session stop failed", "err", err, "url", s.url)
	}
	s.transition(domain.StateDisconnected)
}

// OnMessage sets the application message callback.
func (s *Session) OnMessage(fn ports.MessageHandler) {
	s.mu.Lock()
	s.onMessage = fn
	s.mu.Unlock()
}

// OnStateChange sets the lifecycle callback.
func (s *Session) OnStateChange(fn ports.StateHandler) {
	s.mu.Lock()
	s.onStateChange = fn
	s.mu.Unlock()
}

func (s *Session) transition(state domain.SessionState) {
	s.mu.Lock()
	if s.state == state {
		s.mu.Unlock()
		return
	}
	s.state = state
	fn := s.onStateChange
	s.mu.Unlock()

	if fn != nil {
		fn(state)
	}
}

// receiverSession wraps the native receiver manager. PostMessage
// broadcasts to every connected sender; the native protocol offers no
// per-sender addressing on this path.
type receiverSession struct {
	mu      sync.Mutex
	manager ports.ReceiverManager
	state   domain.SessionState
	logger  *slog.Logger

	onMessage     ports.MessageHandler
	onStateChange ports.StateHandler
}

var _ ports.Session = (*receiverSession)(nil)

func newReceiverSession(manager ports.ReceiverManager, logger *slog.Logger) *receiverSession {
	s := &receiverSession{
		manager: manager,
		state:   domain.StateConnected,
		logger:  logger,
	}
	manager.OnMessage(messageNamespace, func(senderID string, payload []byte) {
		s.mu.Lock()
		fn := s.onMessage
		s.mu.Unlock()
		if fn != nil {
			fn(payload)
		}
	})
	return s
}

// URL returns "": the receiver manager has no notion of the content URL
// it is hosting.
func (s *receiverSession) URL() string { return "" }

func (s *receiverSession) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *receiverSession) PostMessage(payload []byte) {
	s.mu.Lock()
	if s.state != domain.StateConnected {
		s.mu.Unlock()
		return
	}
	manager := s.manager
	s.mu.Unlock()

	if err := manager.Broadcast(messageNamespace, payload); err != nil {
		s.logger.Warn("cast broadcast failed", "err", err)
	}
}

// Close stops the receiver manager entirely.
func (s *receiverSession) Close() {
	s.mu.Lock()
	if s.state != domain.StateConnected {
		s.mu.Unlock()
		return
	}
	manager := s.manager
	s.state = domain.StateDisconnected
	fn := s.onStateChange
	s.mu.Unlock()

	if err := manager.Stop(); err != nil {
		s.logger.Warn("cast receiver stop failed", "err", err)
	}
	if fn != nil {
		fn(domain.StateDisconnected)
	}
}

func (s *receiverSession) OnMessage(fn ports.MessageHandler) {
	s.mu.Lock()
	s.onMessage = fn
	s.mu.Unlock()
}

func (s *receiverSession) OnStateChange(fn ports.StateHandler) {
	s.mu.Lock()
	s.onStateChange = fn
	s.mu.Unlock()
}

package window

import (
	"log/slog"
	"sync"

	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
)

// Session realizes the session contract over a generic postable-message
// channel. One instance serves either side: the controller wraps the
// surface it opened, the receiver wraps the channel back to its opener.
type Session struct {
	mu     sync.Mutex
	url    string
	peer   ports.Messenger
	closer func() error // controller: closes the surface; receiver: nil
	hs     *handshake
	state  domain.SessionState
	logger *slog.Logger

	onMessage     ports.MessageHandler
	onStateChange ports.StateHandler
	onEstablished func() // internal, fired once when the handshake completes
}

var (
	_ ports.Session        = (*Session)(nil)
	_ ports.ReadyAnnouncer = (*Session)(nil)
)

func newControllerSession(url string, surface ports.DisplaySurface, logger *slog.Logger) *Session {
	return &Session{
		url:    url,
		peer:   surface,
		closer: surface.Close,
		hs:     newControllerHandshake(),
		state:  domain.StateDisconnected,
		logger: logger,
	}
}

func newReceiverSession(url string, opener ports.Messenger, logger *slog.Logger) *Session {
	return &Session{
		url:    url,
		peer:   opener,
		hs:     newReceiverHandshake(),
		state:  domain.StateDisconnected,
		logger: logger,
	}
}

// URL returns the target content URL.
func (s *Session) URL() string { return s.url }

// State returns the current lifecycle state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PostMessage sends payload as-is over the channel. No-op unless
// connected. Payloads must not collide with the reserved tokens.
func (s *Session) PostMessage(payload []byte) {
	s.mu.Lock()
	if s.state != domain.StateConnected {
		s.mu.Unlock()
		return
	}
	peer := s.peer
	s.mu.Unlock()

	if err := peer.Post(payload); err != nil {
		s.logger.Warn("post failed", "err", err, "url", s.url)
	}
}

// Close tears the session down. On the controller side this closes the
// secondary surface; on the receiver side it notifies the opener. No-op
// unless connected.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state != domain.StateConnected {
		s.mu.Unlock()
		return
	}
	s.hs.close()
	closer := s.closer
	peer := s.peer
	s.mu.Unlock()

	if closer != nil {
		if err := closer(); err != nil {
			s.logger.Warn("surface close failed", "err", err, "url", s.url)
		}
	} else {
		// Receiver side: tell the controller we are going away.
		_ = peer.Post([]byte(domain.TokenReceiverShutdown))
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

// AnnounceReady performs the receiver's final handshake step, sending
// presentationready to the controller. Idempotent; no-op on the
// controller side.
func (s *Session) AnnounceReady() {
	s.mu.Lock()
	res := s.hs.announceReady()
	peer := s.peer
	s.mu.Unlock()

	if res.emit != "" {
		_ = peer.Post([]byte(res.emit))
	}
}

// handleRaw is the single entry point for everything arriving from the
// peer: handshake tokens advance the machine, anything else is an
// application message once established.
func (s *Session) handleRaw(payload []byte) {
	s.mu.Lock()
	res := s.hs.step(payload)
	peer := s.peer
	established := s.onEstablished
	s.mu.Unlock()

	if res.emit != "" {
		_ = peer.Post([]byte(res.emit))
	}
	if res.connected {
		s.transition(domain.StateConnected)
		if established != nil {
			established()
		}
	}
	if res.shutdown {
		s.transition(domain.StateDisconnected)
	}
	if res.deliver {
		s.mu.Lock()
		fn := s.onMessage
		s.mu.Unlock()
		if fn != nil {
			fn(payload)
		}
	}
}

// shutdown is the receiver's unload path: notify the opener and drop to
// disconnected.
func (s *Session) shutdown() {
	s.mu.Lock()
	if s.state != domain.StateConnected {
		s.mu.Unlock()
		return
	}
	s.hs.close()
	peer := s.peer
	s.mu.Unlock()

	_ = peer.Post([]byte(domain.TokenReceiverShutdown))
	s.transition(domain.StateDisconnected)
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

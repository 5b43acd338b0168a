// Package testutils provides fakes shared across the test suites: a
// scripted transport session and a fake cast library implementing the
// full ports.CastLibrary contract.
package testutils

import (
	"sync"

	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
)

// StubSession is a scripted ports.Session for driving the façade,
// negotiator and bootstrapper tests.
type StubSession struct {
	mu            sync.Mutex
	url           string
	state         domain.SessionState
	onMessage     ports.MessageHandler
	onStateChange ports.StateHandler

	Posted [][]byte
	Closed int
}

var _ ports.Session = (*StubSession)(nil)

// NewStubSession returns a stub in the given initial state.
func NewStubSession(url string, state domain.SessionState) *StubSession {
	return &StubSession{url: url, state: state}
}

func (s *StubSession) URL() string { return s.url }

func (s *StubSession) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *StubSession) PostMessage(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateConnected {
		return
	}
	s.Posted = append(s.Posted, payload)
}

func (s *StubSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateConnected {
		return
	}
	s.Closed++
	s.state = domain.StateDisconnected
}

func (s *StubSession) OnMessage(fn ports.MessageHandler) {
	s.mu.Lock()
	s.onMessage = fn
	s.mu.Unlock()
}

func (s *StubSession) OnStateChange(fn ports.StateHandler) {
	s.mu.Lock()
	s.onStateChange = fn
	s.mu.Unlock()
}

// Deliver simulates an application message arriving from the peer.
func (s *StubSession) Deliver(payload []byte) {
	s.mu.Lock()
	fn := s.onMessage
	s.mu.Unlock()
	if fn != nil {
		fn(payload)
	}
}

// SetState transitions the stub and fires the state callback.
func (s *StubSession) SetState(state domain.SessionState) {
	s.mu.Lock()
	s.state = state
	fn := s.onStateChange
	s.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}

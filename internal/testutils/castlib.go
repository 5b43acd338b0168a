package testutils

import (
	"context"
	"sync"

	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
)

// FakeCastSession is a scripted ports.CastSession.
type FakeCastSession struct {
	mu        sync.Mutex
	onMessage map[string]func(payload []byte)
	onStatus  func(alive bool)

	Sent    map[string][][]byte
	Stopped int
}

var _ ports.CastSession = (*FakeCastSession)(nil)

func NewFakeCastSession() *FakeCastSession {
	return &FakeCastSession{
		onMessage: make(map[string]func(payload []byte)),
		Sent:      make(map[string][][]byte),
	}
}

func (s *FakeCastSession) Send(channel string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent[channel] = append(s.Sent[channel], payload)
	return nil
}

func (s *FakeCastSession) OnMessage(channel string, fn func(payload []byte)) {
	s.mu.Lock()
	s.onMessage[channel] = fn
	s.mu.Unlock()
}

func (s *FakeCastSession) OnStatus(fn func(alive bool)) {
	s.mu.Lock()
	s.onStatus = fn
	s.mu.Unlock()
}

func (s *FakeCastSession) Leave() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stopped++
	return nil
}

// Deliver simulates an inbound message on the named channel.
func (s *FakeCastSession) Deliver(channel string, payload []byte) {
	s.mu.Lock()
	fn := s.onMessage[channel]
	s.mu.Unlock()
	if fn != nil {
		fn(payload)
	}
}

// SetAlive fires the liveness callback.
func (s *FakeCastSession) SetAlive(alive bool) {
	s.mu.Lock()
	fn := s.onStatus
	s.mu.Unlock()
	if fn != nil {
		fn(alive)
	}
}

// FakeCastLibrary implements ports.CastLibrary with per-call knobs and
// counters so tests can assert how far a negotiation got.
type FakeCastLibrary struct {
	mu sync.Mutex

	Loaded        bool // Available()
	ReceiverHost  bool // IsReceiverHost()
	Devices       bool // DevicesAvailable()
	InitErr       error
	ProbeErr      error
	RequestErr    error
	RequestResult *FakeCastSession
	// RequestHold, when non-nil, blocks RequestSession until closed.
	RequestHold chan struct{}

	resumed chan ports.CastSession
	manager *FakeReceiverManager

	InitCalls    int
	ProbeCalls   int
	RequestCalls int
}

var _ ports.CastLibrary = (*FakeCastLibrary)(nil)

// NewFakeCastLibrary returns a library that is loaded, sees one device,
// and hands out a fresh session on request.
func NewFakeCastLibrary() *FakeCastLibrary {
	return &FakeCastLibrary{
		Loaded:        true,
		Devices:       true,
		RequestResult: NewFakeCastSession(),
		resumed:       make(chan ports.CastSession, 1),
		manager:       NewFakeReceiverManager(),
	}
}

func (l *FakeCastLibrary) Available() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Loaded
}

func (l *FakeCastLibrary) Initialize(ctx context.Context, launchID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.InitCalls++
	return l.InitErr
}

func (l *FakeCastLibrary) DevicesAvailable(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ProbeCalls++
	return l.Devices, l.ProbeErr
}

func (l *FakeCastLibrary) RequestSession(ctx context.Context, launchID string) (ports.CastSession, error) {
	l.mu.Lock()
	l.RequestCalls++
	hold := l.RequestHold
	res, err := l.RequestResult, l.RequestErr
	l.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (l *FakeCastLibrary) Resumed() <-chan ports.CastSession {
	return l.resumed
}

// Resume injects a restored session, as the native runtime would after
// reconnecting to an application that is still running.
func (l *FakeCastLibrary) Resume(s ports.CastSession) {
	l.resumed <- s
}

func (l *FakeCastLibrary) IsReceiverHost() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ReceiverHost
}

func (l *FakeCastLibrary) StartReceiverHost(ctx context.Context) (ports.ReceiverManager, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.ReceiverHost {
		return nil, domain.ErrNotReceiver
	}
	return l.manager, nil
}

// Manager exposes the fake receiver manager for assertions.
func (l *FakeCastLibrary) Manager() *FakeReceiverManager {
	return l.manager
}

// FakeReceiverManager implements ports.ReceiverManager.
type FakeReceiverManager struct {
	mu        sync.Mutex
	onMessage map[string]func(senderID string, payload []byte)

	Broadcasts map[string][][]byte
	Stopped    int
}

var _ ports.ReceiverManager = (*FakeReceiverManager)(nil)

func NewFakeReceiverManager() *FakeReceiverManager {
	return &FakeReceiverManager{
		onMessage:  make(map[string]func(string, []byte)),
		Broadcasts: make(map[string][][]byte),
	}
}

func (m *FakeReceiverManager) Broadcast(channel string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Broadcasts[channel] = append(m.Broadcasts[channel], payload)
	return nil
}

func (m *FakeReceiverManager) OnMessage(channel string, fn func(senderID string, payload []byte)) {
	m.mu.Lock()
	m.onMessage[channel] = fn
	m.mu.Unlock()
}

func (m *FakeReceiverManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stopped++
	return nil
}

// Deliver simulates a sender message arriving at the receiver.
func (m *FakeReceiverManager) Deliver(channel, senderID string, payload []byte) {
	m.mu.Lock()
	fn := m.onMessage[channel]
	m.mu.Unlock()
	if fn != nil {
		fn(senderID, payload)
	}
}

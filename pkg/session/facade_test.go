package session_test

import (
	"testing"

	"github.com/castlet/castlet/internal/testutils"
	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacadeStartsDisconnected(t *testing.T) {
	p := session.New("https://host/app")

	assert.Equal(t, domain.StateDisconnected, p.State())
	assert.Equal(t, "https://host/app", p.URL())

	// No inner session: silent no-op, must not panic.
	p.PostMessage([]byte("hello"))
	p.Close()
}

func TestFacadeBindMirrorsConnectedState(t *testing.T) {
	p := session.New("https://host/app")
	inner := testutils.NewStubSession("https://host/app", domain.StateConnected)

	var transitions []domain.SessionState
	p.OnStateChange(func(s domain.SessionState) {
		transitions = append(transitions, s)
	})

	p.Bind(inner)

	// Already connected at bind time: exactly one immediate notification.
	require.Equal(t, []domain.SessionState{domain.StateConnected}, transitions)
	assert.Equal(t, domain.StateConnected, p.State())
}

func TestFacadeForwardsMessages(t *testing.T) {
	p := session.New("https://host/app")
	inner := testutils.NewStubSession("https://host/app", domain.StateConnected)
	p.Bind(inner)

	var got [][]byte
	p.OnMessage(func(payload []byte) {
		got = append(got, payload)
	})

	inner.Deliver([]byte(`{"cmd":"next"}`))
	require.Len(t, got, 1)
	assert.Equal(t, `{"cmd":"next"}`, string(got[0]))

	p.PostMessage([]byte("outbound"))
	require.Len(t, inner.Posted, 1)
	assert.Equal(t, "outbound", string(inner.Posted[0]))
}

func TestFacadePostMessageNoOpWhenDisconnected(t *testing.T) {
	p := session.New("https://host/app")
	inner := testutils.NewStubSession("https://host/app", domain.StateDisconnected)
	p.Bind(inner)

	p.PostMessage([]byte("dropped"))
	assert.Empty(t, inner.Posted, "must not reach the transport while disconnected")
}

func TestFacadeCloseReleasesInner(t *testing.T) {
	p := session.New("https://host/app")
	inner := testutils.NewStubSession("https://host/app", domain.StateConnected)
	p.Bind(inner)

	p.Close()
	assert.Equal(t, 1, inner.Closed)
	assert.Equal(t, domain.StateDisconnected, p.State())

	// Inner reference is released: later posts go nowhere.
	p.PostMessage([]byte("late"))
	assert.Empty(t, inner.Posted)

	// Second close is a no-op.
	p.Close()
	assert.Equal(t, 1, inner.Closed)
}

func TestFacadeStateChangePassThrough(t *testing.T) {
	p := session.New("https://host/app")
	inner := testutils.NewStubSession("https://host/app", domain.StateConnected)
	p.Bind(inner)

	var transitions []domain.SessionState
	p.OnStateChange(func(s domain.SessionState) {
		transitions = append(transitions, s)
	})

	inner.SetState(domain.StateDisconnected)
	// The connected transition was latched at bind time and replayed
	// when the listener attached; the disconnect follows live.
	assert.Equal(t, []domain.SessionState{domain.StateConnected, domain.StateDisconnected}, transitions)
	assert.Equal(t, domain.StateDisconnected, p.State())
}

func TestFacadeLateListenerHearsConnected(t *testing.T) {
	p := session.New("https://host/app")
	inner := testutils.NewStubSession("https://host/app", domain.StateConnected)

	// Negotiation runs on a goroutine, so binding can complete before
	// the caller installs its listener.
	p.Bind(inner)
	require.Equal(t, domain.StateConnected, p.State())

	var transitions []domain.SessionState
	p.OnStateChange(func(s domain.SessionState) {
		transitions = append(transitions, s)
	})
	require.Equal(t, []domain.SessionState{domain.StateConnected}, transitions)

	// The latched transition is delivered once, not on every install.
	p.OnStateChange(func(s domain.SessionState) {
		transitions = append(transitions, s)
	})
	assert.Equal(t, []domain.SessionState{domain.StateConnected}, transitions)
}

func TestFacadeBindAfterCloseReleasesInner(t *testing.T) {
	p := session.New("https://host/app")
	p.Close()

	// Negotiation won after the caller gave up: the façade is the only
	// holder, so the late winner must be closed, not orphaned.
	inner := testutils.NewStubSession("https://host/app", domain.StateConnected)
	p.Bind(inner)
	assert.Equal(t, 1, inner.Closed)

	assert.Equal(t, domain.StateDisconnected, p.State())
	p.PostMessage([]byte("dropped"))
	assert.Empty(t, inner.Posted)
}

func TestFacadePostObserverCountsForwardedPayloads(t *testing.T) {
	var posted int
	p := session.New("https://host/app", session.WithPostObserver(func() { posted++ }))

	// No inner session yet: drops are not counted.
	p.PostMessage([]byte("dropped"))
	assert.Zero(t, posted)

	inner := testutils.NewStubSession("https://host/app", domain.StateConnected)
	p.Bind(inner)

	p.PostMessage([]byte("one"))
	p.PostMessage([]byte("two"))
	assert.Equal(t, 2, posted)

	inner.SetState(domain.StateDisconnected)
	p.PostMessage([]byte("dropped"))
	assert.Equal(t, 2, posted)
}

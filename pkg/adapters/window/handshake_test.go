package window

import (
	"testing"

	"github.com/castlet/castlet/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestControllerHandshakeHappyPath(t *testing.T) {
	hs := newControllerHandshake()
	assert.Equal(t, hsProbing, hs.state)

	res := hs.step([]byte(domain.TokenIsPresentation))
	assert.Equal(t, domain.TokenPresentation, res.emit)
	assert.Equal(t, hsReady, hs.state)

	res = hs.step([]byte(domain.TokenPresentationReady))
	assert.True(t, res.connected)
	assert.Equal(t, hsConnected, hs.state)
}

func TestControllerHandshakeConnectsExactlyOnce(t *testing.T) {
	hs := newControllerHandshake()
	hs.step([]byte(domain.TokenIsPresentation))

	first := hs.step([]byte(domain.TokenPresentationReady))
	second := hs.step([]byte(domain.TokenPresentationReady))

	assert.True(t, first.connected)
	assert.False(t, second.connected, "duplicate ready must not reconnect")
	assert.False(t, second.deliver, "reserved token must never become a payload")
}

func TestControllerHandshakeInterruptedNeverConnects(t *testing.T) {
	cases := []struct {
		name   string
		inputs []string
	}{
		{"no messages at all", nil},
		{"probe only", []string{domain.TokenIsPresentation}},
		{"ready without probe", []string{domain.TokenPresentationReady}},
		{"app payload before establishment", []string{domain.TokenIsPresentation, `{"cmd":"next"}`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hs := newControllerHandshake()
			for _, in := range tc.inputs {
				res := hs.step([]byte(in))
				assert.False(t, res.connected)
				assert.False(t, res.deliver)
			}
			assert.NotEqual(t, hsConnected, hs.state)
		})
	}
}

func TestControllerHandshakeShutdownIdempotent(t *testing.T) {
	hs := newControllerHandshake()
	hs.step([]byte(domain.TokenIsPresentation))
	hs.step([]byte(domain.TokenPresentationReady))

	first := hs.step([]byte(domain.TokenReceiverShutdown))
	second := hs.step([]byte(domain.TokenReceiverShutdown))

	assert.True(t, first.shutdown)
	assert.False(t, second.shutdown, "already closed: no further effect")
	assert.Equal(t, hsClosed, hs.state)
}

func TestControllerHandshakeDeliversAppPayloads(t *testing.T) {
	hs := newControllerHandshake()
	hs.step([]byte(domain.TokenIsPresentation))
	hs.step([]byte(domain.TokenPresentationReady))

	res := hs.step([]byte(`{"cmd":"next"}`))
	assert.True(t, res.deliver)
	assert.Empty(t, res.emit)
}

func TestReceiverHandshake(t *testing.T) {
	hs := newReceiverHandshake()

	res := hs.start()
	assert.Equal(t, domain.TokenIsPresentation, res.emit)
	assert.Equal(t, hsProbing, hs.state)

	// start is single-shot.
	assert.Empty(t, hs.start().emit)

	res = hs.step([]byte(domain.TokenPresentation))
	assert.True(t, res.connected)
	assert.Equal(t, hsReady, hs.state)

	res = hs.announceReady()
	assert.Equal(t, domain.TokenPresentationReady, res.emit)
	assert.Equal(t, hsConnected, hs.state)

	// announceReady is idempotent.
	assert.Empty(t, hs.announceReady().emit)
}

func TestReceiverHandshakeIgnoresStrayTokens(t *testing.T) {
	hs := newReceiverHandshake()
	hs.start()

	// A payload before confirmation is dropped, not delivered.
	res := hs.step([]byte("hello"))
	assert.False(t, res.deliver)

	hs.step([]byte(domain.TokenPresentation))
	hs.announceReady()

	// Reserved tokens are never delivered after establishment either.
	res = hs.step([]byte(domain.TokenPresentation))
	assert.False(t, res.deliver)

	res = hs.step([]byte("hello"))
	assert.True(t, res.deliver)
}

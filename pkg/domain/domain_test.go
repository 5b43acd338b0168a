package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStateString(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "unknown", SessionState(42).String())
}

func TestIsReservedToken(t *testing.T) {
	for _, token := range []string{
		TokenIsPresentation, TokenPresentation, TokenPresentationReady, TokenReceiverShutdown,
	} {
		assert.True(t, IsReservedToken([]byte(token)), token)
	}

	assert.False(t, IsReservedToken([]byte(`{"cmd":"open"}`)))
	assert.False(t, IsReservedToken([]byte("presentation ")))
	assert.False(t, IsReservedToken(nil))
}

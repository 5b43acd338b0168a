package receiver_test

import (
	"context"
	"testing"
	"time"

	"github.com/castlet/castlet/internal/testutils"
	"github.com/castlet/castlet/pkg/adapters/cast"
	"github.com/castlet/castlet/pkg/adapters/memory"
	"github.com/castlet/castlet/pkg/adapters/window"
	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
	"github.com/castlet/castlet/pkg/receiver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCastReceiverEnvironment(t *testing.T) {
	lib := testutils.NewFakeCastLibrary()
	lib.ReceiverHost = true
	castT := cast.New(cast.WithLibrary(lib))
	windowT := window.New() // no environment either way

	var events []receiver.Present
	b := receiver.New([]ports.Transport{castT, windowT})
	b.OnPresent(func(p receiver.Present) { events = append(events, p) })

	assert.True(t, b.Run(context.Background()))
	require.Len(t, events, 1)
	assert.Equal(t, domain.StateConnected, events[0].Session.State())
}

func TestRunPlainPage(t *testing.T) {
	lib := testutils.NewFakeCastLibrary()
	lib.ReceiverHost = false
	castT := cast.New(cast.WithLibrary(lib))
	env := memory.NewStandaloneEnvironment("https://host/app")
	windowT := window.New(window.WithEnvironment(env))

	fired := false
	b := receiver.New([]ports.Transport{castT, windowT})
	b.OnPresent(func(receiver.Present) { fired = true })

	assert.False(t, b.Run(context.Background()))
	assert.False(t, fired, "no event fires for a plain page")
}

// Full window-transport bootstrap: the controller's Create must not
// resolve until the bootstrapper has fired OnPresent and announced
// readiness through the session.
func TestRunWindowReceiverAnnouncesAfterPresent(t *testing.T) {
	presentFired := make(chan ports.Session, 1)

	opener := memory.NewOpener(func(env *memory.Environment) {
		lib := testutils.NewFakeCastLibrary()
		lib.Loaded = false // no native runtime inside the opened window
		castT := cast.New(cast.WithLibrary(lib))
		windowT := window.New(window.WithEnvironment(env))

		b := receiver.New([]ports.Transport{castT, windowT})
		b.OnPresent(func(p receiver.Present) { presentFired <- p.Session })
		b.Run(context.Background())
	})

	controller := window.New(window.WithOpener(opener))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sess, err := controller.Create(ctx, "https://host/app")
	require.NoError(t, err)
	assert.Equal(t, domain.StateConnected, sess.State())

	recv := <-presentFired
	assert.Equal(t, domain.StateConnected, recv.State())

	// The established pair exchanges payloads both ways.
	got := make(chan []byte, 1)
	recv.OnMessage(func(p []byte) { got <- p })
	sess.PostMessage([]byte(`{"cmd":"next"}`))
	select {
	case p := <-got:
		assert.Equal(t, `{"cmd":"next"}`, string(p))
	case <-time.After(2 * time.Second):
		t.Fatal("payload never reached the receiver")
	}
}

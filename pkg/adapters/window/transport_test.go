package window_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/castlet/castlet/pkg/adapters/memory"
	"github.com/castlet/castlet/pkg/adapters/window"
	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startLoopbackReceiver runs the receiver half in the launched window and
// publishes the receiver session, mimicking what a receiver page does on
// load.
func startLoopbackReceiver(t *testing.T, sessions chan<- ports.Session) memory.LaunchFunc {
	t.Helper()
	return func(env *memory.Environment) {
		transport := window.New(window.WithEnvironment(env))
		sess, err := transport.StartReceiver(context.Background())
		if err != nil {
			t.Errorf("receiver start failed: %v", err)
			return
		}
		sess.(ports.ReadyAnnouncer).AnnounceReady()
		sessions <- sess
	}
}

func TestCreateEstablishesSession(t *testing.T) {
	receiverSessions := make(chan ports.Session, 1)
	opener := memory.NewOpener(startLoopbackReceiver(t, receiverSessions))
	transport := window.New(window.WithOpener(opener))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sess, err := transport.Create(ctx, "https://host/slides")
	require.NoError(t, err)
	assert.Equal(t, domain.StateConnected, sess.State())
	assert.Equal(t, "https://host/slides", sess.URL())

	recv := <-receiverSessions
	assert.Equal(t, domain.StateConnected, recv.State())
}

func TestCreateBlockedSurface(t *testing.T) {
	transport := window.New(window.WithOpener(memory.NewBlockedOpener()))

	_, err := transport.Create(context.Background(), "https://host/slides")
	assert.ErrorIs(t, err, domain.ErrSurfaceBlocked)
}

func TestCreateNoOpenerConfigured(t *testing.T) {
	transport := window.New()

	_, err := transport.Create(context.Background(), "https://host/slides")
	assert.ErrorIs(t, err, domain.ErrSurfaceBlocked)
}

func TestCreateUnansweredHandshakeHonorsContext(t *testing.T) {
	// The launched window never runs a receiver: the handshake stalls.
	opener := memory.NewOpener(func(env *memory.Environment) {})
	transport := window.New(window.WithOpener(opener))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := transport.Create(ctx, "https://host/slides")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartReceiverWithoutOpener(t *testing.T) {
	env := memory.NewStandaloneEnvironment("https://host/slides")
	transport := window.New(window.WithEnvironment(env))

	_, err := transport.StartReceiver(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoOpener)
}

func TestRoundTripPayloads(t *testing.T) {
	receiverSessions := make(chan ports.Session, 1)
	opener := memory.NewOpener(startLoopbackReceiver(t, receiverSessions))
	transport := window.New(window.WithOpener(opener))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ctrl, err := transport.Create(ctx, "https://host/slides")
	require.NoError(t, err)
	recv := <-receiverSessions

	ctrlGot := make(chan []byte, 4)
	recvGot := make(chan []byte, 4)
	ctrl.OnMessage(func(p []byte) { ctrlGot <- p })
	recv.OnMessage(func(p []byte) { recvGot <- p })

	ctrl.PostMessage([]byte(`{"cmd":"next"}`))
	assert.Equal(t, `{"cmd":"next"}`, string(waitFor(t, recvGot)))

	recv.PostMessage([]byte(`{"ack":true}`))
	assert.Equal(t, `{"ack":true}`, string(waitFor(t, ctrlGot)))
}

func TestReceiverShutdownDisconnectsControllerOnce(t *testing.T) {
	receiverSessions := make(chan ports.Session, 1)
	var envSlot *memory.Environment
	var mu sync.Mutex
	opener := memory.NewOpener(func(env *memory.Environment) {
		mu.Lock()
		envSlot = env
		mu.Unlock()
		startLoopbackReceiver(t, receiverSessions)(env)
	})
	transport := window.New(window.WithOpener(opener))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ctrl, err := transport.Create(ctx, "https://host/slides")
	require.NoError(t, err)
	<-receiverSessions

	transitions := make(chan domain.SessionState, 4)
	ctrl.OnStateChange(func(s domain.SessionState) { transitions <- s })

	mu.Lock()
	env := envSlot
	mu.Unlock()
	require.NotNil(t, env)

	env.TriggerUnload()
	assert.Equal(t, domain.StateDisconnected, waitFor(t, transitions))
	assert.Equal(t, domain.StateDisconnected, ctrl.State())

	// A second unload has no further effect.
	env.TriggerUnload()
	select {
	case s := <-transitions:
		t.Fatalf("unexpected extra transition: %v", s)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestControllerCloseDisconnects(t *testing.T) {
	receiverSessions := make(chan ports.Session, 1)
	opener := memory.NewOpener(startLoopbackReceiver(t, receiverSessions))
	transport := window.New(window.WithOpener(opener))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ctrl, err := transport.Create(ctx, "https://host/slides")
	require.NoError(t, err)
	recv := <-receiverSessions

	ctrl.Close()
	assert.Equal(t, domain.StateDisconnected, ctrl.State())

	// Post after close is a silent no-op.
	ctrl.PostMessage([]byte("late"))

	// The receiver side unloads with the surface.
	assert.Eventually(t, func() bool {
		return recv.State() == domain.StateDisconnected
	}, 2*time.Second, 10*time.Millisecond)
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		panic("unreachable")
	}
}

package castlet_test

import (
	"context"
	"fmt"
	"time"

	"github.com/castlet/castlet"
	"github.com/castlet/castlet/pkg/adapters/memory"
	"github.com/castlet/castlet/pkg/command"
	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/receiver"
)

// Example demonstrates a full controller/receiver round trip using the
// in-process window environment. Real embedders replace the opener with
// a binding to their windowing layer (and optionally inject a native
// cast library, which is then preferred automatically).
func Example() {
	done := make(chan struct{})

	// 1. The opener "loads" each opened window as a receiver page.
	opener := memory.NewOpener(func(env *memory.Environment) {
		recv := castlet.NewReceiver(castlet.WithWindowEnvironment(env))
		recv.OnPresent(func(p receiver.Present) {
			// 2. Wire the remote-control commands.
			d := command.New()
			d.Register("next", func(params ...any) {
				fmt.Println("receiver: advancing to the next slide")
				close(done)
			})
			d.Bind(p.Session)
		})
		recv.Run(context.Background())
	})

	// 3. The controller negotiates a session. No cast library is
	// configured here, so negotiation falls through to the window
	// transport.
	ctrl := castlet.New(castlet.WithSurfaceOpener(opener))
	sess := ctrl.RequestSession(context.Background(), "https://host/slides")

	for sess.State() != domain.StateConnected {
		time.Sleep(10 * time.Millisecond)
	}

	// 4. Drive the presentation.
	sess.PostMessage([]byte(`{"cmd":"next"}`))
	<-done

	// Output:
	// receiver: advancing to the next slide
}

package memory

import (
	"context"
	"sync"

	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
)

// Surface is the controller-side end of an in-process window. Closing it
// unloads the receiver environment, as closing a real window would.
type Surface struct {
	*Channel
	env  *Environment
	once sync.Once
}

var _ ports.DisplaySurface = (*Surface)(nil)

// Close closes the surface and triggers the receiver's unload hooks.
func (s *Surface) Close() error {
	s.once.Do(func() {
		s.env.TriggerUnload()
		_ = s.Channel.Close()
		_ = s.Channel.peer.Close()
	})
	return nil
}

// Environment is what the in-process "opened window" sees: its content
// URL, the channel back to the opener, and unload hooks.
type Environment struct {
	mu     sync.Mutex
	url    string
	opener *Channel
	unload []func()
	gone   bool
}

var _ ports.WindowEnvironment = (*Environment)(nil)

// NewStandaloneEnvironment simulates a plain page nobody opened.
func NewStandaloneEnvironment(url string) *Environment {
	return &Environment{url: url}
}

// Opener returns the channel back to the opening context.
func (e *Environment) Opener() (ports.Messenger, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.opener == nil {
		return nil, false
	}
	return e.opener, true
}

// OnUnload registers fn to run when the window is torn down.
func (e *Environment) OnUnload(fn func()) {
	e.mu.Lock()
	e.unload = append(e.unload, fn)
	e.mu.Unlock()
}

// URL returns the content URL this context is displaying.
func (e *Environment) URL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.url
}

// TriggerUnload fires the unload hooks once.
func (e *Environment) TriggerUnload() {
	e.mu.Lock()
	if e.gone {
		e.mu.Unlock()
		return
	}
	e.gone = true
	hooks := append([]func(){}, e.unload...)
	e.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// LaunchFunc receives the environment of a freshly opened window, as a
// real receiver page would on load.
type LaunchFunc func(env *Environment)

// Opener opens in-process surfaces. Each Open creates a channel pair,
// hands the receiver end to the launch function in a new goroutine
// (simulating the page load) and returns the controller end.
type Opener struct {
	launch  LaunchFunc
	blocked bool
}

var _ ports.SurfaceOpener = (*Opener)(nil)

// NewOpener creates an opener that loads opened windows via launch.
func NewOpener(launch LaunchFunc) *Opener {
	return &Opener{launch: launch}
}

// NewBlockedOpener simulates an environment that refuses to open
// surfaces (e.g. a popup blocker).
func NewBlockedOpener() *Opener {
	return &Opener{blocked: true}
}

// Open launches an in-process surface at url.
func (o *Opener) Open(ctx context.Context, url, intent string) (ports.DisplaySurface, error) {
	if o.blocked {
		return nil, domain.ErrSurfaceBlocked
	}

	controllerEnd, receiverEnd := NewChannelPair()
	env := &Environment{url: url, opener: receiverEnd}
	surface := &Surface{Channel: controllerEnd, env: env}

	if o.launch != nil {
		go o.launch(env)
	}
	return surface, nil
}

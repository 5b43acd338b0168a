// Package command implements the receiver-side command executor
// collaborator: it decodes {cmd, params?} envelopes arriving on a
// session and invokes the matching named action. The reserved "open"
// command loads new content instead of dispatching.
package command

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/castlet/castlet/internal/logging"
	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// Action is a named operation invoked with the envelope's params
// (empty when absent).
type Action func(params ...any)

// Loader loads new content on the receiver, for the "open" command.
type Loader func(url string)

// Dispatcher routes command envelopes to registered actions. Unknown
// commands and undecodable payloads are ignored silently; the session
// contract has no error channel for them.
type Dispatcher struct {
	mu      sync.RWMutex
	actions map[string]Action
	loader  Loader
	logger  *slog.Logger
}

type Option func(*Dispatcher)

// WithLoader sets the content loader invoked by the "open" command.
func WithLoader(l Loader) Option {
	return func(d *Dispatcher) {
		d.loader = l
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// New creates an empty dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		actions: make(map[string]Action),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register adds a named action. A later registration with the same name
// overwrites the prior one.
func (d *Dispatcher) Register(name string, fn Action) {
	d.mu.Lock()
	d.actions[name] = fn
	d.mu.Unlock()
}

// Bind installs the dispatcher as the session's message handler.
func (d *Dispatcher) Bind(sess ports.Session) {
	sess.OnMessage(d.Handle)
}

// Handle decodes one payload and dispatches it.
func (d *Dispatcher) Handle(payload []byte) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		d.logger.Debug("ignoring non-command payload", "err", err)
		return
	}

	var cmd domain.Command
	if err := mapstructure.Decode(raw, &cmd); err != nil || cmd.Cmd == "" {
		d.logger.Debug("ignoring malformed command envelope", "err", err)
		return
	}

	if cmd.Cmd == domain.CmdOpen {
		d.mu.RLock()
		loader := d.loader
		d.mu.RUnlock()
		if loader != nil {
			loader(cmd.URL)
		}
		return
	}

	d.mu.RLock()
	fn, ok := d.actions[cmd.Cmd]
	d.mu.RUnlock()
	if !ok {
		d.logger.Debug("ignoring unknown command", "cmd", cmd.Cmd)
		return
	}
	fn(cmd.Params...)
}

// Package memory provides an in-process window environment: linked
// message channels, a loopback surface opener that "loads" the receiver
// side in a goroutine, and a receiver-side environment with unload
// simulation. It serves the test suites, the demo command and embedders
// that have no real windowing layer.
package memory

import (
	"errors"
	"sync"
)

// ErrChannelClosed is returned by Post after the channel is closed.
var ErrChannelClosed = errors.New("memory: channel closed")

// Channel is one end of an in-process message pipe. Delivery is
// asynchronous and ordered; messages posted before a handler is set are
// queued until one arrives.
type Channel struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   [][]byte
	handler func(payload []byte)
	closed  bool
	peer    *Channel
}

// NewChannelPair returns two linked channels: what one Posts, the other
// receives.
func NewChannelPair() (*Channel, *Channel) {
	a := &Channel{}
	b := &Channel{}
	a.cond = sync.NewCond(&a.mu)
	b.cond = sync.NewCond(&b.mu)
	a.peer = b
	b.peer = a
	go a.pump()
	go b.pump()
	return a, b
}

// Post delivers payload to the peer end.
func (c *Channel) Post(payload []byte) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	peer := c.peer
	c.mu.Unlock()

	return peer.enqueue(payload)
}

// OnMessage sets the single-slot receive callback.
func (c *Channel) OnMessage(fn func(payload []byte)) {
	c.mu.Lock()
	c.handler = fn
	c.cond.Signal()
	c.mu.Unlock()
}

// Close stops both delivery directions on this end.
func (c *Channel) Close() error {
	c.mu.Lock()
	c.closed = true
	c.cond.Broadcast()
	c.mu.Unlock()
	return nil
}

func (c *Channel) enqueue(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}
	c.queue = append(c.queue, payload)
	c.cond.Signal()
	return nil
}

// pump delivers queued messages in order, waiting until a handler
// exists. One pump per end keeps delivery single-threaded, matching the
// cooperative event model of the real environment.
func (c *Channel) pump() {
	for {
		c.mu.Lock()
		for !c.closed && (len(c.queue) == 0 || c.handler == nil) {
			c.cond.Wait()
		}
		if c.closed {
			c.mu.Unlock()
			return
		}
		msg := c.queue[0]
		c.queue = c.queue[1:]
		fn := c.handler
		c.mu.Unlock()

		fn(msg)
	}
}

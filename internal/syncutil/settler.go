// Package syncutil holds small concurrency helpers shared by the
// transport adapters.
package syncutil

import "sync"

// Settler is a single-resolution slot: it settles (with a value or an
// error) at most once, and every later attempt is ignored. Transports use
// it to reconcile racing completion paths, e.g. "resume existing session"
// vs "request new session", to a single winner.
type Settler[T any] struct {
	mu   sync.Mutex
	done chan struct{}
	val  T
	err  error
}

// NewSettler returns an unsettled Settler.
func NewSettler[T any]() *Settler[T] {
	return &Settler[T]{done: make(chan struct{})}
}

// Resolve settles with a value. Returns false if already settled.
func (s *Settler[T]) Resolve(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return false
	default:
	}
	s.val = v
	close(s.done)
	return true
}

// Reject settles with an error. Returns false if already settled.
func (s *Settler[T]) Reject(err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return false
	default:
	}
	s.err = err
	close(s.done)
	return true
}

// Done is closed once the settler has settled.
func (s *Settler[T]) Done() <-chan struct{} {
	return s.done
}

// Result returns the settled value or error. Only valid after Done is
// closed.
func (s *Settler[T]) Result() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.val, s.err
}

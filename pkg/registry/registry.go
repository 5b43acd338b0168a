// Package registry provides the in-memory application registry: a plain
// lookup table from application URL to cast launch identifier.
package registry

import (
	"context"
	"sync"

	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
)

var _ ports.ApplicationRegistry = (*Registry)(nil)

// Registry is the default in-process ApplicationRegistry. The table is
// append-only during setup and read-only during negotiation, but a lock
// keeps it safe for callers that register late.
type Registry struct {
	mu   sync.RWMutex
	apps map[string]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		apps: make(map[string]string),
	}
}

// Register stores the launch identifier for url.
// If the URL is already registered, the identifier is overwritten.
func (r *Registry) Register(ctx context.Context, url, launchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[url] = launchID
	return nil
}

// Lookup returns the launch identifier for url.
// Returns domain.ErrAppNotRegistered if the URL has no entry.
func (r *Registry) Lookup(ctx context.Context, url string) (string, error) {
	r.mu.RLock()
	id, ok := r.apps[url]
	r.mu.RUnlock()

	if !ok {
		return "", domain.ErrAppNotRegistered
	}
	return id, nil
}

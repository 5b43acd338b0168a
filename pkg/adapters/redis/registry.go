// Package redis implements the application registry on Redis, for
// controllers that share one registration table across processes.
package redis

import (
	"context"
	"fmt"

	"github.com/castlet/castlet/pkg/domain"
	"github.com/castlet/castlet/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Registry implements ports.ApplicationRegistry using Redis.
type Registry struct {
	client *backend.Client
	prefix string
}

var _ ports.ApplicationRegistry = (*Registry)(nil)

type Option func(*Registry)

// WithPrefix sets the key prefix for registrations.
func WithPrefix(prefix string) Option {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

// New creates a new Redis registry with options.
func New(address, password string, db int, opts ...Option) *Registry {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis registry from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Registry {
	reg := &Registry{
		client: client,
		prefix: "castlet:app:",
	}

	for _, opt := range opts {
		opt(reg)
	}

	return reg
}

func (r *Registry) key(url string) string {
	return r.prefix + url
}

// Register stores the launch identifier, overwriting any prior value.
func (r *Registry) Register(ctx context.Context, url, launchID string) error {
	if err := r.client.Set(ctx, r.key(url), launchID, 0).Err(); err != nil {
		return fmt.Errorf("failed to register application: %w", err)
	}
	return nil
}

// Lookup returns the launch identifier for url.
func (r *Registry) Lookup(ctx context.Context, url string) (string, error) {
	val, err := r.client.Get(ctx, r.key(url)).Result()
	if err != nil {
		if err == backend.Nil {
			return "", domain.ErrAppNotRegistered
		}
		return "", fmt.Errorf("failed to lookup application: %w", err)
	}
	return val, nil
}

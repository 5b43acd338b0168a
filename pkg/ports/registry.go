package ports

import "context"

// ApplicationRegistry maps an application URL (exact match) to the
// transport-specific launch identifier used by the cast transport.
// Entries are written during setup and read during negotiation.
type ApplicationRegistry interface {
	// Register stores the launch identifier for url. Re-registration
	// overwrites the prior identifier.
	Register(ctx context.Context, url, launchID string) error

	// Lookup returns the launch identifier for url, or
	// domain.ErrAppNotRegistered when none exists.
	Lookup(ctx context.Context, url string) (string, error)
}

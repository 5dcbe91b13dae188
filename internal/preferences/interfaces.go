package preferences

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no preference is stored for an address.
// Callers decide the fallback policy; the store never substitutes a default.
var ErrNotFound = errors.New("no language preference for address")

// RepositoryInterface defines the interface for preference storage backends
type RepositoryInterface interface {
	// Get returns the preferred language for an address, or ErrNotFound.
	Get(ctx context.Context, address string) (string, error)

	// Set stores the preferred language for an address. Last write wins.
	Set(ctx context.Context, address, language string) error

	// List returns all known address -> language mappings.
	List(ctx context.Context) (map[string]string, error)
}

package preferences

import (
	"context"
	"sync"
)

// MemoryRepository is the default in-process preference store.
type MemoryRepository struct {
	mu    sync.RWMutex
	prefs map[string]string
}

// NewMemoryRepository creates an empty in-memory preference store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{prefs: make(map[string]string)}
}

// Get returns the preferred language for an address, or ErrNotFound.
func (r *MemoryRepository) Get(ctx context.Context, address string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lang, ok := r.prefs[address]
	if !ok {
		return "", ErrNotFound
	}
	return lang, nil
}

// Set stores the preferred language for an address. Last write wins.
func (r *MemoryRepository) Set(ctx context.Context, address, language string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs[address] = language
	return nil
}

// List returns a copy of all known address -> language mappings.
func (r *MemoryRepository) List(ctx context.Context) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.prefs))
	for addr, lang := range r.prefs {
		out[addr] = lang
	}
	return out, nil
}

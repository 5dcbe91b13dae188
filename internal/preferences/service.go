package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/desirekokuvi/bablit/pkg/langcode"
)

// ErrInvalidPreference is returned on a preference write with a missing
// address or language code. Nothing is written in that case.
var ErrInvalidPreference = errors.New("address and language are required")

// Service handles preference business logic
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new preference service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// Get returns the stored language for an address. ErrNotFound passes
// through untouched so callers can apply their own fallback policy.
func (s *Service) Get(ctx context.Context, address string) (string, error) {
	if address == "" {
		return "", ErrInvalidPreference
	}
	return s.repo.Get(ctx, address)
}

// Set stores a language preference. The language is normalized to a base
// ISO 639-1 code before writing; writes are idempotent.
func (s *Service) Set(ctx context.Context, address, language string) error {
	if address == "" {
		return ErrInvalidPreference
	}

	lang := langcode.Normalize(language)
	if lang == "" {
		return ErrInvalidPreference
	}

	if err := s.repo.Set(ctx, address, lang); err != nil {
		return fmt.Errorf("store preference: %w", err)
	}
	return nil
}

// List returns all known preferences.
func (s *Service) List(ctx context.Context) (map[string]string, error) {
	return s.repo.List(ctx)
}

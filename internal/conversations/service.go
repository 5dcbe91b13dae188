package conversations

import (
	"context"
	"fmt"
)

// Service handles conversation business logic
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new conversation service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// GetOrCreate returns the conversation for id, creating it on first use.
func (s *Service) GetOrCreate(ctx context.Context, id string) (*Conversation, error) {
	if id == "" {
		return nil, fmt.Errorf("conversation id is required")
	}
	return s.repo.GetOrCreate(ctx, id)
}

// Append records a routed message on its conversation.
func (s *Service) Append(ctx context.Context, id string, msg Message) (*Conversation, error) {
	if id == "" {
		return nil, fmt.Errorf("conversation id is required")
	}
	return s.repo.Append(ctx, id, msg)
}

// List returns all conversations.
func (s *Service) List(ctx context.Context) ([]*Conversation, error) {
	return s.repo.List(ctx)
}

// GetByID returns one conversation, or ErrNotFound for an id never created.
func (s *Service) GetByID(ctx context.Context, id string) (*Conversation, error) {
	return s.repo.GetByID(ctx, id)
}

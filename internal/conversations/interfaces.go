package conversations

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a conversation id has never been created.
var ErrNotFound = errors.New("conversation not found")

// RepositoryInterface defines the interface for conversation storage backends
type RepositoryInterface interface {
	// GetOrCreate returns the conversation for id, creating it on first use.
	// Creation is idempotent: repeated calls observe one conversation with a
	// stable creation timestamp.
	GetOrCreate(ctx context.Context, id string) (*Conversation, error)

	// Append adds a message to the conversation, creating it if needed,
	// and updates last-activity. Appends to one conversation are serialized;
	// prior messages are never reordered or mutated.
	Append(ctx context.Context, id string, msg Message) (*Conversation, error)

	// List returns all conversations.
	List(ctx context.Context) ([]*Conversation, error)

	// GetByID returns the conversation for id, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Conversation, error)
}

package events

import (
	"context"
	"time"
)

// SubjectMessageRouted is the subject routed-message events are published on.
const SubjectMessageRouted = "messages.routed"

// MessageRouted is emitted
// after the router has persisted a message. Advisory only; consumers must
// tolerate loss.
type MessageRouted struct {
	MessageID       string    `json:"message_id"`
	ConversationID  string    `json:"conversation_id"`
	FromAddress     string    `json:"from_address"`
	ToAddress       string    `json:"to_address"`
	SourceLanguage  string    `json:"source_language"`
	TargetLanguage  string    `json:"target_language"`
	Platform        string    `json:"platform"`
	ShouldTranslate bool      `json:"should_translate"`
	Provider        string    `json:"provider,omitempty"`
	Confidence      float64   `json:"confidence"`
	RoutedAt        time.Time `json:"routed_at"`
}

// Publisher emits routing events to interested consumers.
type Publisher interface {
	PublishMessageRouted(ctx context.Context, event MessageRouted) error
	Close()
}

// NoopPublisher discards all events; used when no event bus is configured.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that discards events.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) PublishMessageRouted(ctx context.Context, event MessageRouted) error {
	return nil
}

func (p *NoopPublisher) Close() {}

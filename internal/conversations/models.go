package conversations

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single routed message. Messages are immutable once appended.
// TranslatedText is nil iff no translation was needed, in which case
// Confidence is 1.0.
type Message struct {
	ID               uuid.UUID `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	FromAddress      string    `json:"from_address"`
	ToAddress        string    `json:"to_address"`
	OriginalText     string    `json:"original_text"`
	OriginalLanguage string    `json:"original_language"`
	TranslatedText   *string   `json:"translated_text"`
	TargetLanguage   string    `json:"target_language"`
	Platform         string    `json:"platform"`
	Confidence       float64   `json:"confidence"`
}

// Conversation is an ordered thread of messages between two addresses.
// Mutated only by appending messages; never removed.
type Conversation struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	Messages     []Message `json:"messages"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// ConversationSummary is the list-view projection of a conversation.
type ConversationSummary struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Summary projects a conversation into its list view.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		ID:           c.ID,
		Participants: c.Participants,
		MessageCount: len(c.Messages),
		CreatedAt:    c.CreatedAt,
		LastActivity: c.LastActivity,
	}
}

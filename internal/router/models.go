package router

import (
	"errors"

	"github.com/desirekokuvi/bablit/internal/conversations"
)

// ErrInvalidMessage is returned when an inbound event is missing a required
// field. Nothing is routed or persisted in that case.
var ErrInvalidMessage = errors.New("conversation id, from, to and text are required")

// PlatformGeneric is assumed when an inbound event carries no platform tag.
const PlatformGeneric = "generic"

// InboundMessage is a message event handed to the router by a platform
// adapter. All fields are required except Platform.
type InboundMessage struct {
	ConversationID string `json:"conversation_id"`
	FromAddress    string `json:"from_address"`
	ToAddress      string `json:"to_address"`
	Text           string `json:"text"`
	Platform       string `json:"platform"`
}

// Decision is the routing outcome for one inbound message.
type Decision struct {
	ShouldTranslate bool                  `json:"should_translate"`
	TextToDeliver   string                `json:"text_to_deliver"`
	Confidence      float64               `json:"confidence"`
	Message         conversations.Message `json:"message"`
}

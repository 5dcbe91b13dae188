package router

import (
	"context"

	"github.com/desirekokuvi/bablit/internal/conversations"
	"github.com/desirekokuvi/bablit/internal/detect"
	"github.com/desirekokuvi/bablit/internal/translate"
)

// PreferenceStore is the slice of the preference service the router needs.
// A miss must surface preferences.ErrNotFound, never a default.
type PreferenceStore interface {
	Get(ctx context.Context, address string) (string, error)
	Set(ctx context.Context, address, language string) error
}

// ConversationStore is the slice of the conversation service the router
// needs. Append creates the conversation on first use.
type ConversationStore interface {
	Append(ctx context.Context, id string, msg conversations.Message) (*conversations.Conversation, error)
}

// Translator is the translation capability behind the router, normally the
// provider fallback chain.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*translate.Result, error)
}

// Detector identifies the language of inbound text; it degrades internally
// and never fails.
type Detector interface {
	Detect(ctx context.Context, text string) detect.Result
}

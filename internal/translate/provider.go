package translate

import (
	"context"
	"errors"
)

// ProviderNoTranslation tags results where source and target languages were
// identical and no backend was called.
const ProviderNoTranslation = "no-translation"

// ErrTranslationUnavailable is returned when every configured provider
// failed or none is configured. Callers must not treat the original text as
// a successful translation in this case.
var ErrTranslationUnavailable = errors.New("translation unavailable: all providers exhausted")

// Result is the outcome of a translation call.
type Result struct {
	TranslatedText string  `json:"translated_text"`
	Confidence     float64 `json:"confidence"`
	Provider       string  `json:"provider"`
	SourceLang     string  `json:"source_lang"`
	TargetLang     string  `json:"target_lang"`
}

// Provider translates text between two ISO 639-1 language codes.
type Provider interface {
	// Translate translates text from sourceLang to targetLang.
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error)

	// Name returns the provider identifier used in results and metrics.
	Name() string
}

package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/desirekokuvi/bablit/internal/conversations"
	"github.com/desirekokuvi/bablit/internal/events"
	"github.com/desirekokuvi/bablit/internal/preferences"
	"github.com/desirekokuvi/bablit/internal/translate"
	"github.com/desirekokuvi/bablit/pkg/langcode"
	"github.com/desirekokuvi/bablit/pkg/logger"
)

// Service orchestrates inbound messages: it resolves participant languages,
// translates when they differ, and records the message on its conversation.
type Service struct {
	prefs           PreferenceStore
	convs           ConversationStore
	translator      Translator
	detector        Detector
	publisher       events.Publisher
	defaultLanguage string
}

// NewService creates a new router service. defaultLanguage is the receiver
// fallback when no preference is stored.
func NewService(prefs PreferenceStore, convs ConversationStore, translator Translator, detector Detector, publisher events.Publisher, defaultLanguage string) *Service {
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}

	return &Service{
		prefs:           prefs,
		convs:           convs,
		translator:      translator,
		detector:        detector,
		publisher:       publisher,
		defaultLanguage: langcode.Normalize(defaultLanguage),
	}
}

// ProcessMessage routes one inbound message and returns the delivery
// decision. Translation exhaustion surfaces as
// translate.ErrTranslationUnavailable and nothing is appended; the caller
// decides whether to deliver the original, retry, or drop.
func (s *Service) ProcessMessage(ctx context.Context, msg InboundMessage) (*Decision, error) {
	if msg.ConversationID == "" || msg.FromAddress == "" || msg.ToAddress == "" || msg.Text == "" {
		return nil, ErrInvalidMessage
	}
	if msg.Platform == "" {
		msg.Platform = PlatformGeneric
	}

	log := logger.WithContext(ctx)

	senderLang := s.resolveSenderLanguage(ctx, msg)
	receiverLang := s.resolveReceiverLanguage(ctx, msg.ToAddress)

	var (
		translatedText *string
		confidence     = 1.0
		provider       string
	)

	shouldTranslate := senderLang != receiverLang
	if shouldTranslate {
		result, err := s.translator.Translate(ctx, msg.Text, senderLang, receiverLang)
		if err != nil {
			return nil, fmt.Errorf("translate %s->%s: %w", senderLang, receiverLang, err)
		}
		translatedText = &result.TranslatedText
		confidence = result.Confidence
		provider = result.Provider
	}

	record := conversations.Message{
		ID:               uuid.New(),
		Timestamp:        time.Now().UTC(),
		FromAddress:      msg.FromAddress,
		ToAddress:        msg.ToAddress,
		OriginalText:     msg.Text,
		OriginalLanguage: senderLang,
		TranslatedText:   translatedText,
		TargetLanguage:   receiverLang,
		Platform:         msg.Platform,
		Confidence:       confidence,
	}

	if _, err := s.convs.Append(ctx, msg.ConversationID, record); err != nil {
		return nil, fmt.Errorf("append message to conversation %s: %w", msg.ConversationID, err)
	}

	recordRouted(msg.Platform, shouldTranslate)
	s.publishRouted(ctx, msg, record, shouldTranslate, provider)

	textToDeliver := msg.Text
	if translatedText != nil {
		textToDeliver = *translatedText
	}

	log.Info("message routed",
		zap.String("conversation_id", msg.ConversationID),
		zap.String("platform", msg.Platform),
		zap.String("source_lang", senderLang),
		zap.String("target_lang", receiverLang),
		zap.Bool("translated", shouldTranslate),
	)

	return &Decision{
		ShouldTranslate: shouldTranslate,
		TextToDeliver:   textToDeliver,
		Confidence:      confidence,
		Message:         record,
	}, nil
}

// Translate exposes the provider chain directly, used by the test
// translation endpoint.
func (s *Service) Translate(ctx context.Context, text, sourceLang, targetLang string) (*translate.Result, error) {
	return s.translator.Translate(ctx, text, langcode.Normalize(sourceLang), langcode.Normalize(targetLang))
}

// resolveSenderLanguage looks up the sender's stored preference; on a miss
// it detects from the message text and caches the result, so repeated
// messages from the same sender skip detection.
func (s *Service) resolveSenderLanguage(ctx context.Context, msg InboundMessage) string {
	lang, err := s.prefs.Get(ctx, msg.FromAddress)
	if err == nil {
		return langcode.Normalize(lang)
	}
	if !errors.Is(err, preferences.ErrNotFound) {
		// A degraded store is treated as a miss; delivery beats accuracy.
		logger.WithContext(ctx).Warn("preference lookup failed, detecting instead",
			zap.String("address", msg.FromAddress),
			zap.Error(err),
		)
	}

	detection := s.detector.Detect(ctx, msg.Text)
	detected := langcode.Normalize(detection.Language)

	if err := s.prefs.Set(ctx, msg.FromAddress, detected); err != nil {
		logger.WithContext(ctx).Warn("failed to cache detected language",
			zap.String("address", msg.FromAddress),
			zap.Error(err),
		)
	}

	return detected
}

// resolveReceiverLanguage looks up the receiver's stored preference; a miss
// falls back to the configured default language. There is no receiver text
// to detect from, so detection is never attempted here.
func (s *Service) resolveReceiverLanguage(ctx context.Context, address string) string {
	lang, err := s.prefs.Get(ctx, address)
	if err != nil {
		return s.defaultLanguage
	}
	return langcode.Normalize(lang)
}

func (s *Service) publishRouted(ctx context.Context, msg InboundMessage, record conversations.Message, shouldTranslate bool, provider string) {
	event := events.MessageRouted{
		MessageID:       record.ID.String(),
		ConversationID:  msg.ConversationID,
		FromAddress:     msg.FromAddress,
		ToAddress:       msg.ToAddress,
		SourceLanguage:  record.OriginalLanguage,
		TargetLanguage:  record.TargetLanguage,
		Platform:        msg.Platform,
		ShouldTranslate: shouldTranslate,
		Provider:        provider,
		Confidence:      record.Confidence,
		RoutedAt:        record.Timestamp,
	}

	if err := s.publisher.PublishMessageRouted(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("failed to publish routed event",
			zap.String("message_id", event.MessageID),
			zap.Error(err),
		)
	}
}

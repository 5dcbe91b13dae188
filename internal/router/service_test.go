package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/desirekokuvi/bablit/internal/conversations"
	"github.com/desirekokuvi/bablit/internal/detect"
	"github.com/desirekokuvi/bablit/internal/events"
	"github.com/desirekokuvi/bablit/internal/preferences"
	"github.com/desirekokuvi/bablit/internal/translate"
)

// MockPreferenceStore is an in-package mock for testing
type MockPreferenceStore struct {
	mock.Mock
}

func (m *MockPreferenceStore) Get(ctx context.Context, address string) (string, error) {
	args := m.Called(ctx, address)
	return args.String(0), args.Error(1)
}

func (m *MockPreferenceStore) Set(ctx context.Context, address, language string) error {
	args := m.Called(ctx, address, language)
	return args.Error(0)
}

// MockConversationStore is an in-package mock for testing
type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) Append(ctx context.Context, id string, msg conversations.Message) (*conversations.Conversation, error) {
	args := m.Called(ctx, id, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversations.Conversation), args.Error(1)
}

// MockTranslator is an in-package mock for testing
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (*translate.Result, error) {
	args := m.Called(ctx, text, sourceLang, targetLang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*translate.Result), args.Error(1)
}

// MockDetector is an in-package mock for testing
type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) Detect(ctx context.Context, text string) detect.Result {
	args := m.Called(ctx, text)
	return args.Get(0).(detect.Result)
}

// MockPublisher is an in-package mock for testing
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishMessageRouted(ctx context.Context, event events.MessageRouted) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}

type fixture struct {
	prefs      *MockPreferenceStore
	convs      *MockConversationStore
	translator *MockTranslator
	detector   *MockDetector
	service    *Service
}

func newFixture() *fixture {
	f := &fixture{
		prefs:      new(MockPreferenceStore),
		convs:      new(MockConversationStore),
		translator: new(MockTranslator),
		detector:   new(MockDetector),
	}
	f.service = NewService(f.prefs, f.convs, f.translator, f.detector, nil, "en")
	return f
}

func inbound() InboundMessage {
	return InboundMessage{
		ConversationID: "conv-1",
		FromAddress:    "+15551234567",
		ToAddress:      "business",
		Text:           "Bonjour",
		Platform:       "gohighlevel",
	}
}

func appendedConv(msg conversations.Message) *conversations.Conversation {
	return &conversations.Conversation{
		ID:       "conv-1",
		Messages: []conversations.Message{msg},
	}
}

func TestProcessMessage_DetectsTranslatesAndCaches(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	msg := inbound()

	// Unknown sender: detect French, cache it; receiver has an English pref.
	f.prefs.On("Get", ctx, "+15551234567").Return("", preferences.ErrNotFound)
	f.detector.On("Detect", ctx, "Bonjour").Return(detect.Result{Language: "fr", Confidence: 0.98, IsReliable: true})
	f.prefs.On("Set", ctx, "+15551234567", "fr").Return(nil)
	f.prefs.On("Get", ctx, "business").Return("en", nil)
	f.translator.On("Translate", ctx, "Bonjour", "fr", "en").Return(&translate.Result{
		TranslatedText: "Hello",
		Confidence:     0.92,
		Provider:       "deepl",
		SourceLang:     "fr",
		TargetLang:     "en",
	}, nil)
	f.convs.On("Append", ctx, "conv-1", mock.AnythingOfType("conversations.Message")).
		Return(appendedConv(conversations.Message{}), nil)

	decision, err := f.service.ProcessMessage(ctx, msg)

	require.NoError(t, err)
	assert.True(t, decision.ShouldTranslate)
	assert.Equal(t, "Hello", decision.TextToDeliver)
	assert.Equal(t, 0.92, decision.Confidence)
	assert.Equal(t, "Bonjour", decision.Message.OriginalText)
	assert.Equal(t, "fr", decision.Message.OriginalLanguage)
	assert.Equal(t, "en", decision.Message.TargetLanguage)
	require.NotNil(t, decision.Message.TranslatedText)
	assert.Equal(t, "Hello", *decision.Message.TranslatedText)
	f.prefs.AssertExpectations(t)
	f.detector.AssertExpectations(t)
	f.translator.AssertExpectations(t)
	f.convs.AssertExpectations(t)
}

func TestProcessMessage_KnownSenderSkipsDetection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	msg := inbound()

	f.prefs.On("Get", ctx, "+15551234567").Return("fr", nil)
	f.prefs.On("Get", ctx, "business").Return("en", nil)
	f.translator.On("Translate", ctx, "Bonjour", "fr", "en").Return(&translate.Result{
		TranslatedText: "Hello",
		Confidence:     0.9,
		Provider:       "google",
	}, nil)
	f.convs.On("Append", ctx, "conv-1", mock.AnythingOfType("conversations.Message")).
		Return(appendedConv(conversations.Message{}), nil)

	_, err := f.service.ProcessMessage(ctx, msg)

	require.NoError(t, err)
	f.detector.AssertNotCalled(t, "Detect")
	f.prefs.AssertNotCalled(t, "Set")
}

func TestProcessMessage_SameLanguagePassthrough(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	msg := inbound()
	msg.Text = "Hello there"

	f.prefs.On("Get", ctx, "+15551234567").Return("en", nil)
	f.prefs.On("Get", ctx, "business").Return("en", nil)
	f.convs.On("Append", ctx, "conv-1", mock.AnythingOfType("conversations.Message")).
		Return(appendedConv(conversations.Message{}), nil)

	decision, err := f.service.ProcessMessage(ctx, msg)

	require.NoError(t, err)
	assert.False(t, decision.ShouldTranslate)
	assert.Equal(t, "Hello there", decision.TextToDeliver)
	assert.Equal(t, 1.0, decision.Confidence)
	assert.Nil(t, decision.Message.TranslatedText)
	f.translator.AssertNotCalled(t, "Translate")
}

func TestProcessMessage_ReceiverMissUsesDefaultLanguage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	msg := inbound()

	f.prefs.On("Get", ctx, "+15551234567").Return("es", nil)
	f.prefs.On("Get", ctx, "business").Return("", preferences.ErrNotFound)
	f.translator.On("Translate", ctx, "Bonjour", "es", "en").Return(&translate.Result{
		TranslatedText: "Hello",
		Confidence:     0.9,
		Provider:       "google",
	}, nil)
	f.convs.On("Append", ctx, "conv-1", mock.AnythingOfType("conversations.Message")).
		Return(appendedConv(conversations.Message{}), nil)

	_, err := f.service.ProcessMessage(ctx, msg)

	require.NoError(t, err)
	// Receiver side never detects; there is no receiver text to detect from.
	f.detector.AssertNotCalled(t, "Detect")
	f.translator.AssertExpectations(t)
}

func TestProcessMessage_TranslationUnavailableAppendsNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	msg := inbound()

	f.prefs.On("Get", ctx, "+15551234567").Return("fr", nil)
	f.prefs.On("Get", ctx, "business").Return("en", nil)
	f.translator.On("Translate", ctx, "Bonjour", "fr", "en").
		Return(nil, translate.ErrTranslationUnavailable)

	decision, err := f.service.ProcessMessage(ctx, msg)

	require.ErrorIs(t, err, translate.ErrTranslationUnavailable)
	assert.Nil(t, decision)
	f.convs.AssertNotCalled(t, "Append")
}

func TestProcessMessage_DegradedPreferenceStoreFallsBackToDetection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	msg := inbound()

	f.prefs.On("Get", ctx, "+15551234567").Return("", errors.New("connection reset"))
	f.detector.On("Detect", ctx, "Bonjour").Return(detect.Result{Language: "fr", Confidence: 0.98, IsReliable: true})
	f.prefs.On("Set", ctx, "+15551234567", "fr").Return(errors.New("connection reset"))
	f.prefs.On("Get", ctx, "business").Return("", errors.New("connection reset"))
	f.translator.On("Translate", ctx, "Bonjour", "fr", "en").Return(&translate.Result{
		TranslatedText: "Hello",
		Confidence:     0.9,
		Provider:       "google",
	}, nil)
	f.convs.On("Append", ctx, "conv-1", mock.AnythingOfType("conversations.Message")).
		Return(appendedConv(conversations.Message{}), nil)

	decision, err := f.service.ProcessMessage(ctx, msg)

	// Store failures degrade to detection and the default language; the
	// message still goes through.
	require.NoError(t, err)
	assert.True(t, decision.ShouldTranslate)
}

func TestProcessMessage_CacheWriteFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	msg := inbound()
	msg.Text = "Hello"

	f.prefs.On("Get", ctx, "+15551234567").Return("", preferences.ErrNotFound)
	f.detector.On("Detect", ctx, "Hello").Return(detect.Result{Language: "en", Confidence: 0.99, IsReliable: true})
	f.prefs.On("Set", ctx, "+15551234567", "en").Return(errors.New("write failed"))
	f.prefs.On("Get", ctx, "business").Return("en", nil)
	f.convs.On("Append", ctx, "conv-1", mock.AnythingOfType("conversations.Message")).
		Return(appendedConv(conversations.Message{}), nil)

	decision, err := f.service.ProcessMessage(ctx, msg)

	require.NoError(t, err)
	assert.False(t, decision.ShouldTranslate)
}

func TestProcessMessage_AppendFailurePropagates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	msg := inbound()
	msg.Text = "Hello"

	f.prefs.On("Get", ctx, "+15551234567").Return("en", nil)
	f.prefs.On("Get", ctx, "business").Return("en", nil)
	f.convs.On("Append", ctx, "conv-1", mock.AnythingOfType("conversations.Message")).
		Return(nil, errors.New("disk full"))

	decision, err := f.service.ProcessMessage(ctx, msg)

	require.Error(t, err)
	assert.Nil(t, decision)
}

func TestProcessMessage_ValidatesRequiredFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*InboundMessage)
	}{
		{"missing conversation id", func(m *InboundMessage) { m.ConversationID = "" }},
		{"missing from", func(m *InboundMessage) { m.FromAddress = "" }},
		{"missing to", func(m *InboundMessage) { m.ToAddress = "" }},
		{"missing text", func(m *InboundMessage) { m.Text = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := inbound()
			tt.mutate(&msg)

			_, err := f.service.ProcessMessage(ctx, msg)

			assert.ErrorIs(t, err, ErrInvalidMessage)
		})
	}
	f.convs.AssertNotCalled(t, "Append")
}

func TestProcessMessage_DefaultsPlatform(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	msg := inbound()
	msg.Platform = ""
	msg.Text = "Hello"

	f.prefs.On("Get", ctx, "+15551234567").Return("en", nil)
	f.prefs.On("Get", ctx, "business").Return("en", nil)
	f.convs.On("Append", ctx, "conv-1", mock.MatchedBy(func(m conversations.Message) bool {
		return m.Platform == PlatformGeneric
	})).Return(appendedConv(conversations.Message{}), nil)

	_, err := f.service.ProcessMessage(ctx, msg)

	require.NoError(t, err)
	f.convs.AssertExpectations(t)
}

func TestProcessMessage_PublishesRoutedEvent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	msg := inbound()
	msg.Text = "Hello"

	publisher := new(MockPublisher)
	f.service = NewService(f.prefs, f.convs, f.translator, f.detector, publisher, "en")

	f.prefs.On("Get", ctx, "+15551234567").Return("en", nil)
	f.prefs.On("Get", ctx, "business").Return("en", nil)
	f.convs.On("Append", ctx, "conv-1", mock.AnythingOfType("conversations.Message")).
		Return(appendedConv(conversations.Message{}), nil)
	publisher.On("PublishMessageRouted", ctx, mock.MatchedBy(func(e events.MessageRouted) bool {
		return e.ConversationID == "conv-1" && !e.ShouldTranslate
	})).Return(nil)

	_, err := f.service.ProcessMessage(ctx, msg)

	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestProcessMessage_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	msg := inbound()
	msg.Text = "Hello"

	publisher := new(MockPublisher)
	f.service = NewService(f.prefs, f.convs, f.translator, f.detector, publisher, "en")

	f.prefs.On("Get", ctx, "+15551234567").Return("en", nil)
	f.prefs.On("Get", ctx, "business").Return("en", nil)
	f.convs.On("Append", ctx, "conv-1", mock.AnythingOfType("conversations.Message")).
		Return(appendedConv(conversations.Message{}), nil)
	publisher.On("PublishMessageRouted", ctx, mock.Anything).Return(errors.New("nats down"))

	_, err := f.service.ProcessMessage(ctx, msg)

	require.NoError(t, err)
}

func TestServiceTranslate_NormalizesLanguageCodes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.translator.On("Translate", ctx, "Hello", "en", "es").Return(&translate.Result{
		TranslatedText: "Hola",
		Confidence:     0.9,
		Provider:       "google",
	}, nil)

	result, err := f.service.Translate(ctx, "Hello", "EN-us", "ES")

	require.NoError(t, err)
	assert.Equal(t, "Hola", result.TranslatedText)
	f.translator.AssertExpectations(t)
}

package translate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider is a scripted provider for chain tests
type stubProvider struct {
	name      string
	result    *Result
	err       error
	callCount int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	p.callCount++
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func okResult(provider, text string) *Result {
	return &Result{
		TranslatedText: text,
		Confidence:     0.9,
		Provider:       provider,
		SourceLang:     "en",
		TargetLang:     "es",
	}
}

func TestChainTranslate_FirstProviderSucceeds(t *testing.T) {
	primary := &stubProvider{name: "primary", result: okResult("primary", "Hola")}
	secondary := &stubProvider{name: "secondary", result: okResult("secondary", "Hola")}
	chain := NewChain([]Provider{primary, secondary}, time.Second)

	result, err := chain.Translate(context.Background(), "Hello", "en", "es")

	require.NoError(t, err)
	assert.Equal(t, "Hola", result.TranslatedText)
	assert.Equal(t, "primary", result.Provider)
	assert.Equal(t, 1, primary.callCount)
	assert.Equal(t, 0, secondary.callCount, "fallback should not run when primary succeeds")
}

func TestChainTranslate_FallsBackInOrder(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("quota exceeded")}
	second := &stubProvider{name: "second", result: okResult("second", "Hola")}
	third := &stubProvider{name: "third", result: okResult("third", "Hola")}
	chain := NewChain([]Provider{first, second, third}, time.Second)

	result, err := chain.Translate(context.Background(), "Hello", "en", "es")

	require.NoError(t, err)
	assert.Equal(t, "second", result.Provider)
	assert.Equal(t, 1, first.callCount)
	assert.Equal(t, 1, second.callCount)
	assert.Equal(t, 0, third.callCount, "chain should stop at the first success")
}

func TestChainTranslate_AllProvidersFail(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("timeout")}
	second := &stubProvider{name: "second", err: errors.New("bad gateway")}
	chain := NewChain([]Provider{first, second}, time.Second)

	result, err := chain.Translate(context.Background(), "Hello", "en", "es")

	require.ErrorIs(t, err, ErrTranslationUnavailable)
	assert.Nil(t, result, "original text must never be returned as a translation")
	assert.Equal(t, 1, first.callCount)
	assert.Equal(t, 1, second.callCount)
}

func TestChainTranslate_NoProvidersConfigured(t *testing.T) {
	chain := NewChain(nil, time.Second)

	result, err := chain.Translate(context.Background(), "Hello", "en", "es")

	require.ErrorIs(t, err, ErrTranslationUnavailable)
	assert.Nil(t, result)
}

func TestChainTranslate_SameLanguageShortCircuits(t *testing.T) {
	provider := &stubProvider{name: "primary", result: okResult("primary", "should not be used")}
	chain := NewChain([]Provider{provider}, time.Second)

	result, err := chain.Translate(context.Background(), "Hello", "en", "en")

	require.NoError(t, err)
	assert.Equal(t, "Hello", result.TranslatedText)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, ProviderNoTranslation, result.Provider)
	assert.Equal(t, 0, provider.callCount, "no provider should be invoked for same-language input")
}

func TestChainTranslate_StopsAfterContextCancelled(t *testing.T) {
	first := &stubProvider{name: "first", err: context.Canceled}
	second := &stubProvider{name: "second", result: okResult("second", "Hola")}
	chain := NewChain([]Provider{first, second}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := chain.Translate(ctx, "Hello", "en", "es")

	require.ErrorIs(t, err, ErrTranslationUnavailable)
	assert.Nil(t, result)
	assert.Equal(t, 0, second.callCount, "a dead context should not reach the fallback")
}

func TestChainProviders(t *testing.T) {
	chain := NewChain([]Provider{
		&stubProvider{name: "google"},
		&stubProvider{name: "deepl"},
	}, time.Second)

	assert.Equal(t, []string{"google", "deepl"}, chain.Providers())
}

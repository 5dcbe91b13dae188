package translate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/desirekokuvi/bablit/pkg/logger"
	"github.com/desirekokuvi/bablit/pkg/resilience"
)

// Chain tries providers in a fixed priority order, advancing on failure.
// Each attempt is bounded by its own timeout and runs through a
// per-provider circuit breaker.
type Chain struct {
	providers      []Provider
	breakers       map[string]*resilience.CircuitBreaker
	attemptTimeout time.Duration
}

// NewChain creates a fallback chain from the given providers. Order is
// priority order: the first provider is always attempted first.
func NewChain(providers []Provider, attemptTimeout time.Duration) *Chain {
	if attemptTimeout <= 0 {
		attemptTimeout = 10 * time.Second
	}

	breakers := make(map[string]*resilience.CircuitBreaker, len(providers))
	for _, p := range providers {
		breakers[p.Name()] = resilience.NewCircuitBreaker(
			resilience.DefaultSettings("translate-" + p.Name()),
		)
	}

	return &Chain{
		providers:      providers,
		breakers:       breakers,
		attemptTimeout: attemptTimeout,
	}
}

// Providers returns the names of the configured providers in priority order.
func (c *Chain) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Translate translates text from sourceLang to targetLang through the first
// provider that succeeds.
//
// Identical source and target languages short-circuit: the original text is
// returned untouched with confidence 1.0 and no provider is invoked.
// When every provider fails, or none is configured, ErrTranslationUnavailable
// is returned; the original text is never passed off as a translation.
func (c *Chain) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	if sourceLang == targetLang {
		return &Result{
			TranslatedText: text,
			Confidence:     1.0,
			Provider:       ProviderNoTranslation,
			SourceLang:     sourceLang,
			TargetLang:     targetLang,
		}, nil
	}

	log := logger.WithContext(ctx)

	for i, p := range c.providers {
		result, err := c.attempt(ctx, p, text, sourceLang, targetLang)
		if err == nil {
			recordAttempt(p.Name(), outcomeSuccess)
			if i > 0 {
				log.Info("translation used fallback provider",
					zap.String("provider", p.Name()),
					zap.Int("attempt", i+1),
				)
			}
			return result, nil
		}

		recordAttempt(p.Name(), outcomeFailure)
		log.Warn("translation provider failed, trying next",
			zap.String("provider", p.Name()),
			zap.Int("attempt", i+1),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, ErrTranslationUnavailable
}

func (c *Chain) attempt(ctx context.Context, p Provider, text, sourceLang, targetLang string) (*Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	value, err := c.breakers[p.Name()].Execute(attemptCtx, func(ctx context.Context) (interface{}, error) {
		return p.Translate(ctx, text, sourceLang, targetLang)
	})
	if err != nil {
		return nil, err
	}

	return value.(*Result), nil
}

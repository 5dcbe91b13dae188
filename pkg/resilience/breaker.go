package resilience

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/desirekokuvi/bablit/pkg/logger"
)

// ErrCircuitOpen is returned when the breaker rejects a call without
// attempting the wrapped operation.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker wraps gobreaker with logging and metrics.
type CircuitBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// NewCircuitBreaker creates a circuit breaker from the given settings.
func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.SuccessThreshold,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			recordStateChange(name, to)
		},
	})

	return &CircuitBreaker{name: settings.Name, cb: cb}
}

// Execute runs the operation through the breaker. An open breaker returns
// ErrCircuitOpen without invoking the operation. A context already cancelled
// is reported as a failure before the call is attempted.
func (b *CircuitBreaker) Execute(ctx context.Context, operation func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := b.cb.Execute(func() (interface{}, error) {
		return operation(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		return nil, err
	}

	return result, nil
}

// Name returns the breaker name.
func (b *CircuitBreaker) Name() string {
	return b.name
}

// State returns the current breaker state as a string.
func (b *CircuitBreaker) State() string {
	return b.cb.State().String()
}

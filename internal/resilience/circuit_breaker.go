// Package resilience wraps the optional remote Prometheus Pushgateway push
// in a circuit breaker so repeated failures against an unreachable gateway
// stop further push attempts.
package resilience

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// PushgatewayBreaker wraps calls to push metrics to a remote Pushgateway.
type PushgatewayBreaker struct {
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewPushgatewayBreaker constructs a breaker that opens after 3 consecutive
// failures and tries a half-open probe after 30 seconds.
func NewPushgatewayBreaker(logger *zap.Logger) *PushgatewayBreaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "pushgateway_breaker"))

	settings := gobreaker.Settings{
		Name:    "pushgateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &PushgatewayBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Push executes push through the breaker. While the breaker is open it
// returns gobreaker.ErrOpenState without calling push; otherwise it calls
// push synchronously and returns its error, so a hung push blocks the caller.
func (b *PushgatewayBreaker) Push(push func() error) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, push()
	})
	return err
}

// State reports the breaker's current state, for introspection endpoints.
func (b *PushgatewayBreaker) State() gobreaker.State {
	return b.breaker.State()
}

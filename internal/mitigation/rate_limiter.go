// Package mitigation paces the producer goroutine when demoing the
// pipeline against a replay file, so a terminal dashboard has time to
// render before the run finishes. It is never used on the default path:
// with throttling disabled the producer pushes as fast as the ring buffer
// accepts, preserving the pipeline's nanosecond-latency hot-path contract.
package mitigation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ThrottleConfig configures a ReplayThrottle.
type ThrottleConfig struct {
	// RowsPerSecond is the maximum rate of CSV rows released to the
	// producer. Zero disables throttling entirely (the caller should not
	// construct a ReplayThrottle at all in that case).
	RowsPerSecond float64
	// Burst is the maximum number of rows releasable in a single instant.
	Burst int
}

// DefaultThrottleConfig returns a conservative default for interactive
// demo runs.
func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{RowsPerSecond: 2000, Burst: 200}
}

// ReplayThrottle wraps a token-bucket limiter around the producer's CSV row
// iteration. It must never be invoked from the consumer goroutine or from
// inside OrderBook/TradingEngine processing.
type ReplayThrottle struct {
	limiter *rate.Limiter
	logger  *zap.Logger

	mu       sync.Mutex
	released int64
	waited   time.Duration
}

// NewReplayThrottle constructs a ReplayThrottle from config.
func NewReplayThrottle(config ThrottleConfig, logger *zap.Logger) *ReplayThrottle {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ReplayThrottle{
		limiter: rate.NewLimiter(rate.Limit(config.RowsPerSecond), config.Burst),
		logger:  logger.With(zap.String("component", "replay_throttle")),
	}
}

// Wait blocks until the next row is allowed to be released to the producer,
// or ctx is done.
func (t *ReplayThrottle) Wait(ctx context.Context) error {
	start := time.Now()
	err := t.limiter.Wait(ctx)
	elapsed := time.Since(start)

	t.mu.Lock()
	t.waited += elapsed
	if err == nil {
		t.released++
	}
	t.mu.Unlock()

	return err
}

// Stats returns the number of rows released and total wait time so far.
func (t *ReplayThrottle) Stats() (released int64, waited time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released, t.waited
}

// Package workerpool runs strictly background tasks for a nanofill run:
// the entrypoint submits the optional compressed latency-dump write to it.
// RunPeriodic can tick a task onto the pool, but nothing in the entrypoint
// schedules one. None of this ever touches the pipeline's two hot-path
// goroutines.
package workerpool

import (
	"errors"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// ErrPoolClosed is returned when a task is submitted after Release.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool runs background tasks on a bounded goroutine pool.
type Pool struct {
	pool   *ants.Pool
	logger *zap.Logger
}

// New constructs a Pool with the given maximum concurrency.
func New(size int, logger *zap.Logger) (*Pool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "workerpool"))

	p, err := ants.NewPool(size,
		ants.WithExpiryDuration(10*time.Minute),
		ants.WithPreAlloc(true),
		ants.WithPanicHandler(func(rec interface{}) {
			logger.Error("background task panicked", zap.Any("panic", rec))
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Pool{pool: p, logger: logger}, nil
}

// Submit schedules task to run on the pool. Returns ErrPoolClosed if the
// pool has been released.
func (p *Pool) Submit(task func()) error {
	if err := p.pool.Submit(task); err != nil {
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		return err
	}
	return nil
}

// Release closes the pool; it does not wait for in-flight tasks to finish.
func (p *Pool) Release() {
	p.pool.Release()
}

// RunPeriodic submits fn to the pool on every tick until stop is closed.
func (p *Pool) RunPeriodic(interval time.Duration, stop <-chan struct{}, fn func()) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := p.Submit(fn); err != nil {
					p.logger.Warn("failed to submit periodic task", zap.Error(err))
				}
			}
		}
	}()
}

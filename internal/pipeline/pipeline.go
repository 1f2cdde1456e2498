// Package pipeline wires the ring buffer, order book, and trading engine
// together: a producer goroutine feeds events into the ring buffer, a
// consumer goroutine drains them in batches, drives the book and engine,
// and records per-event processing latency.
package pipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/abdoElHodaky/nanofill/internal/events"
	"github.com/abdoElHodaky/nanofill/internal/metrics"
	"github.com/abdoElHodaky/nanofill/internal/mitigation"
	"github.com/abdoElHodaky/nanofill/internal/orderbook"
	"github.com/abdoElHodaky/nanofill/internal/ringbuffer"
	"github.com/abdoElHodaky/nanofill/internal/tradingengine"
	"github.com/google/uuid"
)

// BatchSize is the number of events drained per PopMany call. 8 balances
// amortising the ring buffer's index load cost against keeping per-event
// timing granular (timing wraps a single event, not the batch).
const BatchSize = 8

// Result holds everything produced by a completed run: the final book and
// engine state, one latency sample per processed event, and the average
// share price recorded after every accepted event (for trend reporting).
type Result struct {
	RunID          string
	Book           *orderbook.OrderBook
	Engine         *tradingengine.TradingEngine
	PriceSeries    *tradingengine.PriceSeries
	LatencyNanos   []int64
	EventsAccepted int
}

// Options configures a Run.
type Options struct {
	RingBufferCapacity int
	PriceSpread        uint32
	// Throttle, if non-nil, paces the producer's CSV row release rate for
	// demo purposes. It never runs on the hot path proper: it is consulted
	// once per event before Push, strictly in the producer goroutine.
	Throttle *mitigation.ReplayThrottle
	// Metrics, if non-nil, is updated by the consumer: events processed and
	// rejected by type, and per-batch size/latency observations. Left nil in
	// tests and benchmarks that don't need a registry.
	Metrics *metrics.Registry
}

// Run replays seq through a fresh RingBuffer, OrderBook, and TradingEngine
// using exactly two goroutines (producer and consumer), and returns the
// final state plus one latency sample per event. It blocks until every
// event in seq has been produced and consumed.
func Run(seq []events.Event, opts Options) (*Result, error) {
	rb, err := ringbuffer.New[events.Event](opts.RingBufferCapacity)
	if err != nil {
		return nil, err
	}

	book := orderbook.New()
	engine := tradingengine.New(opts.PriceSpread)
	series := &tradingengine.PriceSeries{}
	latency := make([]int64, len(seq))
	accepted := 0

	done := make(chan struct{})

	go produce(rb, seq, opts.Throttle)
	go consume(rb, book, engine, series, opts.Metrics, latency, len(seq), &accepted, done)

	<-done

	return &Result{
		RunID:          uuid.New().String(),
		Book:           book,
		Engine:         engine,
		PriceSeries:    series,
		LatencyNanos:   latency,
		EventsAccepted: accepted,
	}, nil
}

func produce(rb *ringbuffer.RingBuffer[events.Event], seq []events.Event, throttle *mitigation.ReplayThrottle) {
	runtime.LockOSThread()

	ctx := context.Background()

	for _, e := range seq {
		if throttle != nil {
			_ = throttle.Wait(ctx)
		}

		for !rb.Push(e) {
			// Busy-wait: no backoff, no sleep. Any introduced latency here
			// would dominate the metric the consumer is measuring.
		}
	}
}

func consume(
	rb *ringbuffer.RingBuffer[events.Event],
	book *orderbook.OrderBook,
	engine *tradingengine.TradingEngine,
	series *tradingengine.PriceSeries,
	reg *metrics.Registry,
	latency []int64,
	total int,
	acceptedCount *int,
	done chan<- struct{},
) {
	runtime.LockOSThread()

	batch := make([]events.Event, BatchSize)
	consumed := 0

	for consumed < total {
		n := rb.PopMany(batch)
		if n == 0 {
			continue
		}

		batchStart := consumed

		for i := 0; i < n; i++ {
			e := batch[i]

			start := time.Now()
			accepted := book.ProcessEvent(e)
			if accepted {
				*acceptedCount++
			}
			if accepted || e.Type == events.Submission {
				engine.ProcessEvent(e)
				series.Record(engine)
			}
			latency[consumed] = time.Since(start).Nanoseconds()

			if reg != nil {
				if accepted {
					reg.EventsProcessed.WithLabelValues(e.Type.String()).Inc()
				} else {
					reg.EventsRejected.WithLabelValues(e.Type.String()).Inc()
				}
			}

			consumed++
		}

		if reg != nil {
			reg.ObserveBatch(n, latency[batchStart:consumed])
		}
	}

	close(done)
}

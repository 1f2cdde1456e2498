// Package metrics exposes a Prometheus registry describing pipeline
// throughput and latency, populated by the pipeline's consumer goroutine
// and scraped by the optional ambient HTTP server. When a Registry is
// supplied, the consumer increments the processed/rejected counters once
// per event and calls ObserveBatch once per drained batch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry bundles the collectors this service exposes.
type Registry struct {
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	EventsProcessed  *prometheus.CounterVec
	EventsRejected   *prometheus.CounterVec
	BatchesConsumed  prometheus.Counter
	BatchSizeHisto   prometheus.Histogram
	LatencyHistogram prometheus.Histogram
}

// New constructs a Registry with all collectors registered against a fresh
// prometheus.Registry.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		Registerer: reg,
		Gatherer:   reg,
		EventsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nanofill",
			Name:      "events_processed_total",
			Help:      "Events the order book accepted, by event type.",
		}, []string{"type"}),
		EventsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nanofill",
			Name:      "events_rejected_total",
			Help:      "Events the order book did not accept, by event type.",
		}, []string{"type"}),
		BatchesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nanofill",
			Name:      "batches_consumed_total",
			Help:      "Number of ring buffer batches drained by the consumer.",
		}),
		BatchSizeHisto: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nanofill",
			Name:      "batch_size",
			Help:      "Distribution of batch sizes returned by PopMany.",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		}),
		LatencyHistogram: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nanofill",
			Name:      "event_latency_nanoseconds",
			Help:      "Per-event consumer processing latency.",
			Buckets:   prometheus.ExponentialBuckets(100, 2, 16),
		}),
	}

	reg.MustRegister(
		r.EventsProcessed,
		r.EventsRejected,
		r.BatchesConsumed,
		r.BatchSizeHisto,
		r.LatencyHistogram,
	)

	return r
}

// ObserveBatch records a drained batch's size and the latency samples of
// the events within it. The pipeline's consumer calls it after each
// drained batch.
func (r *Registry) ObserveBatch(size int, latencyNanos []int64) {
	r.BatchesConsumed.Inc()
	r.BatchSizeHisto.Observe(float64(size))
	for _, ns := range latencyNanos {
		r.LatencyHistogram.Observe(float64(ns))
	}
}

package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestObserveBatchUpdatesCollectors(t *testing.T) {
	r := New()

	r.ObserveBatch(3, []int64{100, 200, 300})

	families, err := r.Gatherer.Gather()
	require.NoError(t, err)

	var found bool
	for _, fam := range families {
		if fam.GetName() == "nanofill_batches_consumed_total" {
			found = true
			require.Len(t, fam.Metric, 1)
			require.Equal(t, float64(1), fam.Metric[0].GetCounter().GetValue())
		}
	}
	require.True(t, found, "batches_consumed_total collector not found")
}

func TestEventsProcessedLabelsByType(t *testing.T) {
	r := New()

	r.EventsProcessed.WithLabelValues("submission").Inc()
	r.EventsProcessed.WithLabelValues("submission").Inc()
	r.EventsRejected.WithLabelValues("cancellation").Inc()

	families, err := r.Gatherer.Gather()
	require.NoError(t, err)

	var metric *dto.Metric
	for _, fam := range families {
		if fam.GetName() == "nanofill_events_processed_total" {
			metric = fam.Metric[0]
		}
	}
	require.NotNil(t, metric)
	require.Equal(t, float64(2), metric.GetCounter().GetValue())
}

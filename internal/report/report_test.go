package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/abdoElHodaky/nanofill/internal/tradingengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeMonotonic(t *testing.T) {
	samples := make([]int64, 1000)
	for i := range samples {
		samples[i] = int64(i)
	}

	p := Summarize(samples)
	assert.Equal(t, int64(0), p.P0)
	assert.Equal(t, int64(999), p.P100)
	assert.True(t, p.P50 <= p.P75)
	assert.True(t, p.P75 <= p.P90)
	assert.True(t, p.P90 <= p.P95)
	assert.True(t, p.P95 <= p.P99)
	assert.True(t, p.P99 <= p.P999)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Percentiles{}, Summarize(nil))
}

func TestRenderProducesFifteenBands(t *testing.T) {
	samples := make([]int64, 2000)
	for i := range samples {
		samples[i] = int64(i % 500)
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, samples, nil))

	out := buf.String()
	assert.Contains(t, out, "P0:")
	assert.Contains(t, out, "P99.9:")
	assert.Contains(t, out, "===== P99.9 latency distribution =====")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	bandLines := 0
	for _, line := range lines {
		if strings.Contains(line, "ns |") {
			bandLines++
		}
	}
	assert.Equal(t, chartBands, bandLines)
}

func TestRenderEmptySamples(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil, nil))
	assert.Contains(t, buf.String(), "no latency samples recorded")
}

func TestRenderAppendsTrendWhenSeriesHasEnoughSamples(t *testing.T) {
	samples := []int64{100, 200, 300}

	engine := tradingengine.New(20)
	series := &tradingengine.PriceSeries{}
	for i := 0; i < trendPeriod; i++ {
		series.Record(engine)
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, samples, series))
	assert.Contains(t, buf.String(), "average share price trend (SMA)")
}

func TestRenderOmitsTrendWhenSeriesTooShort(t *testing.T) {
	samples := []int64{100, 200, 300}

	series := &tradingengine.PriceSeries{}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, samples, series))
	assert.NotContains(t, buf.String(), "trend")
}

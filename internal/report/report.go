// Package report renders the post-run latency percentile summary and
// histogram described by the pipeline's external interface: eight
// percentile lines followed by a 15-band bar chart over the P99.9 slice of
// the distribution, and an optional trend line computed from the run's
// recorded average share price series.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/abdoElHodaky/nanofill/internal/tradingengine"
	"gonum.org/v1/gonum/stat"
)

// chartBands is the number of equal-width bands the P99.9 slice is binned
// into.
const chartBands = 15

// chartWidth is the maximum bar width in characters.
const chartWidth = 60

// labelWidth is the fixed width each band's leading label is padded to.
const labelWidth = 8

// trendPeriod is the moving-average window Render asks PriceSeries.Trend
// for. Shorter runs than this simply get no trend line.
const trendPeriod = 50

// Percentiles holds the eight summary latencies, in nanoseconds.
type Percentiles struct {
	P0, P50, P75, P90, P95, P99, P999, P100 int64
}

// Summarize computes Percentiles over samples (nanosecond latencies), which
// need not be sorted. Returns the zero value if samples is empty.
func Summarize(samples []int64) Percentiles {
	if len(samples) == 0 {
		return Percentiles{}
	}

	sorted := append([]int64(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	floats := make([]float64, len(sorted))
	for i, v := range sorted {
		floats[i] = float64(v)
	}

	quantile := func(p float64) int64 {
		return int64(stat.Quantile(p, stat.Empirical, floats, nil))
	}

	return Percentiles{
		P0:   sorted[0],
		P50:  quantile(0.50),
		P75:  quantile(0.75),
		P90:  quantile(0.90),
		P95:  quantile(0.95),
		P99:  quantile(0.99),
		P999: quantile(0.999),
		P100: sorted[len(sorted)-1],
	}
}

// Render writes the percentile summary followed by the P99.9-slice bar
// chart to w, in the format described by the external interface. series may
// be nil; when it holds at least trendPeriod samples, a trailing moving
// average of the recorded average share price is appended.
func Render(w io.Writer, samples []int64, series *tradingengine.PriceSeries) error {
	if len(samples) == 0 {
		_, err := fmt.Fprintln(w, "no latency samples recorded")
		return err
	}

	p := Summarize(samples)

	if _, err := fmt.Fprintf(w, "\nP0: %dns\nP50: %dns\nP75: %dns\nP90: %dns\nP95: %dns\nP99: %dns\nP99.9: %dns\nP100: %dns\n\n",
		p.P0, p.P50, p.P75, p.P90, p.P95, p.P99, p.P999, p.P100); err != nil {
		return err
	}

	if err := renderHistogram(w, samples); err != nil {
		return err
	}

	return renderTrend(w, series)
}

func renderTrend(w io.Writer, series *tradingengine.PriceSeries) error {
	if series == nil {
		return nil
	}

	trend := series.Trend(trendPeriod)
	if trend == nil {
		return nil
	}

	if _, err := fmt.Fprintln(w, "\n===== average share price trend (SMA) ====="); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "latest: %.2f over %d samples\n", trend[len(trend)-1], series.Len())
	return err
}

func renderHistogram(w io.Writer, samples []int64) error {
	sorted := append([]int64(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	p999Count := int(float64(len(sorted)) * 0.999)
	if p999Count < 1 {
		p999Count = 1
	}
	slice := sorted[:p999Count]

	smallest := slice[0]
	highest := slice[len(slice)-1]
	bandSize := (highest - smallest) / int64(chartBands)
	if bandSize == 0 {
		bandSize = 1
	}

	var frequency [chartBands]int
	for _, latency := range slice {
		band := int(math.Round(float64(latency-smallest) / float64(bandSize)))
		if band >= chartBands {
			band = chartBands - 1
		}
		if band < 0 {
			band = 0
		}
		frequency[band]++
	}

	highestFrequency := 0
	for _, f := range frequency {
		if f > highestFrequency {
			highestFrequency = f
		}
	}
	if highestFrequency == 0 {
		highestFrequency = 1
	}

	if _, err := fmt.Fprintln(w, "===== P99.9 latency distribution ====="); err != nil {
		return err
	}

	for i := 0; i < chartBands; i++ {
		label := fmt.Sprintf("%dns", smallest+int64(i)*bandSize)
		if len(label) < labelWidth {
			label = strings.Repeat(" ", labelWidth-len(label)) + label
		}

		barWidth := int(math.Round(float64(frequency[i]) / float64(highestFrequency) * chartWidth))
		bar := strings.Repeat("|", barWidth) + strings.Repeat(" ", chartWidth-barWidth)

		if _, err := fmt.Fprintf(w, "%s | %s | (%d)\n", label, bar, frequency[i]); err != nil {
			return err
		}
	}

	return nil
}

package tradingengine

import "github.com/markcheno/go-talib"

// PriceSeries accumulates the average share price observed after every
// processed event, purely for later trend analysis. It is not read by
// ProcessEvent and carries no hot-path cost beyond a single append.
type PriceSeries struct {
	samples []float64
}

// Record appends the engine's current average share price to the series.
// Call this from the consumer loop after ProcessEvent if trend reporting is
// wanted; omitting it entirely has no effect on engine correctness.
func (p *PriceSeries) Record(e *TradingEngine) {
	p.samples = append(p.samples, float64(e.AverageSharePrice))
}

// Trend computes a simple moving average of the recorded average share
// price over the given period, using the same window the report renders at
// the end of a run. Returns nil if fewer than period samples were recorded.
func (p *PriceSeries) Trend(period int) []float64 {
	if period <= 0 || len(p.samples) < period {
		return nil
	}
	return talib.Sma(p.samples, period)
}

// Len returns the number of samples recorded so far.
func (p *PriceSeries) Len() int {
	return len(p.samples)
}

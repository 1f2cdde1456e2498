// Package tradingengine implements the trivial market-making engine that
// incrementally tracks a volume-weighted average price and derived
// buy/sell target prices from accepted order book events.
package tradingengine

import "github.com/abdoElHodaky/nanofill/internal/events"

// TradingEngine accumulates VWAP state across the events forwarded to it by
// the pipeline. All accumulators are integer; there is no floating point on
// the hot path.
type TradingEngine struct {
	// TotalMarketPrice is the sum of |size| * price over every live order
	// seen, across both sides.
	TotalMarketPrice uint64
	// MarketShares is the sum of |size| over every live order seen.
	MarketShares uint64
	// AverageSharePrice is TotalMarketPrice / MarketShares, or 0 when
	// MarketShares is 0.
	AverageSharePrice uint32
	// LastExecutionOrder is a copy of the most recent ExecutionVisible or
	// ExecutionHidden event seen (ExecutionHidden never actually reaches
	// this field given the pipeline's early-return wiring; see ProcessEvent).
	LastExecutionOrder events.Event
	// TargetBuyPrice is the price the engine would buy at.
	TargetBuyPrice uint32
	// TargetSellPrice is the price the engine would sell at.
	TargetSellPrice uint32

	priceSpread uint32
}

// New constructs a TradingEngine with all accumulators at zero and the
// given constant spread around the average share price.
func New(priceSpread uint32) *TradingEngine {
	return &TradingEngine{priceSpread: priceSpread}
}

// ProcessEvent updates the engine's state for e. ExecutionHidden is an
// early return with no update: the engine never recorded the corresponding
// order, so there is nothing consistent to remove.
func (e *TradingEngine) ProcessEvent(ev events.Event) {
	switch ev.Type {
	case events.Submission:
		e.processOrderAdded(ev)
	case events.Cancellation, events.Deletion, events.ExecutionVisible:
		e.processOrderRemoved(ev)
	case events.ExecutionHidden:
		return
	default:
		return
	}

	e.updatePosition()
}

func (e *TradingEngine) processOrderAdded(ev events.Event) {
	size := uint64(ev.AbsSize())
	e.TotalMarketPrice += size * uint64(ev.Price)
	e.MarketShares += size
	e.recomputeAverage()
}

func (e *TradingEngine) processOrderRemoved(ev events.Event) {
	size := uint64(ev.AbsSize())
	e.TotalMarketPrice -= size * uint64(ev.Price)
	e.MarketShares -= size
	e.recomputeAverage()

	if ev.Type == events.ExecutionVisible || ev.Type == events.ExecutionHidden {
		e.LastExecutionOrder = ev
	}
}

func (e *TradingEngine) recomputeAverage() {
	if e.MarketShares == 0 {
		e.AverageSharePrice = 0
		return
	}
	e.AverageSharePrice = uint32(e.TotalMarketPrice / e.MarketShares)
}

// updatePosition recomputes the target buy/sell prices from the current
// average share price and the engine's fixed spread. The buy-side
// subtraction saturates at zero since both operands are unsigned.
func (e *TradingEngine) updatePosition() {
	if e.priceSpread > e.AverageSharePrice {
		e.TargetBuyPrice = 0
	} else {
		e.TargetBuyPrice = e.AverageSharePrice - e.priceSpread
	}
	e.TargetSellPrice = e.AverageSharePrice + e.priceSpread
}

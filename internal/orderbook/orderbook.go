// Package orderbook maintains per-price-level limit order state for a
// single instrument and dispatches incoming events against it.
package orderbook

import "github.com/abdoElHodaky/nanofill/internal/events"

// PriceMax bounds the dense integer price domain (ten-thousandths of a
// dollar) the book indexes directly; prices are expected in [0, PriceMax).
const PriceMax = 500000

// levelReserve is the per-price-level slice capacity reserved up front to
// suppress reallocation storms on the hot path.
const levelReserve = 50

// Entry is the four numeric fields of an Event without its Type; an entry
// lives in exactly one price level's slice.
type Entry struct {
	Price   uint32
	Time    uint32
	OrderID uint32
	Size    int32
}

// OrderBook is a structure-of-arrays per-price-level order book. All three
// arrays are indexed directly by price, trading memory for branch-free O(1)
// access on the hot consumer path.
type OrderBook struct {
	lastModified []uint32
	sizeTotal    []uint32
	orders       [][]Entry
}

// New constructs an OrderBook with all PriceMax levels pre-allocated.
func New() *OrderBook {
	ob := &OrderBook{
		lastModified: make([]uint32, PriceMax),
		sizeTotal:    make([]uint32, PriceMax),
		orders:       make([][]Entry, PriceMax),
	}
	for i := range ob.orders {
		ob.orders[i] = make([]Entry, 0, levelReserve)
	}
	return ob
}

// GetLastModifiedForPrice returns the time of the last accepted event at
// the given price level.
func (ob *OrderBook) GetLastModifiedForPrice(price uint32) uint32 {
	return ob.lastModified[price]
}

// GetTotalOrderSizeForPrice returns the sum of |size| across all entries at
// the given price level.
func (ob *OrderBook) GetTotalOrderSizeForPrice(price uint32) uint32 {
	return ob.sizeTotal[price]
}

// GetOrdersForPrice returns a read-only view of the entries at the given
// price level. Callers must not mutate the returned slice's contents.
func (ob *OrderBook) GetOrdersForPrice(price uint32) []Entry {
	return ob.orders[price]
}

// ValidatePrice reports whether price is addressable in the book's dense
// arrays. Callers ingesting untrusted event sequences should check this
// before calling ProcessEvent; ProcessEvent itself does not bounds-check.
func ValidatePrice(price uint32) error {
	if price >= PriceMax {
		return ErrPriceOutOfRange
	}
	return nil
}

// ProcessEvent dispatches e against the book, ordered from most to least
// commonly expected event type, and reports whether it caused a state
// change.
func (ob *OrderBook) ProcessEvent(e events.Event) bool {
	switch e.Type {
	case events.Submission:
		ob.insertOrder(e)
		return true
	case events.Cancellation:
		return ob.processCancellation(e)
	case events.ExecutionVisible:
		return ob.removeOrder(e)
	case events.Deletion:
		return ob.removeOrder(e)
	default:
		// ExecutionHidden: the order was never in the book, so there is
		// nothing to action.
		return false
	}
}

func (ob *OrderBook) insertOrder(e events.Event) {
	ob.lastModified[e.Price] = e.Time
	ob.sizeTotal[e.Price] += e.AbsSize()
	ob.orders[e.Price] = append(ob.orders[e.Price], Entry{
		Price:   e.Price,
		Time:    e.Time,
		OrderID: e.OrderID,
		Size:    e.Size,
	})
}

// processCancellation decrements the level's running size by the event's
// magnitude and the matching entry's own signed size by the event's signed
// size (same sign as the entry); it does not remove and reinsert the entry.
func (ob *OrderBook) processCancellation(e events.Event) bool {
	level := ob.orders[e.Price]
	idx := indexByOrderID(level, e.OrderID)
	if idx < 0 {
		return false
	}

	ob.lastModified[e.Price] = e.Time
	ob.sizeTotal[e.Price] -= e.AbsSize()
	level[idx].Size -= e.Size

	return true
}

// removeOrder implements Deletion and ExecutionVisible: locate the first
// matching entry, swap it with the level's last entry, and shrink the
// slice by one.
func (ob *OrderBook) removeOrder(e events.Event) bool {
	level := ob.orders[e.Price]
	idx := indexByOrderID(level, e.OrderID)
	if idx < 0 {
		return false
	}

	removed := level[idx]
	ob.lastModified[e.Price] = e.Time
	ob.sizeTotal[e.Price] -= absInt32(removed.Size)

	last := len(level) - 1
	level[idx] = level[last]
	ob.orders[e.Price] = level[:last]

	return true
}

func indexByOrderID(level []Entry, orderID uint32) int {
	for i := range level {
		if level[i].OrderID == orderID {
			return i
		}
	}
	return -1
}

func absInt32(v int32) uint32 {
	if v < 0 {
		return uint32(-v)
	}
	return uint32(v)
}

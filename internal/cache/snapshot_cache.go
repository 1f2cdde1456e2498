// Package cache holds a TTL-cached view of the order book for the ambient
// HTTP introspection surface. The live OrderBook may only be touched by the
// pipeline's consumer goroutine (its "book touched only by the consumer"
// rule); HTTP handlers read only from here.
package cache

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/abdoElHodaky/nanofill/internal/orderbook"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const snapshotKey = "book"

// LevelSnapshot is the published view of one price level.
type LevelSnapshot struct {
	Price        uint32 `json:"price"`
	LastModified uint32 `json:"last_modified"`
	TotalSize    uint32 `json:"total_size"`
	OrderCount   int    `json:"order_count"`
}

// BookSnapshot is the full published view of the order book at the moment
// it was captured.
type BookSnapshot struct {
	CapturedAtUnixNano int64           `json:"captured_at_unix_nano"`
	Levels             []LevelSnapshot `json:"levels"`
}

// SnapshotCache holds the most recently published BookSnapshot, expiring it
// after TTL so a stalled publisher is visible to readers as an empty cache
// rather than serving an arbitrarily old view.
type SnapshotCache struct {
	store  *cache.Cache
	logger *zap.Logger

	mu   sync.RWMutex
	subs []chan BookSnapshot
}

// New constructs a SnapshotCache with the given TTL and cleanup interval.
func New(ttl, cleanupInterval time.Duration, logger *zap.Logger) *SnapshotCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotCache{
		store:  cache.New(ttl, cleanupInterval),
		logger: logger.With(zap.String("component", "snapshot_cache")),
	}
}

// Publish stores snap as the current snapshot and fans it out to any
// subscribed websocket readers. Safe to call from a background worker
// goroutine; never call this from the pipeline's consumer goroutine.
func (c *SnapshotCache) Publish(snap BookSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		c.logger.Error("failed to marshal book snapshot", zap.Error(err))
		return
	}
	c.store.SetDefault(snapshotKey, data)

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			// Slow subscriber; drop rather than block publication.
		}
	}
}

// Get returns the most recently published snapshot, or false if none has
// been published yet or it has expired.
func (c *SnapshotCache) Get() (BookSnapshot, bool) {
	raw, found := c.store.Get(snapshotKey)
	if !found {
		return BookSnapshot{}, false
	}

	data, ok := raw.([]byte)
	if !ok {
		return BookSnapshot{}, false
	}

	var snap BookSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.Error("failed to unmarshal cached book snapshot", zap.Error(err))
		return BookSnapshot{}, false
	}

	return snap, true
}

// BuildSnapshot walks every price level of book and captures a
// point-in-time view. It must only be called from the goroutine that owns
// book (the pipeline consumer), never concurrently with ProcessEvent.
func BuildSnapshot(book *orderbook.OrderBook, capturedAtUnixNano int64) BookSnapshot {
	var levels []LevelSnapshot
	for price := uint32(0); price < orderbook.PriceMax; price++ {
		total := book.GetTotalOrderSizeForPrice(price)
		if total == 0 {
			continue
		}
		levels = append(levels, LevelSnapshot{
			Price:        price,
			LastModified: book.GetLastModifiedForPrice(price),
			TotalSize:    total,
			OrderCount:   len(book.GetOrdersForPrice(price)),
		})
	}
	return BookSnapshot{CapturedAtUnixNano: capturedAtUnixNano, Levels: levels}
}

// Subscribe registers a channel to receive every future published
// snapshot. The returned function unsubscribes it.
func (c *SnapshotCache) Subscribe(ch chan BookSnapshot) func() {
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s == ch {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				break
			}
		}
	}
}

// Package pool provides sync.Pool wrappers for objects allocated off the
// two hot-path goroutines: the websocket envelopes the HTTP layer
// broadcasts on every snapshot tick.
package pool

import "sync"

// ObjectPool is a generic sync.Pool wrapper for callers that don't need a
// typed Reset step.
type ObjectPool struct {
	pool sync.Pool
}

// NewObjectPool creates a new object pool.
func NewObjectPool(newFunc func() interface{}) *ObjectPool {
	return &ObjectPool{
		pool: sync.Pool{
			New: newFunc,
		},
	}
}

// Get retrieves an object from the pool.
func (p *ObjectPool) Get() interface{} {
	return p.pool.Get()
}

// Put returns an object to the pool.
func (p *ObjectPool) Put(obj interface{}) {
	p.pool.Put(obj)
}

// Envelope is the JSON frame pushed to websocket subscribers: either a
// book snapshot or a latency update, tagged by Type so the client can
// dispatch without a second round trip.
type Envelope struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data"`
}

// Reset clears an envelope's fields before it is pooled, so it never
// carries a stale Data reference between broadcasts.
func (e *Envelope) Reset() {
	e.Type = ""
	e.Channel = ""
	e.Data = nil
}

// EnvelopePool pools Envelope frames for the websocket broadcast loop,
// which would otherwise allocate one per subscriber per tick.
type EnvelopePool struct {
	pool sync.Pool
}

// NewEnvelopePool creates a new envelope pool.
func NewEnvelopePool() *EnvelopePool {
	return &EnvelopePool{
		pool: sync.Pool{
			New: func() interface{} {
				return &Envelope{}
			},
		},
	}
}

// Get retrieves an envelope from the pool.
func (p *EnvelopePool) Get() *Envelope {
	return p.pool.Get().(*Envelope)
}

// Put resets and returns an envelope to the pool.
func (p *EnvelopePool) Put(e *Envelope) {
	e.Reset()
	p.pool.Put(e)
}

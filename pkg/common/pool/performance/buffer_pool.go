// Package pools provides small sync.Pool wrappers used to avoid
// allocation on paths that run frequently but are not the two hot-path
// goroutines themselves (e.g. compressing a latency dump after a run).
package pools

import "sync"

// BufferPool hands out fixed-size, zeroed byte slices, reusing the
// underlying array across Get/Put pairs.
type BufferPool struct {
	pool sync.Pool
	size int
}

// NewBufferPool creates a buffer pool of the given fixed size.
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]byte, size)
			},
		},
		size: size,
	}
}

// Get returns a zeroed buffer of the pool's configured size.
func (p *BufferPool) Get() []byte {
	buf := p.pool.Get().([]byte)
	if len(buf) != p.size {
		buf = make([]byte, p.size)
	} else {
		for i := range buf {
			buf[i] = 0
		}
	}
	return buf
}

// Put returns buf to the pool. Buffers of the wrong size are dropped
// rather than pooled.
func (p *BufferPool) Put(buf []byte) {
	if buf == nil || len(buf) != p.size {
		return
	}
	p.pool.Put(buf)
}

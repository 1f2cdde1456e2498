package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectPoolRoundTrips(t *testing.T) {
	p := NewObjectPool(func() interface{} { return 0 })

	v := p.Get()
	assert.Equal(t, 0, v)
	p.Put(42)

	assert.Equal(t, 42, p.Get())
}

func TestEnvelopePoolResetsOnPut(t *testing.T) {
	p := NewEnvelopePool()

	e := p.Get()
	e.Type = "snapshot"
	e.Channel = "book"
	e.Data = map[string]int{"price": 1}
	p.Put(e)

	reused := p.Get()
	assert.Empty(t, reused.Type)
	assert.Empty(t, reused.Channel)
	assert.Nil(t, reused.Data)
}

package resilience

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushSuccessKeepsClosed(t *testing.T) {
	b := NewPushgatewayBreaker(nil)

	err := b.Push(func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestPushOpensAfterConsecutiveFailures(t *testing.T) {
	b := NewPushgatewayBreaker(nil)
	failing := errors.New("gateway unreachable")

	for i := 0; i < 3; i++ {
		_ = b.Push(func() error { return failing })
	}

	assert.Equal(t, gobreaker.StateOpen, b.State())

	err := b.Push(func() error { return nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

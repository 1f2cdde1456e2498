package ringbuffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPowerOfTwo(t *testing.T) {
	_, err := New[int](100)
	assert.ErrorIs(t, err, ErrCapacityNotPowerOfTwo)

	_, err = New[int](1)
	assert.ErrorIs(t, err, ErrCapacityNotPowerOfTwo)
}

// Scenario S1: sequential push/pop-many on an empty buffer.
func TestSequentialRing(t *testing.T) {
	rb, err := New[int](128)
	require.NoError(t, err)

	require.True(t, rb.Push(1))
	require.True(t, rb.Push(2))
	require.True(t, rb.Push(3))

	out := make([]int, 1000)
	n := rb.PopMany(out)

	require.Equal(t, 3, n)
	assert.Equal(t, []int{1, 2, 3}, out[:n])
}

// Scenario S2: wrap correctness across the backing array boundary.
func TestWrapCorrectness(t *testing.T) {
	rb, err := New[int](128)
	require.NoError(t, err)

	for i := 0; i < 127; i++ {
		require.True(t, rb.Push(i))
		v, ok := rb.Pop()
		require.True(t, ok)
		require.Equal(t, i, v)
	}

	for i := 0; i < 127; i++ {
		require.True(t, rb.Push(i))
	}

	out := make([]int, 9999)
	n := rb.PopMany(out)

	require.Equal(t, 127, n)
	for i := 0; i < 127; i++ {
		assert.Equal(t, i, out[i])
	}
}

func TestFullAtCapacityMinusOne(t *testing.T) {
	const capacity = 8
	rb, err := New[int](capacity)
	require.NoError(t, err)

	for i := 0; i < capacity-1; i++ {
		require.True(t, rb.Push(i))
	}
	assert.False(t, rb.Push(999))

	_, ok := rb.Pop()
	require.True(t, ok)
	assert.True(t, rb.Push(999))
}

func TestPopEmpty(t *testing.T) {
	rb, err := New[int](8)
	require.NoError(t, err)

	_, ok := rb.Pop()
	assert.False(t, ok)
}

// Scenario S6: SPSC stress test with one real producer goroutine and one
// real consumer goroutine.
func TestSPSCStress(t *testing.T) {
	rb, err := New[int](256)
	require.NoError(t, err)

	const total = 10000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			for !rb.Push(i) {
			}
		}
	}()

	received := make([]int, 0, total)
	go func() {
		defer wg.Done()
		batch := make([]int, 10)
		for len(received) < total {
			n := rb.PopMany(batch)
			received = append(received, batch[:n]...)
		}
	}()

	wg.Wait()

	require.Len(t, received, total)
	for i := 1; i < total; i++ {
		assert.Equal(t, received[i-1]+1, received[i])
	}
}

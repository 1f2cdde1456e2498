package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsTask(t *testing.T) {
	pool, err := New(2, nil)
	require.NoError(t, err)
	defer pool.Release()

	var ran atomic.Bool
	done := make(chan struct{})

	require.NoError(t, pool.Submit(func() {
		ran.Store(true)
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run in time")
	}

	assert.True(t, ran.Load())
}

func TestRunPeriodicStopsCleanly(t *testing.T) {
	pool, err := New(1, nil)
	require.NoError(t, err)
	defer pool.Release()

	var count atomic.Int64
	stop := make(chan struct{})

	pool.RunPeriodic(10*time.Millisecond, stop, func() {
		count.Add(1)
	})

	time.Sleep(50 * time.Millisecond)
	close(stop)

	observed := count.Load()
	assert.Greater(t, observed, int64(0))

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, observed, count.Load())
}

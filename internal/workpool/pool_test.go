package workpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_ReturnsResult(t *testing.T) {
	pool := New(2)

	fut := Submit(pool, func() (int, error) { return 42, nil })
	got, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestSubmit_PropagatesError(t *testing.T) {
	pool := New(2)
	boom := errors.New("boom")

	fut := Submit(pool, func() (string, error) { return "", boom })
	_, err := fut.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSubmit_BoundsConcurrency(t *testing.T) {
	pool := New(2)

	var running, peak atomic.Int32
	futures := make([]*Future[struct{}], 0, 8)
	for i := 0; i < 8; i++ {
		futures = append(futures, Submit(pool, func() (struct{}, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			running.Add(-1)
			return struct{}{}, nil
		}))
	}

	for _, f := range futures {
		_, err := f.Wait(context.Background())
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestWait_CancelAbandonsWaitOnly(t *testing.T) {
	pool := New(1)

	release := make(chan struct{})
	var finished atomic.Bool
	fut := Submit(pool, func() (int, error) {
		<-release
		finished.Store(true)
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := fut.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, finished.Load())

	// The task keeps running and can still be waited on
	close(release)
	got, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.True(t, finished.Load())
}

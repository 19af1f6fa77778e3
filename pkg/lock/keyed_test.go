package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutualExclusion(t *testing.T) {
	k := NewKeyed()
	ctx := context.Background()

	var counter int
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := k.Acquire(ctx, "showtime-1", 5*time.Second)
			require.NoError(t, err)
			defer release()

			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedTimeout(t *testing.T) {
	k := NewKeyed()
	ctx := context.Background()

	release, err := k.Acquire(ctx, "showtime-1", time.Second)
	require.NoError(t, err)
	defer release()

	_, err = k.Acquire(ctx, "showtime-1", 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrAcquireTimeout)
}

func TestKeyedIndependentKeys(t *testing.T) {
	k := NewKeyed()
	ctx := context.Background()

	release, err := k.Acquire(ctx, "showtime-1", time.Second)
	require.NoError(t, err)
	defer release()

	// Holding one key never blocks another.
	other, err := k.Acquire(ctx, "showtime-2", 50*time.Millisecond)
	require.NoError(t, err)
	other()
}

func TestKeyedContextCancel(t *testing.T) {
	k := NewKeyed()

	release, err := k.Acquire(context.Background(), "showtime-1", time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = k.Acquire(ctx, "showtime-1", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeyedReleaseHandsOver(t *testing.T) {
	k := NewKeyed()
	ctx := context.Background()

	release, err := k.Acquire(ctx, "showtime-1", time.Second)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		second, err := k.Acquire(ctx, "showtime-1", 2*time.Second)
		require.NoError(t, err)
		second()
	}()

	time.Sleep(20 * time.Millisecond)
	release()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter never got the lock after release")
	}
}

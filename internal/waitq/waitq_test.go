package waitq

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_BroadcastWakesAll(t *testing.T) {
	var (
		mu sync.Mutex
		q  Queue
	)
	const n = 4

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			err := q.Wait(context.Background(), &mu)
			mu.Unlock()
			errs <- err
		}()
	}

	// Let every goroutine register before broadcasting.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return q.Len() == n
	}, 2*time.Second, time.Millisecond)

	mu.Lock()
	q.Broadcast()
	assert.Equal(t, 0, q.Len())
	mu.Unlock()

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestQueue_CancelDeregisters(t *testing.T) {
	var (
		mu sync.Mutex
		q  Queue
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	mu.Lock()
	err := q.Wait(ctx, &mu)
	assert.Equal(t, 0, q.Len(), "cancelled waiter must deregister itself")
	mu.Unlock()

	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_BroadcastAfterCancelIsSafe(t *testing.T) {
	var (
		mu sync.Mutex
		q  Queue
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mu.Lock()
	err := q.Wait(ctx, &mu)
	require.ErrorIs(t, err, context.Canceled)

	// No dead waiter is left behind for the broadcast to trip over.
	q.Broadcast()
	mu.Unlock()
}

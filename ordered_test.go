package stagemap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Staging keys in reverse order and draining with key-less gets returns them
// in ascending key order.
func TestArea_OrderedRetrieval(t *testing.T) {
	ctx := context.Background()
	const n = 10

	area, err := OrderedMap[int64](1).Build()
	require.NoError(t, err)

	for i := int64(n - 1); i >= 0; i-- {
		require.NoError(t, area.Put(ctx, i, All(Sized[int64]{Val: i, Size: 1})))
	}
	assert.Equal(t, n, area.Size())

	for want := int64(0); want < n; want++ {
		key, res, err := area.GetAny(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, key)
		assert.Equal(t, want, res.At(0).(Sized[int64]).Val)
	}
	assert.Equal(t, 0, area.Size())
}

// An incomplete entry under a smaller key does not hold back complete
// entries: key-less retrieval draws from complete entries only.
func TestArea_OrderedIncompleteDoesNotGate(t *testing.T) {
	ctx := context.Background()

	area, err := OrderedMap[int64](2).Build()
	require.NoError(t, err)

	// Key 1 stays incomplete; key 5 completes.
	require.NoError(t, area.Put(ctx, 1, ByIndex([]int{0}, []Value{Bytes("partial")})))
	require.NoError(t, area.Put(ctx, 5, All(Bytes("a"), Bytes("b"))))

	key, _, err := area.GetAny(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), key)

	// Once key 1 completes it becomes the minimum.
	require.NoError(t, area.Put(ctx, 1, ByIndex([]int{1}, []Value{Bytes("rest")})))
	key, _, err = area.GetAny(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), key)
}

// A key-less get blocks until the first entry completes.
func TestArea_GetAnyBlocksUntilComplete(t *testing.T) {
	ctx := context.Background()

	area, err := OrderedMap[int64](2).Build()
	require.NoError(t, err)

	got := make(chan int64, 1)
	go func() {
		key, _, err := area.GetAny(ctx)
		if err == nil {
			got <- key
		}
	}()

	require.NoError(t, area.Put(ctx, 7, ByIndex([]int{0}, []Value{Bytes("half")})))
	select {
	case <-got:
		t.Fatal("get returned before the entry completed")
	case <-time.After(blockProbe):
	}

	require.NoError(t, area.Put(ctx, 7, ByIndex([]int{1}, []Value{Bytes("rest")})))
	select {
	case key := <-got:
		assert.Equal(t, int64(7), key)
	case <-time.After(2 * time.Second):
		t.Fatal("get did not return after completion")
	}
}

// Concurrent producers and a bounded area: every staged key is delivered
// exactly once through key-less gets.
func TestArea_ConcurrentProducersDrain(t *testing.T) {
	ctx := context.Background()
	const producers = 4
	const perProducer = 100
	const total = producers * perProducer

	area, err := OrderedMap[int64](2).Capacity(64).Build()
	require.NoError(t, err)

	var g errgroup.Group
	for p := 0; p < producers; p++ {
		base := int64(p * perProducer)
		g.Go(func() error {
			for i := int64(0); i < perProducer; i++ {
				key := base + i
				// Split every tuple across two puts to exercise the
				// barrier under contention.
				if err := area.Put(ctx, key, ByIndex([]int{1}, []Value{Bytes("b")})); err != nil {
					return err
				}
				if err := area.Put(ctx, key, ByIndex([]int{0}, []Value{Bytes("a")})); err != nil {
					return err
				}
			}
			return nil
		})
	}

	seen := make(map[int64]bool, total)
	g.Go(func() error {
		for i := 0; i < total; i++ {
			key, res, err := area.GetAny(ctx)
			if err != nil {
				return err
			}
			if seen[key] {
				t.Errorf("key %d delivered twice", key)
			}
			seen[key] = true
			if res.Len() != 2 {
				t.Errorf("key %d: got %d slots", key, res.Len())
			}
		}
		return nil
	})

	require.NoError(t, g.Wait())
	assert.Len(t, seen, total)
	assert.Equal(t, 0, area.Size())
	assert.Equal(t, 0, area.IncompleteSize())
	assert.Equal(t, int64(0), area.Elements())
}

package keyindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_MinOrder(t *testing.T) {
	ix := New[int64]()

	_, ok := ix.Min()
	assert.False(t, ok)

	for _, k := range []int64{9, 3, 7, 1, 5} {
		ix.Insert(k)
	}
	assert.Equal(t, 5, ix.Len())

	want := []int64{1, 3, 5, 7, 9}
	for _, expected := range want {
		k, ok := ix.Min()
		require.True(t, ok)
		assert.Equal(t, expected, k)
		require.True(t, ix.Delete(k))
	}
	assert.Equal(t, 0, ix.Len())
}

func TestIndex_InsertIdempotent(t *testing.T) {
	ix := New[string]()

	ix.Insert("a")
	ix.Insert("a")
	assert.Equal(t, 1, ix.Len())
}

func TestIndex_DeleteMissing(t *testing.T) {
	ix := New[int64]()

	ix.Insert(1)
	assert.False(t, ix.Delete(2))
	assert.Equal(t, 1, ix.Len())
}

func TestIndex_Clear(t *testing.T) {
	ix := New[int64]()

	for k := int64(0); k < 10; k++ {
		ix.Insert(k)
	}
	ix.Clear()
	assert.Equal(t, 0, ix.Len())
	_, ok := ix.Min()
	assert.False(t, ok)

	ix.Insert(4)
	k, ok := ix.Min()
	require.True(t, ok)
	assert.Equal(t, int64(4), k)
}

package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_Lifecycle(t *testing.T) {
	e := New(3)

	assert.Equal(t, 3, e.Slots())
	assert.Equal(t, 0, e.Filled())
	assert.Equal(t, int64(0), e.Bytes())
	assert.False(t, e.Complete())

	require.True(t, e.Set(1, "b", 10))
	assert.True(t, e.Has(1))
	assert.False(t, e.Has(0))
	assert.Equal(t, 1, e.Filled())
	assert.Equal(t, int64(10), e.Bytes())
	assert.False(t, e.Complete())

	require.True(t, e.Set(0, "a", 5))
	require.True(t, e.Set(2, "c", 0))
	assert.True(t, e.Complete())
	assert.Equal(t, 3, e.Filled())
	assert.Equal(t, int64(15), e.Bytes())

	assert.Equal(t, []any{"a", "b", "c"}, e.Values())
}

func TestEntry_SetTwice(t *testing.T) {
	e := New(2)

	require.True(t, e.Set(0, "first", 4))
	assert.False(t, e.Set(0, "second", 9), "second write to a set slot must be rejected")

	// The rejected write must not disturb bookkeeping.
	assert.Equal(t, 1, e.Filled())
	assert.Equal(t, int64(4), e.Bytes())
	assert.Equal(t, []any{"first", nil}, e.Values())
}

func TestEntry_ValuesIsSnapshot(t *testing.T) {
	e := New(1)
	require.True(t, e.Set(0, "v", 1))

	vals := e.Values()
	vals[0] = "mutated"
	assert.Equal(t, []any{"v"}, e.Values())
}

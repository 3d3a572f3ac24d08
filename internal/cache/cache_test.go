package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_LengthPrefixPreventsBoundaryCollisions(t *testing.T) {
	assert.NotEqual(t, StringKey("ab", "c"), StringKey("a", "bc"))
	assert.Equal(t, StringKey("USD", "EUR"), StringKey("USD", "EUR"))
	assert.Len(t, StringKey("x"), 64)
}

func TestMemory_GetPut(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put(ctx, "k", []byte("v1")))
	require.NoError(t, m.Put(ctx, "k", []byte("v2")))

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), v)
	assert.Equal(t, 1, m.Len())
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	type rate struct {
		Value float64 `json:"value"`
	}

	var got rate
	ok, err := GetJSON(ctx, m, "rate", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, PutJSON(ctx, m, "rate", rate{Value: 0.0067}))
	ok, err = GetJSON(ctx, m, "rate", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.0067, got.Value)
}

func TestObserve_ReportsHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	var lookups []bool
	c := Observe(NewMemory(), "forex", func(ns string, hit bool) {
		assert.Equal(t, "forex", ns)
		lookups = append(lookups, hit)
	})

	_, _, _ = c.Get(ctx, "k")
	require.NoError(t, c.Put(ctx, "k", []byte("1")))
	_, _, _ = c.Get(ctx, "k")

	assert.Equal(t, []bool{false, true}, lookups)
}

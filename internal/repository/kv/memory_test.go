package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, found, err := s.GetString(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetString(ctx, "k", "v1"))
	v, found, err := s.GetString(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v1", v)

	require.NoError(t, s.SetString(ctx, "k", "v2"))
	v, _, _ = s.GetString(ctx, "k")
	assert.Equal(t, "v2", v)

	require.NoError(t, s.Delete(ctx, "k"))
	_, found, err = s.GetString(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

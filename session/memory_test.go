package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV_DeleteStale(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	kv := NewMemoryKV()
	kv.now = func() time.Time { return now }

	require.NoError(t, NewStore(kv, "sid-old", nil).Set(ctx, testPlayer(), "tok-old"))
	now = now.Add(20 * time.Hour)
	require.NoError(t, NewStore(kv, "sid-new", nil).Set(ctx, testPlayer(), "tok-new"))
	now = now.Add(5 * time.Hour)

	n, err := kv.DeleteStale(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, kv.Len())

	assert.False(t, NewStore(kv, "sid-old", nil).IsAuthenticated(ctx))
	assert.True(t, NewStore(kv, "sid-new", nil).IsAuthenticated(ctx))
}

func TestMemoryKV_WriteRefreshesAge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	kv := NewMemoryKV()
	kv.now = func() time.Time { return now }

	require.NoError(t, kv.Put(ctx, "k", []byte("v1")))
	now = now.Add(23 * time.Hour)
	require.NoError(t, kv.Put(ctx, "k", []byte("v2")))
	now = now.Add(23 * time.Hour)

	n, err := kv.DeleteStale(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", string(v))
}

var (
	_ Purger   = (*MemoryKV)(nil)
	_ KeyValue = (*MemoryKV)(nil)
)

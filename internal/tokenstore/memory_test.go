package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(16, time.Hour)

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, 1, "first", time.Minute))
	require.NoError(t, store.Save(ctx, 1, "second", time.Minute))

	token, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	require.NoError(t, store.Delete(ctx, 1))
	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, 99))
}

func TestMemoryStore_EntryExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(16, time.Hour)
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, 7, "token", time.Minute))

	now = now.Add(59 * time.Second)
	_, err := store.Get(ctx, 7)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = store.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RejectsNonPositiveTTL(t *testing.T) {
	store := NewMemoryStore(16, time.Hour)
	assert.Error(t, store.Save(context.Background(), 1, "t", 0))
}

func TestMemoryStore_EvictsOldestBeyondCapacity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2, time.Hour)

	require.NoError(t, store.Save(ctx, 1, "a", time.Minute))
	require.NoError(t, store.Save(ctx, 2, "b", time.Minute))
	require.NoError(t, store.Save(ctx, 3, "c", time.Minute))

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	token, err := store.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "c", token)
}

func TestRefreshKey(t *testing.T) {
	assert.Equal(t, "refreshToken:42", refreshKey(42))
}

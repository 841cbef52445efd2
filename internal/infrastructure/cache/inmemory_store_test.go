package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_GetSetDelete(t *testing.T) {
	store := NewInMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	_, err := store.Get(ctx, "tree")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, "tree", []byte(`[1]`), time.Minute))
	data, err := store.Get(ctx, "tree")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), data)

	// returned slices are copies
	data[0] = 'x'
	again, err := store.Get(ctx, "tree")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), again)

	require.NoError(t, store.Set(ctx, "other", []byte("v"), 0))
	require.NoError(t, store.Delete(ctx, "tree", "other", "missing"))
	_, err = store.Get(ctx, "tree")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = store.Get(ctx, "other")
	assert.ErrorIs(t, err, ErrMiss)

	hits, misses := store.GetStats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(3), misses)
}

func TestInMemoryStore_Expiry(t *testing.T) {
	store := NewInMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", []byte("v"), time.Millisecond))
	require.NoError(t, store.Set(ctx, "forever", []byte("v"), 0))
	time.Sleep(5 * time.Millisecond)

	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, "short2", []byte("v"), time.Millisecond))
	store.doCleanup(time.Now().Add(time.Second))
	assert.Equal(t, 1, store.Count())

	_, err = store.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestInMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestJSONHelpers(t *testing.T) {
	store := NewInMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	type node struct {
		Name     string `json:"name"`
		Children []node `json:"children"`
	}

	_, err := GetJSON[[]node](ctx, store, "tree")
	assert.ErrorIs(t, err, ErrMiss)

	tree := []node{{Name: "root", Children: []node{{Name: "leaf"}}}}
	require.NoError(t, SetJSON(ctx, store, "tree", tree, time.Minute))

	got, err := GetJSON[[]node](ctx, store, "tree")
	require.NoError(t, err)
	assert.Equal(t, tree, *got)

	require.NoError(t, store.Set(ctx, "broken", []byte("{"), time.Minute))
	_, err = GetJSON[node](ctx, store, "broken")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = store.Get(ctx, "broken")
	assert.ErrorIs(t, err, ErrMiss)
}

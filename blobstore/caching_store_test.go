package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	Store
	opens int
}

func (c *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	c.opens++
	return c.Store.Open(ctx, name)
}

func readBlob(t *testing.T, s Store, name string) []byte {
	t.Helper()
	data, err := ReadAll(context.Background(), s, name)
	require.NoError(t, err)
	return data
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	src := []byte("abc")
	store.Put("b/one", src)
	store.Put("a/two", []byte("defg"))
	src[0] = 'x'

	assert.Equal(t, []byte("abc"), readBlob(t, store, "b/one"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/two", "b/one"}, names)

	names, err = store.List(context.Background(), "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/two"}, names)

	blob, err := store.Open(context.Background(), "a/two")
	require.NoError(t, err)
	r, err := blob.ReadRange(context.Background(), 1, 10)
	require.NoError(t, err)
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("efg"), rest)

	_, err = store.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachingStore(t *testing.T) {
	mem := NewMemoryStore()
	mem.Put("a", []byte("aaaa"))
	mem.Put("b", []byte("bbbb"))
	mem.Put("big", make([]byte, 64))

	inner := &countingStore{Store: mem}
	store := NewCachingStore(inner, 8)

	assert.Equal(t, []byte("aaaa"), readBlob(t, store, "a"))
	assert.Equal(t, []byte("aaaa"), readBlob(t, store, "a"))
	assert.Equal(t, 1, inner.opens)

	hits, misses := store.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	// b fits next to a.
	readBlob(t, store, "b")
	readBlob(t, store, "b")
	assert.Equal(t, 2, inner.opens)

	// Blobs over capacity pass through uncached.
	assert.Len(t, readBlob(t, store, "big"), 64)
	assert.Len(t, readBlob(t, store, "big"), 64)
	assert.Equal(t, 4, inner.opens)

	// Adding c evicts the least recently used entry (a).
	mem.Put("c", []byte("cccc"))
	readBlob(t, store, "c")
	assert.Equal(t, 5, inner.opens)
	readBlob(t, store, "a")
	assert.Equal(t, 6, inner.opens)

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "big", "c"}, names)

	_, err = store.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

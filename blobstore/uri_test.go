package blobstore

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Local(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, "/data/mnist")
	require.NoError(t, err)
	assert.Equal(t, "/data/mnist", store.(*LocalStore).Root())

	store, err = Open(ctx, "file:///data/mnist")
	require.NoError(t, err)
	assert.Equal(t, "/data/mnist", store.(*LocalStore).Root())
}

var (
	registerOnce sync.Once
	testMem      = NewMemoryStore()
	lastURL      *url.URL
)

func TestOpen_Registered(t *testing.T) {
	registerOnce.Do(func() {
		Register("memtest", func(_ context.Context, u *url.URL) (Store, error) {
			lastURL = u
			return testMem, nil
		})
	})
	store, err := Open(context.Background(), "memtest://host/bucket/prefix")
	require.NoError(t, err)
	assert.Same(t, testMem, store)
	assert.Equal(t, "host", lastURL.Host)

	store, err = Open(context.Background(), "memtest://host/x", WithCache(1024))
	require.NoError(t, err)
	assert.IsType(t, &CachingStore{}, store)

	assert.Contains(t, Schemes(), "memtest")
	assert.Contains(t, Schemes(), "file")
	assert.Panics(t, func() { Register("memtest", nil) })
}

func TestOpen_UnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "ftp://host/path")
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in, bucket, prefix string
	}{
		{"/bucket/a/b/", "bucket", "a/b"},
		{"/bucket", "bucket", ""},
		{"bucket/x", "bucket", "x"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bucket, prefix := SplitPath(tt.in)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}

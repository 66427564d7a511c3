package blobstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// ErrUnsupportedScheme is returned by Open for URIs whose scheme has no registered opener.
var ErrUnsupportedScheme = errors.New("blobstore: unsupported scheme")

// Opener creates a Store for a parsed dataset URI.
type Opener func(ctx context.Context, u *url.URL) (Store, error)

var (
	openersMu sync.RWMutex
	openers   = map[string]Opener{}
)

// Register makes an opener available for the given URI scheme.
// It panics if the scheme is already registered.
func Register(scheme string, fn Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()

	if _, dup := openers[scheme]; dup {
		panic("blobstore: Register called twice for scheme " + scheme)
	}
	openers[scheme] = fn
}

// Schemes returns the registered URI schemes, sorted.
func Schemes() []string {
	openersMu.RLock()
	defer openersMu.RUnlock()

	schemes := make([]string, 0, len(openers)+1)
	schemes = append(schemes, "file")
	for s := range openers {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

type openOptions struct {
	cacheBytes int64
}

// OpenOption configures Open.
type OpenOption func(*openOptions)

// WithCache wraps remote stores in a CachingStore of the given capacity.
func WithCache(bytes int64) OpenOption {
	return func(o *openOptions) {
		o.cacheBytes = bytes
	}
}

// Open resolves a dataset URI to a Store.
//
// Plain paths and file:// URIs open a LocalStore. Other schemes must be
// registered with Register.
func Open(ctx context.Context, uri string, opts ...OpenOption) (Store, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	if !strings.Contains(uri, "://") {
		return NewLocalStore(uri), nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset uri: %w", err)
	}

	if u.Scheme == "file" {
		return NewLocalStore(u.Host + u.Path), nil
	}

	openersMu.RLock()
	fn, ok := openers[u.Scheme]
	openersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	store, err := fn(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", u.Scheme, err)
	}

	if o.cacheBytes > 0 {
		store = NewCachingStore(store, o.cacheBytes)
	}
	return store, nil
}

// SplitPath splits a URI path "/bucket/some/prefix" into bucket and prefix.
func SplitPath(p string) (bucket, prefix string) {
	p = strings.TrimPrefix(p, "/")
	bucket, prefix, _ = strings.Cut(p, "/")
	return bucket, strings.TrimSuffix(prefix, "/")
}

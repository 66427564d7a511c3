package blobstore

import (
	"container/list"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// CachingStore wraps a Store and keeps recently read blobs in memory.
//
// Blobs are cached whole. When the cached bytes exceed the capacity the least
// recently used blobs are evicted. Blobs larger than the capacity are passed
// through uncached.
type CachingStore struct {
	inner    Store
	capacity int64

	mu      sync.Mutex
	lru     *list.List
	entries map[string]*list.Element
	used    int64

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	name string
	data []byte
}

// NewCachingStore creates a new CachingStore holding at most capacity bytes.
func NewCachingStore(inner Store, capacity int64) *CachingStore {
	return &CachingStore{
		inner:    inner,
		capacity: capacity,
		lru:      list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Open returns the cached blob, reading it through from the inner store on a miss.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.get(name); ok {
		s.hits.Add(1)
		return &memoryBlob{data: data}, nil
	}
	s.misses.Add(1)

	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	if b.Size() > s.capacity {
		return b, nil
	}
	defer b.Close()

	r, err := NewReader(ctx, b)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data := make([]byte, b.Size())
	n, err := readFull(r, data)
	if err != nil {
		return nil, err
	}
	data = data[:n]

	s.put(name, data)
	return &memoryBlob{data: data}, nil
}

// List passes through to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns the number of cache hits and misses so far.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

func (s *CachingStore) get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[name]
	if !ok {
		return nil, false
	}
	s.lru.MoveToFront(el)
	return el.Value.(*cacheEntry).data, true
}

func (s *CachingStore) put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[name]; ok {
		s.used -= int64(len(el.Value.(*cacheEntry).data))
		s.lru.Remove(el)
	}

	s.entries[name] = s.lru.PushFront(&cacheEntry{name: name, data: data})
	s.used += int64(len(data))

	for s.used > s.capacity {
		oldest := s.lru.Back()
		e := oldest.Value.(*cacheEntry)
		s.lru.Remove(oldest)
		delete(s.entries, e.name)
		s.used -= int64(len(e.data))
	}
}

func readFull(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}

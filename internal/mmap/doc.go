// Package mmap provides read-only memory-mapped file access.
//
// Dataset files are mapped once and decoded straight from the mapping, so
// large IDX files are never copied through an intermediate buffer.
//
//	m, err := mmap.Open("train-images-idx3-ubyte")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// On Unix the package uses mmap(2) and madvise(2). Other platforms fall back
// to reading the file into memory, where Advise is a no-op.
//
// Close is idempotent. Callers must not touch Bytes() after Close returns.
package mmap

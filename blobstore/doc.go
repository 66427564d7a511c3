// Package blobstore provides read-only storage abstraction for dataset files.
//
// A Store hands out Blobs by name. Implementations must be safe for
// concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local directory with mmap support
//   - MemoryStore: in-memory blobs, mainly for tests
//   - CachingStore: LRU whole-blob cache in front of a slower store
//   - minio.Store: MinIO and other S3-compatible endpoints
//   - s3.Store: Amazon S3 with range reads
//
// # Dataset URIs
//
// Open resolves a URI to a Store rooted at the URI's path:
//
//	store, err := blobstore.Open(ctx, "/data/mnist")
//	store, err := blobstore.Open(ctx, "file:///data/mnist")
//	store, err := blobstore.Open(ctx, "minio://localhost:9000/datasets/mnist")
//	store, err := blobstore.Open(ctx, "s3://my-bucket/mnist")
//
// Remote schemes are registered by their packages; import them for side
// effects to enable them:
//
//	import _ "github.com/hupe1980/knnlab/blobstore/minio"
package blobstore

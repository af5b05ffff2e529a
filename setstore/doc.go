// Package setstore persists encoded sets as named blobs.
//
// Each stored object is exactly one encoded set (the bytes produced by the
// codec package, possibly zero-length for the empty set). Stores do not
// interpret the bytes; the engine validates them before saving.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory map, for tests and ephemeral use
//   - LocalStore: files under a root directory, mmap reads
//   - s3.Store: Amazon S3 (setstore/s3)
//   - minio.Store: MinIO and S3-compatible services (setstore/minio)
//   - dynamodb.Store: one DynamoDB item per set (setstore/dynamodb)
//
// # Wrappers
//
//   - CompressedStore: zstd or lz4 compression at rest
//   - RateLimitedStore: token-bucket throttling for remote backends
//   - CachingStore: in-memory LRU of recently read sets
//
// # Custom Implementations
//
//	type Store interface {
//	    Get(ctx, name) ([]byte, error)      // ErrNotFound when missing
//	    Put(ctx, name, data) error          // atomic replace
//	    Delete(ctx, name) error             // missing is not an error
//	    List(ctx, prefix) ([]string, error) // sorted names
//	}
package setstore

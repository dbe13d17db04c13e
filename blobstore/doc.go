// Package blobstore provides storage access for data-pack blobs.
//
// Store is the interface every backend implements. Implementations must be
// safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and embedded packs
//   - LocalStore: local filesystem, reads through a read-only mmap
//   - CachingStore: whole-blob LRU in front of any Store
//   - s3.Store: Amazon S3 (and compatible endpoints) via aws-sdk-go-v2
//   - minio.Store: MinIO and S3-compatible storage via minio-go
//
// A missing blob is reported with an error satisfying
// errors.Is(err, ErrNotFound).
package blobstore

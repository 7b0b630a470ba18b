// Package modelstore persists fitted detector snapshots.
//
// Store is the interface for reading and writing snapshot blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with atomic rename on close
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with range reads and managed uploads
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Snapshot Format
//
// Save writes a self-describing envelope: a magic header, format version,
// compression type (none, LZ4 or ZSTD) and codec name, followed by the
// encoded detector state. Load validates the header, selects the codec by
// name and reconstructs a ready-to-score detector without re-fitting.
package modelstore

// Package blobstore abstracts where pre-built core index snapshots live.
//
// A snapshot is produced once by the indexing side of a build pipeline and
// consumed read-only by many build workers, so the store surface is small:
// open, put, delete, list. Backends:
//
//   - LocalStore — local filesystem (dev machines, CI caches)
//   - MemoryStore — in-memory, for tests
//   - s3.Store — Amazon S3, with a DynamoDB pointer table for the
//     "current snapshot" name
//   - minio.Store — MinIO and other S3-compatible object stores
//
// All backends map "missing blob" to ErrNotFound. Stores that can stream
// large writes additionally implement StreamWriter.
package blobstore

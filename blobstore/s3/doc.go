// Package s3 implements blobstore.BlobStore on Amazon S3.
//
// Snapshot artifacts are immutable objects; the only mutable piece of state
// is "which snapshot is current", which S3 alone cannot update atomically.
// PointerTable covers that with DynamoDB conditional writes, so several
// index publishers can race safely.
package s3

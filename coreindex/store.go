package coreindex

import (
	"bytes"
	"context"
	"fmt"

	"github.com/typehier/typehier/blobstore"
)

// Store serializes the index and writes it to the blob store under name.
// Stores that implement blobstore.StreamWriter receive the snapshot as a
// stream; everything else gets a buffered Put. Publishing the written name
// to readers is the caller's job.
func Store(ctx context.Context, store blobstore.BlobStore, name string, ix *Index, opts ...SnapshotOption) error {
	if sw, ok := store.(blobstore.StreamWriter); ok {
		w, err := sw.Create(ctx, name)
		if err != nil {
			return fmt.Errorf("coreindex: create snapshot %q: %w", name, err)
		}
		if err := WriteSnapshot(w, ix, opts...); err != nil {
			_ = w.Close()
			return fmt.Errorf("coreindex: write snapshot %q: %w", name, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("coreindex: flush snapshot %q: %w", name, err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, ix, opts...); err != nil {
		return fmt.Errorf("coreindex: write snapshot %q: %w", name, err)
	}
	return store.Put(ctx, name, buf.Bytes())
}

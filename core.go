package typehier

import (
	"context"
	"time"

	"github.com/typehier/typehier/blobstore"
	"github.com/typehier/typehier/coreindex"
)

// LoadCore fetches a core index snapshot from the blob store and decodes it.
// The result plugs into New as the core Registry.
func LoadCore(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*coreindex.Index, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	ix, err := coreindex.Load(ctx, store, name, o.coreLoad...)
	o.logger.LogSnapshotLoad(ctx, name, time.Since(start), err)
	return ix, err
}

package coreindex

import (
	"context"
	"fmt"

	"github.com/typehier/typehier/blobstore"
	"github.com/typehier/typehier/resource"
)

// fetchChunkSize is the granularity at which downloads are metered against
// the resource controller's IO limit.
const fetchChunkSize = 256 << 10

type loadOptions struct {
	controller *resource.Controller
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithResourceController bounds the download against the controller's fetch
// slots and IO rate.
func WithResourceController(c *resource.Controller) LoadOption {
	return func(o *loadOptions) {
		o.controller = c
	}
}

// Load fetches a snapshot blob from the store and decodes it.
func Load(ctx context.Context, store blobstore.BlobStore, name string, opts ...LoadOption) (*Index, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := o.controller.AcquireFetch(ctx); err != nil {
		return nil, err
	}
	defer o.controller.ReleaseFetch()

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("coreindex: open snapshot %q: %w", name, err)
	}
	defer blob.Close()

	data := make([]byte, blob.Size())
	var off int64
	for off < int64(len(data)) {
		n := len(data) - int(off)
		if n > fetchChunkSize {
			n = fetchChunkSize
		}
		if err := o.controller.AcquireIO(ctx, n); err != nil {
			return nil, err
		}
		read, err := blob.ReadAt(ctx, data[off:off+int64(n)], off)
		off += int64(read)
		if err != nil && off < int64(len(data)) {
			return nil, fmt.Errorf("coreindex: read snapshot %q: %w", name, err)
		}
		if read == 0 {
			break
		}
	}

	ix, err := decodeSnapshot(data[:off])
	if err != nil {
		return nil, err
	}
	return ix, nil
}

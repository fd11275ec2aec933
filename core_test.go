package typehier

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typehier/typehier/blobstore"
	"github.com/typehier/typehier/coreindex"
	"github.com/typehier/typehier/resource"
)

func TestLoadCore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	ix := coreindex.New(map[string][]string{
		"core/task/Task": {"core/Named"},
		"core/Named":     {},
	})
	var buf bytes.Buffer
	require.NoError(t, coreindex.WriteSnapshot(&buf, ix))
	require.NoError(t, store.Put(ctx, "snapshots/core-v1.thix", buf.Bytes()))

	var logs bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctrl := resource.NewController(resource.Config{MaxConcurrentFetches: 1})
	got, err := LoadCore(ctx, store, "snapshots/core-v1.thix",
		WithLogger(logger), WithCoreLoadResource(ctrl))
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())

	assert.Contains(t, logs.String(), "snapshot loaded")
	assert.Contains(t, logs.String(), "snapshots/core-v1.thix")

	// The fetch slot was released.
	assert.True(t, ctrl.TryAcquireFetch())
}

func TestLoadCore_Missing(t *testing.T) {
	var logs bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&logs, nil))

	_, err := LoadCore(context.Background(), blobstore.NewMemoryStore(), "nope", WithLogger(logger))
	assert.True(t, errors.Is(err, blobstore.ErrNotFound))
	assert.Contains(t, logs.String(), "snapshot load failed")
}

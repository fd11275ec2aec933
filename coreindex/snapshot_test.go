package coreindex

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typehier/typehier/blobstore"
	"github.com/typehier/typehier/codec"
	"github.com/typehier/typehier/internal/blockio"
	"github.com/typehier/typehier/resource"
	"github.com/typehier/typehier/typeset"
)

func testIndex() *Index {
	return New(map[string][]string{
		"core/task/DefaultTask": {"core/task/Task", "core/Named"},
		"core/task/Task":        {"core/Named"},
		"core/Named":            {},
	})
}

func TestSnapshot_RoundTrip(t *testing.T) {
	for _, compression := range []blockio.Compression{blockio.None, blockio.LZ4, blockio.ZSTD} {
		var buf bytes.Buffer
		require.NoError(t, WriteSnapshot(&buf, testIndex(), WithCompression(compression)))

		got, err := ReadSnapshot(&buf)
		require.NoError(t, err)

		assert.True(t, got.Ancestors("core/task/DefaultTask").Equal(typeset.New("core/task/Task", "core/Named")))
		assert.Equal(t, 3, got.Len())
	}
}

func TestSnapshot_CodecRecordedInHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, testIndex(), WithCodec(codec.JSON{})))

	// A reader with a different default codec still decodes by header name.
	got, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.True(t, got.Ancestors("core/task/Task").Equal(typeset.New("core/Named")))
}

func TestSnapshot_BadInput(t *testing.T) {
	_, err := ReadSnapshot(bytes.NewReader([]byte("not a snapshot")))
	assert.True(t, errors.Is(err, ErrBadMagic))

	_, err = ReadSnapshot(bytes.NewReader(nil))
	assert.True(t, errors.Is(err, ErrBadMagic))

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, testIndex()))
	data := buf.Bytes()
	data[4] = 99 // future version
	_, err = decodeSnapshot(data)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
}

func TestSnapshot_CorruptBlockSizes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, testIndex()))
	data := buf.Bytes()

	// Overwrite the block size fields past the codec name with values that
	// would wrap 32-bit arithmetic. Decoding must error, not panic.
	block := data[7+len(codec.Default.Name()):]
	require.GreaterOrEqual(t, len(block), 8)
	binary.LittleEndian.PutUint32(block[0:], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(block[4:], 0)
	_, err := ReadSnapshot(bytes.NewReader(data))
	assert.True(t, errors.Is(err, blockio.ErrTruncated))

	binary.LittleEndian.PutUint32(block[0:], 16)
	binary.LittleEndian.PutUint32(block[4:], 0xFFFFFFFF)
	_, err = ReadSnapshot(bytes.NewReader(data))
	assert.True(t, errors.Is(err, blockio.ErrTruncated))
}

func TestSnapshot_UnknownCodec(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, testIndex()))
	data := buf.Bytes()
	// Corrupt the codec name in place ("go-json" -> "go-xson").
	copy(data[7+3:], "x")

	var unknown *ErrUnknownCodec
	_, err := decodeSnapshot(data)
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "go-xson", unknown.Name)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	require.NoError(t, Store(ctx, store, "snapshots/core-v2.thix", testIndex()))

	got, err := Load(ctx, store, "snapshots/core-v2.thix")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
}

// streamingStore exposes the optional streaming write path on top of the
// in-memory store.
type streamingStore struct {
	*blobstore.MemoryStore
	creates int
}

func (s *streamingStore) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	s.creates++
	return &streamingWriter{ctx: ctx, store: s.MemoryStore, name: name}, nil
}

type streamingWriter struct {
	ctx   context.Context
	store *blobstore.MemoryStore
	name  string
	buf   bytes.Buffer
}

func (w *streamingWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *streamingWriter) Close() error { return w.store.Put(w.ctx, w.name, w.buf.Bytes()) }

func TestStore_PrefersStreaming(t *testing.T) {
	ctx := context.Background()
	store := &streamingStore{MemoryStore: blobstore.NewMemoryStore()}

	require.NoError(t, Store(ctx, store, "snapshots/core-v2.thix", testIndex(), WithCompression(blockio.LZ4)))
	assert.Equal(t, 1, store.creates)

	got, err := Load(ctx, store, "snapshots/core-v2.thix")
	require.NoError(t, err)
	assert.True(t, got.Ancestors("core/task/Task").Equal(typeset.New("core/Named")))
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, testIndex()))
	require.NoError(t, store.Put(ctx, "snapshots/core-v1.thix", buf.Bytes()))

	got, err := Load(ctx, store, "snapshots/core-v1.thix")
	require.NoError(t, err)
	assert.True(t, got.Ancestors("core/task/DefaultTask").Equal(typeset.New("core/task/Task", "core/Named")))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(context.Background(), blobstore.NewMemoryStore(), "nope")
	assert.True(t, errors.Is(err, blobstore.ErrNotFound))
}

func TestLoad_WithResourceController(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, testIndex()))
	require.NoError(t, store.Put(ctx, "snapshots/core-v1.thix", buf.Bytes()))

	ctrl := resource.NewController(resource.Config{MaxConcurrentFetches: 1})
	got, err := Load(ctx, store, "snapshots/core-v1.thix", WithResourceController(ctrl))
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())

	// The fetch slot was released.
	assert.True(t, ctrl.TryAcquireFetch())
}

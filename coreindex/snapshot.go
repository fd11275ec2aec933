package coreindex

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/typehier/typehier/codec"
	"github.com/typehier/typehier/internal/blockio"
)

// Snapshot format:
//
//	magic "THIX" | version uint8 | compression uint8 | codecNameLen uint8 |
//	codecName | compressed payload block
//
// The payload is the flattened ancestor map, encoded with the named codec and
// framed by blockio. Files are self-describing: readers select codec and
// compression from the header.
var snapshotMagic = [4]byte{'T', 'H', 'I', 'X'}

const snapshotVersion = 1

var (
	// ErrBadMagic is returned when the input is not a snapshot file.
	ErrBadMagic = errors.New("coreindex: bad snapshot magic")
	// ErrUnsupportedVersion is returned for snapshot versions this build
	// cannot read.
	ErrUnsupportedVersion = errors.New("coreindex: unsupported snapshot version")
)

// ErrUnknownCodec indicates a snapshot written with a codec this build does
// not carry.
type ErrUnknownCodec struct {
	Name string
}

func (e *ErrUnknownCodec) Error() string {
	return fmt.Sprintf("coreindex: unknown snapshot codec %q", e.Name)
}

type snapshotOptions struct {
	codec       codec.Codec
	compression blockio.Compression
}

// SnapshotOption configures snapshot writing.
type SnapshotOption func(*snapshotOptions)

// WithCodec sets the payload codec. If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) SnapshotOption {
	return func(o *snapshotOptions) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression sets the payload compression. Defaults to ZSTD.
func WithCompression(c blockio.Compression) SnapshotOption {
	return func(o *snapshotOptions) {
		o.compression = c
	}
}

type snapshotPayload struct {
	Types map[string][]string `json:"types"`
}

// WriteSnapshot serializes the index to w.
func WriteSnapshot(w io.Writer, ix *Index, opts ...SnapshotOption) error {
	o := snapshotOptions{
		codec:       codec.Default,
		compression: blockio.ZSTD,
	}
	for _, opt := range opts {
		opt(&o)
	}

	payload, err := o.codec.Marshal(snapshotPayload{Types: ix.entries()})
	if err != nil {
		return fmt.Errorf("coreindex: encode snapshot payload: %w", err)
	}
	block, err := blockio.Compress(payload, o.compression)
	if err != nil {
		return fmt.Errorf("coreindex: compress snapshot payload: %w", err)
	}

	name := o.codec.Name()
	if len(name) > 255 {
		return fmt.Errorf("coreindex: codec name too long: %q", name)
	}

	header := make([]byte, 0, len(snapshotMagic)+3+len(name))
	header = append(header, snapshotMagic[:]...)
	header = append(header, snapshotVersion, byte(o.compression), byte(len(name)))
	header = append(header, name...)

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(block)
	return err
}

// ReadSnapshot deserializes an index written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Index, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(data)
}

func decodeSnapshot(data []byte) (*Index, error) {
	if len(data) < len(snapshotMagic)+3 {
		return nil, ErrBadMagic
	}
	if !bytes.Equal(data[:4], snapshotMagic[:]) {
		return nil, ErrBadMagic
	}
	if data[4] != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[4])
	}

	compression := blockio.Compression(data[5])
	nameLen := int(data[6])
	rest := data[7:]
	if len(rest) < nameLen {
		return nil, ErrBadMagic
	}
	codecName := string(rest[:nameLen])

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, &ErrUnknownCodec{Name: codecName}
	}

	payload, err := blockio.Decompress(rest[nameLen:], compression)
	if err != nil {
		return nil, fmt.Errorf("coreindex: decompress snapshot payload: %w", err)
	}

	var p snapshotPayload
	if err := c.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("coreindex: decode snapshot payload: %w", err)
	}
	return New(p.Types), nil
}

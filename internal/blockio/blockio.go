// Package blockio implements the compressed block framing used by index
// snapshots.
//
// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...].
// CompressedSize == 0 marks a raw block; compression that does not pay for
// itself is dropped on write and the block is stored raw.
package blockio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the block compression algorithm.
type Compression uint8

const (
	// None stores blocks raw.
	None Compression = 0
	// LZ4 block compression (fast, modest ratio).
	LZ4 Compression = 1
	// ZSTD block compression (slower, better ratio).
	ZSTD Compression = 2
)

const headerSize = 8

// ErrTruncated is returned when a block is shorter than its header says.
var ErrTruncated = errors.New("blockio: truncated block")

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Compress frames data as a single block using the given algorithm.
func Compress(data []byte, c Compression) ([]byte, error) {
	var compressed []byte
	var err error

	switch c {
	case None:
		// fall through to raw framing below
	case LZ4:
		compressed, err = compressLZ4(data)
	case ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("blockio: unknown compression %d", c)
	}
	if err != nil {
		return nil, err
	}

	// Store raw if compression is off, failed to shrink, or barely shrank.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, headerSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[headerSize:], data)
		return out, nil
	}

	out := make([]byte, headerSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[headerSize:], compressed)
	return out, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return buf[:n], nil
}

// Decompress unframes a block written by Compress with the same algorithm.
func Decompress(data []byte, c Compression) ([]byte, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])

	// Size the header claims, computed in int64 so a corrupt value near
	// 2^32 cannot wrap the comparison.
	if compressedSize == 0 {
		if int64(len(data)) < headerSize+int64(uncompressedSize) {
			return nil, ErrTruncated
		}
		return data[headerSize : headerSize+int(uncompressedSize)], nil
	}

	if int64(len(data)) < headerSize+int64(compressedSize) {
		return nil, ErrTruncated
	}
	payload := data[headerSize : headerSize+int(compressedSize)]

	switch c {
	case LZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, errors.New("blockio: decompressed size mismatch")
		}
		return out, nil

	case ZSTD:
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(payload, make([]byte, 0, uncompressedSize))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, err
		}
		if uint32(len(out)) != uncompressedSize {
			return nil, errors.New("blockio: decompressed size mismatch")
		}
		return out, nil

	default:
		return nil, fmt.Errorf("blockio: compressed block with compression %d", c)
	}
}

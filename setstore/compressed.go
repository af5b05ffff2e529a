package setstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the algorithm CompressedStore writes with.
type Compression uint8

const (
	// CompressionNone stores the blob as is (behind the one-byte tag).
	CompressionNone Compression = iota
	// CompressionZstd uses Zstandard (klauspost/compress).
	CompressionZstd
	// CompressionLZ4 uses the LZ4 block format with a uvarint length prefix.
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ErrCorrupt is returned by CompressedStore.Get when a stored blob cannot be decompressed.
var ErrCorrupt = errors.New("setstore: corrupt compressed blob")

// maxDecodedSize bounds the length prefix of an lz4 blob.
const maxDecodedSize = 1 << 30

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}
		return encoder
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxDecodedSize),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}
		return decoder
	},
}

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// CompressedStore compresses blobs at rest.
//
// Every non-empty blob is written as a one-byte Compression tag followed by
// the payload, so blobs written with one algorithm stay readable after the
// store is reconfigured. Zero-length blobs (the empty set) are stored as zero
// bytes. Get always returns the original bytes.
type CompressedStore struct {
	inner       Store
	compression Compression
}

// NewCompressedStore wraps inner. Writes use the given algorithm.
func NewCompressedStore(inner Store, c Compression) *CompressedStore {
	return &CompressedStore{inner: inner, compression: c}
}

// Get reads and decompresses a blob.
func (s *CompressedStore) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	out, err := decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Put compresses and writes a blob.
func (s *CompressedStore) Put(ctx context.Context, name string, data []byte) error {
	packed, err := compress(s.compression, data)
	if err != nil {
		return err
	}
	return s.inner.Put(ctx, name, packed)
}

// Delete removes a blob.
func (s *CompressedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List returns all names with the given prefix.
func (s *CompressedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func compress(c Compression, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	switch c {
	case CompressionNone:
		out := make([]byte, 0, 1+len(data))
		out = append(out, byte(CompressionNone))
		return append(out, data...), nil

	case CompressionZstd:
		encoder := zstdEncoderPool.Get().(*zstd.Encoder)
		defer zstdEncoderPool.Put(encoder)
		return encoder.EncodeAll(data, []byte{byte(CompressionZstd)}), nil

	case CompressionLZ4:
		out := make([]byte, 1+binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
		out[0] = byte(CompressionLZ4)
		hdr := 1 + binary.PutUvarint(out[1:], uint64(len(data)))

		lc := lz4CompressorPool.Get().(*lz4.Compressor)
		defer lz4CompressorPool.Put(lc)

		n, err := lc.CompressBlock(data, out[hdr:])
		if err != nil {
			return nil, err
		}
		if n == 0 {
			// Incompressible input.
			return compress(CompressionNone, data)
		}
		return out[:hdr+n], nil

	default:
		return nil, fmt.Errorf("setstore: unknown compression %s", c)
	}
}

func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	payload := data[1:]
	switch Compression(data[0]) {
	case CompressionNone:
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil

	case CompressionZstd:
		decoder := zstdDecoderPool.Get().(*zstd.Decoder)
		defer zstdDecoderPool.Put(decoder)
		out, err := decoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		return out, nil

	case CompressionLZ4:
		size, n := binary.Uvarint(payload)
		if n <= 0 || size > maxDecodedSize {
			return nil, fmt.Errorf("%w: bad lz4 length prefix", ErrCorrupt)
		}
		out := make([]byte, size)
		m, err := lz4.UncompressBlock(payload[n:], out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint64(m) != size {
			return nil, fmt.Errorf("%w: lz4 length mismatch", ErrCorrupt)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: unknown tag %d", ErrCorrupt, data[0])
	}
}

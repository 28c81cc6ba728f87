package stegcodec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// DefaultMaxDecompressedBytes bounds decompressed output so a noisy
// candidate cannot expand into an unbounded allocation.
const DefaultMaxDecompressedBytes = 16 << 20

// Compressor handles lossless compression of message bytes.
type Compressor interface {
	// Algorithm returns the algorithm identifier recorded in manifests.
	Algorithm() CompressAlgo

	// Compress returns the compressed form of data.
	Compress(data []byte) ([]byte, error)

	// Decompress reverses Compress. Malformed input returns an error
	// wrapping ErrCorruptCompressedData.
	Decompress(data []byte) ([]byte, error)
}

// NewCompressor returns a compressor for the algorithm.
// maxOutput bounds decompressed size; zero selects DefaultMaxDecompressedBytes.
func NewCompressor(algo CompressAlgo, maxOutput int) (Compressor, error) {
	if maxOutput <= 0 {
		maxOutput = DefaultMaxDecompressedBytes
	}
	switch algo {
	case CompressZlib:
		return &zlibCompressor{limit: maxOutput}, nil
	case CompressFlate:
		return &flateCompressor{limit: maxOutput}, nil
	case CompressZstd:
		return &zstdCompressor{limit: maxOutput}, nil
	case CompressLZ4:
		return &lz4Compressor{limit: maxOutput}, nil
	case CompressNone:
		return noneCompressor{}, nil
	default:
		return nil, newConfigError("Compression", algo)
	}
}

// readLimited drains r, failing once more than limit bytes are produced.
func readLimited(r io.Reader, limit int) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptCompressedData, err)
	}
	if len(out) > limit {
		return nil, fmt.Errorf("%w: output exceeds %d bytes", ErrCorruptCompressedData, limit)
	}
	return out, nil
}

// zlibCompressor implements zlib compression.
type zlibCompressor struct {
	limit int
}

func (c *zlibCompressor) Algorithm() CompressAlgo { return CompressZlib }

func (c *zlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *zlibCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptCompressedData, err)
	}
	defer r.Close()
	return readLimited(r, c.limit)
}

// flateCompressor implements raw DEFLATE compression.
type flateCompressor struct {
	limit int
}

func (c *flateCompressor) Algorithm() CompressAlgo { return CompressFlate }

func (c *flateCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("flate compress: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("flate compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flate compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *flateCompressor) Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return readLimited(r, c.limit)
}

// zstdCompressor implements zstd compression.
// The encoder and decoder are built on first use and reused; both are
// safe for concurrent use through EncodeAll/DecodeAll.
type zstdCompressor struct {
	limit int

	once    sync.Once
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	initErr error
}

func (c *zstdCompressor) Algorithm() CompressAlgo { return CompressZstd }

func (c *zstdCompressor) init() error {
	c.once.Do(func() {
		c.encoder, c.initErr = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedBestCompression),
			zstd.WithEncoderConcurrency(1),
		)
		if c.initErr != nil {
			return
		}
		c.decoder, c.initErr = zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(uint64(c.limit)),
		)
	})
	return c.initErr
}

func (c *zstdCompressor) Compress(data []byte) ([]byte, error) {
	if err := c.init(); err != nil {
		return nil, fmt.Errorf("zstd init: %w", err)
	}
	return c.encoder.EncodeAll(data, nil), nil
}

func (c *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	if err := c.init(); err != nil {
		return nil, fmt.Errorf("zstd init: %w", err)
	}
	out, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptCompressedData, err)
	}
	if len(out) > c.limit {
		return nil, fmt.Errorf("%w: output exceeds %d bytes", ErrCorruptCompressedData, c.limit)
	}
	return out, nil
}

// lz4Compressor implements LZ4 block compression.
//
// The LZ4 frame format ends with four zero bytes, which the payload framer
// would read as a terminator, so blocks are used instead. The output is
// uvarint(len<<1 | stored) followed by the block, or by the raw bytes when
// LZ4 cannot shrink them.
type lz4Compressor struct {
	limit int
}

func (c *lz4Compressor) Algorithm() CompressAlgo { return CompressLZ4 }

func (c *lz4Compressor) Compress(data []byte) ([]byte, error) {
	header := binary.AppendUvarint(nil, uint64(len(data))<<1)

	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if written == 0 || written >= len(data) {
		header = binary.AppendUvarint(nil, uint64(len(data))<<1|1)
		return append(header, data...), nil
	}
	return append(header, destination[:written]...), nil
}

func (c *lz4Compressor) Decompress(data []byte) ([]byte, error) {
	v, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("%w: lz4 length header", ErrCorruptCompressedData)
	}
	size, stored := v>>1, v&1 == 1
	if size > uint64(c.limit) {
		return nil, fmt.Errorf("%w: output exceeds %d bytes", ErrCorruptCompressedData, c.limit)
	}
	body := data[n:]

	if stored {
		if uint64(len(body)) != size {
			return nil, fmt.Errorf("%w: stored block is %d bytes, header says %d", ErrCorruptCompressedData, len(body), size)
		}
		return append([]byte(nil), body...), nil
	}

	destination := make([]byte, size)
	read, err := lz4.UncompressBlock(body, destination)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptCompressedData, err)
	}
	if uint64(read) != size {
		return nil, fmt.Errorf("%w: lz4 produced %d bytes, header says %d", ErrCorruptCompressedData, read, size)
	}
	return destination, nil
}

// noneCompressor passes data through unchanged.
type noneCompressor struct{}

func (noneCompressor) Algorithm() CompressAlgo { return CompressNone }

func (noneCompressor) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (noneCompressor) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

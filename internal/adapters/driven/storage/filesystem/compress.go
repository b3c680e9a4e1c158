package filesystem

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/custodia-labs/curator/internal/core/domain"
)

// codecTag identifies the compression of a snapshot payload. Tags are
// written to disk; changing them breaks existing files.
type codecTag uint8

const (
	tagNone codecTag = 0
	tagLZ4  codecTag = 1
	tagZstd codecTag = 2
)

func (t codecTag) String() string {
	switch t {
	case tagNone:
		return "none"
	case tagLZ4:
		return "lz4"
	case tagZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// tagFor maps the configured compression to its on-disk tag.
func tagFor(c domain.Compression) (codecTag, error) {
	switch c {
	case domain.CompressionNone:
		return tagNone, nil
	case domain.CompressionLZ4:
		return tagLZ4, nil
	case domain.CompressionZstd, "":
		return tagZstd, nil
	default:
		return 0, fmt.Errorf("%w: unknown compression %q", domain.ErrInvalidInput, c)
	}
}

// errIncompressible means compression would not shrink the payload; the
// caller stores it raw instead.
var errIncompressible = errors.New("data is incompressible")

// zstd encoders and decoders are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("filesystem: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("filesystem: zstd decoder initialization failed: " + err.Error())
	}
}

func compress(data []byte, tag codecTag) ([]byte, error) {
	switch tag {
	case tagNone:
		return data, nil
	case tagLZ4:
		bound := lz4.CompressBlockBound(len(data))
		dst := make([]byte, bound)
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 || n >= len(data) {
			return nil, errIncompressible
		}
		return dst[:n], nil
	case tagZstd:
		out := zstdEncoder.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return nil, errIncompressible
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported compression tag: %s", tag)
	}
}

func decompress(payload []byte, tag codecTag, size int) ([]byte, error) {
	switch tag {
	case tagNone:
		if len(payload) != size {
			return nil, fmt.Errorf("raw payload: size %d does not match expected %d", len(payload), size)
		}
		return payload, nil
	case tagLZ4:
		dst := make([]byte, size)
		n, err := lz4.UncompressBlock(payload, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", n, size)
		}
		return dst, nil
	case tagZstd:
		out, err := zstdDecoder.DecodeAll(payload, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(out) != size {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(out), size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported compression tag: %s", tag)
	}
}

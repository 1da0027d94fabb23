package ifs

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec selects how a raw dump is stored on disk.
type Codec int

// Codec constants.
const (
	CodecNone Codec = iota // Decompressed bytes as is.
	CodecLZ4               // LZ4 frame.
	CodecZstd              // Zstandard frame.
)

// String returns the codec name.
func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecLZ4:
		return "lz4"
	case CodecZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Codec(%d)", int(c))
	}
}

// Ext returns the file name suffix for the codec.
func (c Codec) Ext() string {
	switch c {
	case CodecLZ4:
		return ".bin.lz4"
	case CodecZstd:
		return ".bin.zst"
	default:
		return ".bin"
	}
}

// ParseCodec maps a codec name to a Codec.
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "none", "raw":
		return CodecNone, nil
	case "lz4":
		return CodecLZ4, nil
	case "zstd", "zst":
		return CodecZstd, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// WriteDump writes a decompressed payload to w using codec.
func WriteDump(w io.Writer, data []byte, codec Codec) error {
	var wc io.WriteCloser
	switch codec {
	case CodecNone:
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrDumpWrite, err)
		}
		return nil
	case CodecLZ4:
		wc = lz4.NewWriter(w)
	case CodecZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDumpWrite, err)
		}
		wc = enc
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCodec, codec)
	}

	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return fmt.Errorf("%w: %s: %v", ErrDumpWrite, codec, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDumpWrite, codec, err)
	}

	return nil
}

// ReadDump reads back a dump written with codec.
func ReadDump(r io.Reader, codec Codec) ([]byte, error) {
	var src io.Reader
	switch codec {
	case CodecNone:
		src = r
	case CodecLZ4:
		src = lz4.NewReader(r)
	case CodecZstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDumpRead, err)
		}
		defer dec.Close()
		src = dec
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, codec)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDumpRead, codec, err)
	}

	return data, nil
}

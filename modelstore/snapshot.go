package modelstore

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/cbrw"
	"github.com/hupe1980/cbrw/codec"
)

// Compression selects the snapshot payload compression.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD compression (better ratio).
	CompressionZSTD Compression = 2
)

// Snapshot envelope:
//
//	[4] magic "CBRW"
//	[1] format version
//	[1] compression type
//	[1] codec name length, followed by the codec name
//	[4] uncompressed payload size (LE)
//	[.] payload
var snapshotMagic = [4]byte{'C', 'B', 'R', 'W'}

const snapshotVersion = 1

// ErrBadSnapshot indicates a blob that is not a readable snapshot:
// truncated, corrupt, or written by an incompatible version.
type ErrBadSnapshot struct {
	Reason string
	cause  error
}

func (e *ErrBadSnapshot) Error() string { return "bad snapshot: " + e.Reason }

func (e *ErrBadSnapshot) Unwrap() error { return e.cause }

type saveOptions struct {
	codec       codec.Codec
	compression Compression
}

// SaveOption configures Save.
type SaveOption func(*saveOptions)

// WithCodec overrides the payload codec. If nil is passed, codec.Default is
// used. Without this option, Save encodes with the detector's own codec.
func WithCodec(c codec.Codec) SaveOption {
	return func(o *saveOptions) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression sets the payload compression. Default: ZSTD.
func WithCompression(c Compression) SaveOption {
	return func(o *saveOptions) { o.compression = c }
}

// Save exports the detector's state and writes it to the store under the
// given name, atomically where the backend supports it. The write is
// reported through the detector's logger and metrics collector.
func Save(ctx context.Context, store Store, name string, det *cbrw.Detector, opts ...SaveOption) error {
	start := time.Now()
	n, err := save(ctx, store, name, det, opts)
	det.Metrics().RecordSnapshotSave(n, time.Since(start), err)
	det.Logger().LogSnapshot(ctx, "save", name, err)
	return err
}

func save(ctx context.Context, store Store, name string, det *cbrw.Detector, opts []SaveOption) (int, error) {
	o := saveOptions{codec: det.SnapshotCodec(), compression: CompressionZSTD}
	for _, fn := range opts {
		fn(&o)
	}
	if o.codec == nil {
		o.codec = codec.Default
	}

	payload, err := o.codec.Marshal(det.Snapshot())
	if err != nil {
		return 0, fmt.Errorf("modelstore: encode snapshot: %w", err)
	}

	compressed, compression, err := compress(payload, o.compression)
	if err != nil {
		return 0, fmt.Errorf("modelstore: compress snapshot: %w", err)
	}

	codecName := o.codec.Name()
	if len(codecName) > 255 {
		return 0, fmt.Errorf("modelstore: codec name %q too long", codecName)
	}
	buf := make([]byte, 0, 4+1+1+1+len(codecName)+4+len(compressed))
	buf = append(buf, snapshotMagic[:]...)
	buf = append(buf, snapshotVersion, byte(compression), byte(len(codecName)))
	buf = append(buf, codecName...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(payload)))
	buf = append(buf, compressed...)

	return len(buf), store.Put(ctx, name, buf)
}

// Load reads a snapshot and reconstructs a ready-to-score detector without
// re-fitting. Options override the snapshot's stored configuration;
// ambient options (logger, metrics) must be re-supplied, since they are
// not serialized.
func Load(ctx context.Context, store Store, name string, opts ...cbrw.Option) (*cbrw.Detector, error) {
	start := time.Now()

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = blob.Close() }()

	data, err := readAll(ctx, blob)
	if err != nil {
		return nil, err
	}

	if len(data) < 4+1+1+1+4 {
		return nil, &ErrBadSnapshot{Reason: "truncated header"}
	}
	if [4]byte(data[:4]) != snapshotMagic {
		return nil, &ErrBadSnapshot{Reason: "bad magic"}
	}
	if data[4] != snapshotVersion {
		return nil, &ErrBadSnapshot{Reason: fmt.Sprintf("unsupported version %d", data[4])}
	}
	compression := Compression(data[5])
	nameLen := int(data[6])
	rest := data[7:]
	if len(rest) < nameLen+4 {
		return nil, &ErrBadSnapshot{Reason: "truncated header"}
	}
	codecName := string(rest[:nameLen])
	rest = rest[nameLen:]
	uncompressedSize := binary.LittleEndian.Uint32(rest[:4])
	body := rest[4:]

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, &ErrBadSnapshot{Reason: fmt.Sprintf("unknown codec %q", codecName)}
	}

	payload, err := decompress(body, compression, int(uncompressedSize))
	if err != nil {
		return nil, &ErrBadSnapshot{Reason: "decompress payload", cause: err}
	}

	var st cbrw.SnapshotState
	if err := c.Unmarshal(payload, &st); err != nil {
		return nil, &ErrBadSnapshot{Reason: "decode payload", cause: err}
	}

	det, err := cbrw.FromSnapshot(st, opts...)
	if err != nil {
		return nil, err
	}
	// Load failures before this point have no detector to report through;
	// only successful restores reach the configured instrumentation.
	det.Metrics().RecordSnapshotLoad(time.Since(start), nil)
	det.Logger().LogSnapshot(ctx, "load", name, nil)
	return det, nil
}

// compress returns the encoded payload and the compression actually used:
// an incompressible payload falls back to being stored raw.
func compress(data []byte, compression Compression) ([]byte, Compression, error) {
	switch compression {
	case CompressionNone:
		return data, CompressionNone, nil

	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, 0, err
		}
		if n == 0 || n >= len(data) {
			return data, CompressionNone, nil
		}
		return buf[:n], CompressionLZ4, nil

	case CompressionZSTD:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, 0, err
		}
		out := enc.EncodeAll(data, nil)
		_ = enc.Close()
		if len(out) >= len(data) {
			return data, CompressionNone, nil
		}
		return out, CompressionZSTD, nil

	default:
		return nil, 0, fmt.Errorf("unknown compression type %d", compression)
	}
}

func decompress(body []byte, compression Compression, uncompressedSize int) ([]byte, error) {
	switch compression {
	case CompressionNone:
		if len(body) != uncompressedSize {
			return nil, fmt.Errorf("payload size %d does not match header %d", len(body), uncompressedSize)
		}
		return body, nil

	case CompressionLZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, err
		}
		if n != uncompressedSize {
			return nil, fmt.Errorf("decompressed size %d does not match header %d", n, uncompressedSize)
		}
		return out[:n], nil

	case CompressionZSTD:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(body, nil)
		if err != nil {
			return nil, err
		}
		if len(out) != uncompressedSize {
			return nil, fmt.Errorf("decompressed size %d does not match header %d", len(out), uncompressedSize)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown compression type %d", compression)
	}
}

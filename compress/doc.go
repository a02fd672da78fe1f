// Package compress provides compression and decompression codecs for savestream
// container bytes.
//
// A savestream is already deduplicated by the dedup engine, but the serialized
// container (msgpack-encoded frames, zero padding from alignment, repetitive
// JSON patches) still benefits from a general-purpose byte-level pass. This
// package applies that pass at the edge — the CLI front end wraps an encoded
// container before writing it to disk, and unwraps it before decoding — never
// inside the codec itself, which always operates on the uncompressed
// savestream bytes described by the container format.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Supported algorithms
//
//   - None (format.CompressionNone): no-op, for debugging or already-compressed output.
//   - Zstd (format.CompressionZstd): best ratio, moderate speed. Good default for
//     archived savestreams.
//   - S2 (format.CompressionS2): balanced ratio and speed.
//   - LZ4 (format.CompressionLZ4): fastest decompression, moderate ratio.
//
// # Selection guide
//
// | Use case                  | Recommended |
// |----------------------------|-------------|
// | Archival / cold storage    | Zstd        |
// | Frequent re-encode/decode  | S2 or LZ4   |
// | Debugging raw container    | None        |
//
// # Thread safety
//
// All codec implementations are safe for concurrent use, though each
// encode/decode call in the savestream package itself is single-threaded per
// §5 of the format — concurrency here only matters if a caller compresses
// multiple independent savestreams in parallel.
package compress

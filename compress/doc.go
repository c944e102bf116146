// Package compress provides the optional compressed persisted form of a
// document (SPEC_FULL.md §3, §4.4). The baseline persisted form defined by
// spec.md §6.4 is a `u32` length prefix followed by the raw encoding, with
// no compression. This package adds an alternate framing that additionally
// runs the raw bytes through a Codec before writing them, for callers who
// want to trade CPU for size when persisting or transmitting a document.
//
// # Supported algorithms
//
//   - None (format.CompressionNone): passes data through unchanged. Use
//     when the document is small or already incompressible.
//   - Zstd (format.CompressionZstd): best compression ratio, moderate
//     speed. Use for cold storage or network transmission.
//   - LZ4 (format.CompressionLZ4): fastest decompression, moderate
//     compression ratio. Use on the hot read path.
//
// # Thread safety
//
// All codec implementations are safe for concurrent use; each holds no
// per-call mutable state beyond pooled encoder/decoder instances.
package compress

// Package pkguid provides helpers for generating unique identifiers.
//
// The codebase uses these interfaces to avoid hard-coding a specific UID
// strategy. Depending on the use case you can generate:
//   - String IDs (UUIDv7 or base-36 flakes, used for request correlation).
//   - Numeric flake IDs (Snowflake-style, 64 bits).
//
// # Flake layout
//
// A flake id packs three fields, most significant first:
//
//	| timestamp (ms since epoch) | identifier | sequence |
//	|          42 bits           |   10 bits  |  12 bits |
//
// The widths and the epoch are configuration, so the layout is not encoded in
// the id itself and has to be known to decode it. The default epoch is
// 2013-01-01T00:00:00Z.
//
// Generator is the single-owner building block. Snowflake wraps it with a
// mutex for shared use.
//
// Ids from one Generator increase as long as the sequence does not wrap
// within a millisecond (see Generator). Elapsed time is measured on the
// monotonic clock from an anchor taken at construction. A generator
// constructed after the wall clock moved backwards can reissue ids that an
// earlier instance with the same identifier already produced.
package pkguid

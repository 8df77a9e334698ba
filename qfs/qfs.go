// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

// Package qfs implements the QFS (RefPack) compression scheme used for
// resource payloads in Maxis DBPF archives. The codec is stateless and has
// no knowledge of the container format: both directions operate on whole
// in-memory byte buffers.
//
// Compressed stream layout:
//
//	offset 0  uint32 LE  total stream size, header included
//	offset 4  uint16 LE  magic 0xFB10
//	offset 6  3 bytes BE decompressed size
//	offset 9  opcode stream
//
// The opcode stream mixes literal runs with back-reference copies into the
// already produced output. A control byte >= 0xFC terminates the stream.
package qfs

import "errors"

// Magic identifies a QFS stream, stored little-endian at offset 4.
const Magic = 0xFB10

// Binary layout and format limits.
const (
	headerSize = 9
	// maxOffset is the furthest a back-reference may reach behind the
	// current output position.
	maxOffset = 0x20000
	// maxCopyCount is the longest single back-reference copy.
	maxCopyCount = 0x404
	// maxInputSize is bounded by the 3-byte decompressed-size field.
	maxInputSize = 16 * 1024 * 1024
	// maxChainScan caps how many prior occurrences of a 3-byte prefix the
	// compressor considers per position. Higher values trade speed for ratio.
	maxChainScan = 20
)

// Sentinel errors for QFS operations. Use errors.Is in callers.
var (
	// ErrCorruptStream means the opcode stream is malformed, truncated, or
	// does not produce exactly the declared number of output bytes.
	ErrCorruptStream = errors.New("corrupt QFS stream")
	// ErrMissingMagic means the 0xFB10 marker is absent at offset 4.
	// The data is most likely not compressed at all.
	ErrMissingMagic = errors.New("missing QFS magic at offset 4")
	// ErrTooLarge means the input does not fit the 3-byte size field (16 MiB).
	ErrTooLarge = errors.New("input exceeds 16 MiB QFS size limit")
)

// IsCompressed reports whether data carries the QFS stream marker.
func IsCompressed(data []byte) bool {
	return len(data) >= headerSize && data[4] == Magic&0xFF && data[5] == Magic>>8
}

// DecompressedSize returns the declared decompressed size of a QFS stream.
func DecompressedSize(data []byte) (int, error) {
	if len(data) < headerSize {
		return 0, ErrCorruptStream
	}

	if !IsCompressed(data) {
		return 0, ErrMissingMagic
	}

	return int(data[6])<<16 | int(data[7])<<8 | int(data[8]), nil
}

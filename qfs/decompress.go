// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package qfs

import "fmt"

// opcode is one decoded operation from the compressed stream.
type opcode struct {
	// literal is the number of bytes copied verbatim from the input.
	literal int
	// length is the back-reference copy length; zero for literal-only opcodes.
	length int
	// offset is the back-reference distance behind the output position.
	offset int
	// terminal marks the 0xFC..0xFF end-of-stream opcode.
	terminal bool
}

// Decompress expands a QFS stream into exactly the number of bytes declared
// by its header. Truncated or over-long streams fail with ErrCorruptStream;
// the function never returns a short or padded buffer.
func Decompress(data []byte) ([]byte, error) {
	size, err := DecompressedSize(data)
	if err != nil {
		return nil, err
	}

	out := make([]byte, size)
	pos := headerSize
	dst := 0

	for pos < len(data) {
		op, n, err := decodeOpcode(data[pos:])
		if err != nil {
			return nil, err
		}

		pos += n
		if pos+op.literal > len(data) {
			return nil, fmt.Errorf("%w: literal run past end of input", ErrCorruptStream)
		}
		if dst+op.literal+op.length > size {
			return nil, fmt.Errorf("%w: output exceeds declared size %d", ErrCorruptStream, size)
		}

		copy(out[dst:], data[pos:pos+op.literal])
		pos += op.literal
		dst += op.literal

		if op.length > 0 {
			src := dst - op.offset
			if src < 0 {
				return nil, fmt.Errorf("%w: back-reference %d bytes before start of output", ErrCorruptStream, -src)
			}

			// Overlapping copies expand repeating patterns and must run
			// forward byte-by-byte, not as one bulk copy.
			for i := 0; i < op.length; i++ {
				out[dst+i] = out[src+i]
			}
			dst += op.length
		}

		if op.terminal {
			if dst != size {
				return nil, fmt.Errorf("%w: produced %d of %d declared bytes", ErrCorruptStream, dst, size)
			}

			return out, nil
		}
	}

	return nil, fmt.Errorf("%w: opcode stream ended without terminator", ErrCorruptStream)
}

// decodeOpcode decodes one opcode from the head of buf and returns it with
// the number of control bytes consumed. The four opcode shapes are
// distinguished by the high bits of the leading byte.
func decodeOpcode(buf []byte) (opcode, int, error) {
	ctrl := int(buf[0])

	switch {
	case ctrl <= 0x7F: // 2-byte: offset <= 1024, length <= 10
		if len(buf) < 2 {
			return opcode{}, 0, fmt.Errorf("%w: truncated 2-byte opcode", ErrCorruptStream)
		}

		return opcode{
			literal: ctrl & 0x03,
			length:  (ctrl&0x1C)>>2 + 3,
			offset:  (ctrl&0x60)<<3 + int(buf[1]) + 1,
		}, 2, nil

	case ctrl <= 0xBF: // 3-byte: offset <= 16384, length <= 67
		if len(buf) < 3 {
			return opcode{}, 0, fmt.Errorf("%w: truncated 3-byte opcode", ErrCorruptStream)
		}

		return opcode{
			literal: int(buf[1]) >> 6 & 0x03,
			length:  ctrl&0x3F + 4,
			offset:  (int(buf[1])&0x3F)<<8 + int(buf[2]) + 1,
		}, 3, nil

	case ctrl <= 0xDF: // 4-byte: offset <= 131072, length <= 1028
		if len(buf) < 4 {
			return opcode{}, 0, fmt.Errorf("%w: truncated 4-byte opcode", ErrCorruptStream)
		}

		return opcode{
			literal: ctrl & 0x03,
			length:  (ctrl&0x0C)<<6 + int(buf[3]) + 5,
			offset:  (ctrl&0x10)<<12 + int(buf[1])<<8 + int(buf[2]) + 1,
		}, 4, nil

	case ctrl <= 0xFB: // literal run of 4..112 bytes in multiples of four
		return opcode{literal: (ctrl&0x1F)<<2 + 4}, 1, nil

	default: // terminal with 0..3 trailing literals
		return opcode{literal: ctrl & 0x03, terminal: true}, 1, nil
	}
}

// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package qfs

import "encoding/binary"

// Compress encodes data as a QFS stream. The result is always a valid stream
// that decompresses back to data, but it is not guaranteed to be smaller than
// the input; the caller decides whether to store the original bytes instead.
// Inputs of 16 MiB or more fail with ErrTooLarge.
func Compress(data []byte) ([]byte, error) {
	if len(data) >= maxInputSize {
		return nil, ErrTooLarge
	}

	c := compressor{
		data: data,
		out:  make([]byte, headerSize, headerSize+len(data)+maxCopyCount),
		// chains maps each 3-byte prefix to the positions it was seen at,
		// oldest first.
		chains: make(map[uint32][]int),
	}
	c.run()

	binary.LittleEndian.PutUint32(c.out[0:4], uint32(len(c.out)))
	binary.LittleEndian.PutUint16(c.out[4:6], Magic)
	c.out[6] = byte(len(data) >> 16)
	c.out[7] = byte(len(data) >> 8)
	c.out[8] = byte(len(data))

	return c.out, nil
}

// compressor holds sliding-window match state for one Compress call.
type compressor struct {
	data     []byte
	out      []byte
	chains   map[uint32][]int
	lastRead int
}

// run walks the input, choosing between literal runs and back-reference
// copies, and emits the opcode stream body including the terminal record.
func (c *compressor) run() {
	index := -1

	for index < len(c.data)-3 {
		var chain []int
		end := false

		// Record every position in its prefix chain, resuming the match
		// search at the first position not yet covered by an emitted copy.
		for {
			index++
			if index >= len(c.data)-2 {
				end = true
				break
			}

			key := uint32(c.data[index]) | uint32(c.data[index+1])<<8 | uint32(c.data[index+2])<<16
			chain = append(c.chains[key], index)
			c.chains[key] = chain

			if index >= c.lastRead {
				break
			}
		}
		if end {
			break
		}

		length, offset := c.bestMatch(index, chain)
		if length > 0 {
			c.emitCopy(index, length, offset)
		}
	}

	c.emitTrailer()
}

// bestMatch scans recent prior occurrences of the 3-byte prefix at index and
// returns the longest usable (length, offset) pair, or a zero length when no
// match is worth the opcode cost.
func (c *compressor) bestMatch(index int, chain []int) (int, int) {
	bestLen := 0
	bestOffset := 0

	for i := 1; i < len(chain) && i < maxChainScan; i++ {
		found := chain[len(chain)-1-i]
		if index-found >= maxOffset {
			break
		}

		n := 3
		for index+n < len(c.data) && c.data[index+n] == c.data[found+n] && n < maxCopyCount {
			n++
		}

		if n > bestLen {
			bestLen = n
			bestOffset = index - found
		}
	}

	if bestLen > len(c.data)-index {
		bestLen = 0
	}

	// Short matches at long range cost more to encode than they save.
	switch {
	case bestLen <= 2:
		bestLen = 0
	case bestLen == 3 && bestOffset > 0x400:
		bestLen = 0
	case bestLen == 4 && bestOffset > 0x4000:
		bestLen = 0
	}

	return bestLen, bestOffset
}

// emitCopy flushes pending literals and encodes one back-reference using the
// smallest opcode shape that covers its (length, offset) pair.
func (c *compressor) emitCopy(index, length, offset int) {
	c.emitLongLiterals(index)

	// Up to three leftover literal bytes ride along inside the copy opcode.
	literal := index - c.lastRead
	off := offset - 1

	switch {
	case length <= 0x0A && off < 0x400:
		c.out = append(c.out,
			byte((off>>8)<<5+(length-3)<<2+literal),
			byte(off))
	case length <= 0x43 && off < 0x4000:
		c.out = append(c.out,
			byte(0x80+length-4),
			byte(literal<<6+off>>8),
			byte(off))
	default:
		c.out = append(c.out,
			byte(0xC0+(off>>16)<<4+((length-5)>>8)<<2+literal),
			byte(off>>8),
			byte(off),
			byte(length-5))
	}

	c.out = append(c.out, c.data[c.lastRead:c.lastRead+literal]...)
	c.lastRead += literal + length
}

// emitLongLiterals drains pending literals down to fewer than four bytes
// using the 0xE0-range run opcodes.
func (c *compressor) emitLongLiterals(upto int) {
	for upto-c.lastRead >= 4 {
		n := (upto-c.lastRead)/4 - 1
		if n > 0x1B {
			n = 0x1B
		}

		c.out = append(c.out, byte(0xE0+n))
		n = 4*n + 4
		c.out = append(c.out, c.data[c.lastRead:c.lastRead+n]...)
		c.lastRead += n
	}
}

// emitTrailer writes remaining literals and the terminal opcode.
func (c *compressor) emitTrailer() {
	c.emitLongLiterals(len(c.data))

	n := len(c.data) - c.lastRead
	c.out = append(c.out, byte(0xFC+n))
	c.out = append(c.out, c.data[c.lastRead:]...)
	c.lastRead = len(c.data)
}

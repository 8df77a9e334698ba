// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package qfs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"
)

// stream assembles a compressed buffer from header fields and opcodes.
func stream(decompressedSize int, body ...byte) []byte {
	out := make([]byte, headerSize+len(body))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(out)))
	binary.LittleEndian.PutUint16(out[4:6], Magic)
	out[6] = byte(decompressedSize >> 16)
	out[7] = byte(decompressedSize >> 8)
	out[8] = byte(decompressedSize)
	copy(out[headerSize:], body)

	return out
}

func TestIsCompressed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"valid header", stream(0, 0xFC), true},
		{"no magic", []byte{0x00, 0x00, 0x00, 0x00, 0x11, 0x22, 0x00, 0x00, 0x00}, false},
		{"too short", []byte{0x10, 0xFB}, false},
		{"empty", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := IsCompressed(tc.data); got != tc.want {
				t.Errorf("IsCompressed() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecompressedSize(t *testing.T) {
	t.Parallel()

	size, err := DecompressedSize(stream(0x0102AB, 0xFC))
	if err != nil {
		t.Fatalf("DecompressedSize() error = %v", err)
	}
	if size != 0x0102AB {
		t.Errorf("DecompressedSize() = %#x, want 0x0102AB", size)
	}

	if _, err := DecompressedSize([]byte{0x10}); !errors.Is(err, ErrCorruptStream) {
		t.Errorf("short buffer error = %v, want ErrCorruptStream", err)
	}
	if _, err := DecompressedSize(make([]byte, 16)); !errors.Is(err, ErrMissingMagic) {
		t.Errorf("no magic error = %v, want ErrMissingMagic", err)
	}
}

func TestDecompressKnownStream(t *testing.T) {
	t.Parallel()

	// Literal run "ABAB", then a 6-byte copy from 2 bytes back expanding
	// the pattern, then the terminator.
	data := stream(10,
		0xE0, 'A', 'B', 'A', 'B', // literal run of 4
		0x0C, 0x01, // copy length 6 offset 2
		0xFC, // end of stream
	)

	got, err := Decompress(data)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if want := "ABABABABAB"; string(got) != want {
		t.Errorf("Decompress() = %q, want %q", got, want)
	}
}

func TestDecompressTrailingLiterals(t *testing.T) {
	t.Parallel()

	// Terminator opcodes carry 0-3 trailing literal bytes in the low bits.
	data := stream(3, 0xFF, 'x', 'y', 'z')

	got, err := Decompress(data)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if string(got) != "xyz" {
		t.Errorf("Decompress() = %q, want %q", got, "xyz")
	}
}

func TestDecompressCorrupt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"no magic", make([]byte, 16), ErrMissingMagic},
		{"missing terminator", stream(10, 0xE0, 'A', 'B', 'A', 'B'), ErrCorruptStream},
		{"literal past input end", stream(8, 0xE0, 'A', 'B'), ErrCorruptStream},
		{"output overrun", stream(2, 0xE0, 'A', 'B', 'A', 'B', 0xFC), ErrCorruptStream},
		{"short output at terminator", stream(12, 0xE0, 'A', 'B', 'A', 'B', 0xFC), ErrCorruptStream},
		{"back-reference before start", stream(10, 0xE0, 'A', 'B', 'A', 'B', 0x0C, 0xFF, 0xFC), ErrCorruptStream},
		{"truncated copy opcode", stream(10, 0xE0, 'A', 'B', 'A', 'B', 0x0C), ErrCorruptStream},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Decompress(tc.data); !errors.Is(err, tc.want) {
				t.Errorf("Decompress() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	random := make([]byte, 4096)
	rng.Read(random)

	long := make([]byte, 300*1024)
	for i := range long {
		long[i] = byte(i / 1024)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"single byte", []byte{0x42}},
		{"short text", []byte("hello world")},
		{"repeating byte", bytes.Repeat([]byte{0xAB}, 50)},
		{"repeating pattern", bytes.Repeat([]byte("abcd"), 1000)},
		{"incompressible", random},
		{"long with distant matches", long},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			compressed, err := Compress(tc.data)
			if err != nil {
				t.Fatalf("Compress() error = %v", err)
			}

			if !IsCompressed(compressed) {
				t.Fatal("Compress() output missing stream magic")
			}
			if size, _ := DecompressedSize(compressed); size != len(tc.data) {
				t.Fatalf("declared size = %d, want %d", size, len(tc.data))
			}
			if got := binary.LittleEndian.Uint32(compressed[0:4]); int(got) != len(compressed) {
				t.Fatalf("declared stream size = %d, want %d", got, len(compressed))
			}

			decompressed, err := Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress() error = %v", err)
			}
			if !bytes.Equal(decompressed, tc.data) {
				t.Errorf("round trip mismatch: got %d bytes, want %d", len(decompressed), len(tc.data))
			}
		})
	}
}

func TestRoundTripOverlappingCopies(t *testing.T) {
	t.Parallel()

	// A long single-byte run compresses to copies that overlap their own
	// output and must expand forward byte-by-byte.
	data := bytes.Repeat([]byte{0xAB}, 50)

	compressed, err := Compress(data)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if len(compressed) >= len(data)+headerSize {
		t.Fatalf("run of %d bytes did not compress: %d bytes", len(data), len(compressed))
	}

	decompressed, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Errorf("round trip mismatch for overlapping copies")
	}
}

func TestCompressTooLarge(t *testing.T) {
	t.Parallel()

	if _, err := Compress(make([]byte, maxInputSize+1)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Compress() error = %v, want ErrTooLarge", err)
	}
}

func TestCompressRatio(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("The Sims 2 "), 500)

	compressed, err := Compress(data)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if len(compressed) > len(data)/4 {
		t.Errorf("repetitive input compressed to %d of %d bytes", len(compressed), len(data))
	}
}

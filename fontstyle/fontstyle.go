// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

// Package fontstyle rewrites the game's FontStyle.ini so fonts render at a
// higher density. Each style line quotes a face name, a point size, and a
// render-flag string:
//
//	Default = "ITC Benguiat Gothic", "11", "bold|aa=bg", 0x68963c4c
//
// Only the point size changes; every other byte of the file is preserved,
// including comments, blank lines, and lines this package does not
// understand.
package fontstyle

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrNotText means the file is not valid UTF-8 and cannot be a FontStyle.ini.
var ErrNotText = errors.New("font style file is not valid UTF-8 text")

// sizeField is the index of the point size when a style line is split on
// double quotes: [prefix, face, sep, size, sep, flags, suffix].
const sizeField = 3

// minFields is the split length below which a line carries no style record.
const minFields = 6

// Scale multiplies every point size in a FontStyle.ini by factor,
// rounding half away from zero, and returns the rewritten file.
func Scale(data []byte, factor float64) ([]byte, error) {
	if !utf8.Valid(data) {
		return nil, ErrNotText
	}

	lines := strings.SplitAfter(string(data), "\n")

	var b strings.Builder
	b.Grow(len(data))
	for _, line := range lines {
		b.WriteString(scaleLine(line, factor))
	}

	return []byte(b.String()), nil
}

// scaleLine rewrites one line, or returns it untouched when it is a
// comment, blank, or holds a size that is not a plain integer.
func scaleLine(line string, factor float64) string {
	parts := strings.Split(line, `"`)
	if len(parts) < minFields {
		return line
	}

	size, err := strconv.Atoi(strings.TrimSpace(parts[sizeField]))
	if err != nil {
		return line
	}

	parts[sizeField] = strconv.Itoa(int(math.Round(float64(size) * factor)))

	return strings.Join(parts, `"`)
}

// Sizes lists the point sizes found in the file, in order of appearance.
// Used to report whether a file looks already scaled.
func Sizes(data []byte) ([]int, error) {
	if !utf8.Valid(data) {
		return nil, ErrNotText
	}

	var sizes []int
	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.Split(line, `"`)
		if len(parts) < minFields {
			continue
		}

		size, err := strconv.Atoi(strings.TrimSpace(parts[sizeField]))
		if err != nil {
			continue
		}

		sizes = append(sizes, size)
	}

	return sizes, nil
}

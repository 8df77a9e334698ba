// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

// Package graphics upscales the raster resources embedded in UI packages.
// The archive stores them all under one "image" type, so the real file
// format (usually Targa, sometimes PNG, JPEG or BMP) is sniffed from the
// payload header, decoded, resampled, and re-encoded in the same format.
package graphics

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/bmp"
)

// Sentinel errors for image operations. Use errors.Is in callers.
var (
	// ErrUnknownFormat means the payload matches no recognized image
	// signature; callers keep such resources byte-identical.
	ErrUnknownFormat = errors.New("unrecognized image format")
	// ErrUnsupportedImage means the format was recognized but uses a
	// variant this package cannot decode or re-encode.
	ErrUnsupportedImage = errors.New("unsupported image variant")
)

// Format identifies the on-disk encoding of an image resource.
type Format uint8

// Image formats found inside UI packages.
const (
	FormatUnknown Format = iota
	FormatTGA
	FormatBMP
	FormatJPEG
	FormatPNG
)

// String returns the canonical short name of the format.
func (f Format) String() string {
	switch f {
	case FormatTGA:
		return "TGA"
	case FormatBMP:
		return "BMP"
	case FormatJPEG:
		return "JPEG"
	case FormatPNG:
		return "PNG"
	default:
		return "Unknown"
	}
}

// Sniff inspects the payload header and reports the image format.
// Targa has no magic number, so it is recognized by the image-type byte
// of its header instead.
func Sniff(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	switch {
	case bytes.HasPrefix(data, []byte{0x00, 0x00, 0x02}) || bytes.HasPrefix(data, []byte{0x00, 0x00, 0x0A}):
		return FormatTGA
	case bytes.HasPrefix(data, []byte("BM")):
		return FormatBMP
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return FormatJPEG
	case bytes.HasPrefix(data, []byte("\x89PNG")):
		return FormatPNG
	default:
		return FormatUnknown
	}
}

// Decode sniffs and decodes an image payload.
func Decode(data []byte) (image.Image, Format, error) {
	format := Sniff(data)

	var (
		img image.Image
		err error
	)

	switch format {
	case FormatTGA:
		img, err = decodeTGA(data)
	case FormatBMP:
		img, err = bmp.Decode(bytes.NewReader(data))
	case FormatJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	case FormatPNG:
		img, err = png.Decode(bytes.NewReader(data))
	default:
		return nil, FormatUnknown, ErrUnknownFormat
	}

	if err != nil {
		return nil, format, fmt.Errorf("decode %s: %w", format, err)
	}

	return img, format, nil
}

// Encode serializes img in the given format.
func Encode(img image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer

	var err error
	switch format {
	case FormatTGA:
		err = encodeTGA(&buf, img)
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	case FormatPNG:
		err = png.Encode(&buf, img)
	default:
		return nil, ErrUnknownFormat
	}

	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	return buf.Bytes(), nil
}

// Scale decodes an image payload, resamples it by factor with the given
// filter, and re-encodes it in its original format. Dimensions that do
// not multiply to whole pixels round to the nearest integer.
func Scale(data []byte, factor float64, filter transform.ResampleFilter) ([]byte, error) {
	img, format, err := Decode(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := scaleDim(bounds.Dx(), factor)
	height := scaleDim(bounds.Dy(), factor)

	resized := transform.Resize(img, width, height, filter)

	return Encode(resized, format)
}

// scaleDim multiplies a pixel dimension by factor, keeping at least one
// pixel so degenerate images stay decodable.
func scaleDim(v int, factor float64) int {
	scaled := int(math.Round(float64(v) * factor))
	if scaled < 1 {
		scaled = 1
	}

	return scaled
}

// filters maps the filter names accepted on the command line to bild
// resampling kernels. Nearest keeps the original pixel-art crispness and
// is the default.
var filters = map[string]transform.ResampleFilter{
	"nearest":    transform.NearestNeighbor,
	"box":        transform.Box,
	"linear":     transform.Linear,
	"gaussian":   transform.Gaussian,
	"mitchell":   transform.MitchellNetravali,
	"catmullrom": transform.CatmullRom,
	"lanczos":    transform.Lanczos,
}

// FilterByName resolves a resampling filter by its lower-case name.
func FilterByName(name string) (transform.ResampleFilter, bool) {
	f, ok := filters[name]
	return f, ok
}

// FilterNames lists the accepted resampling filter names.
func FilterNames() []string {
	return []string{"nearest", "box", "linear", "gaussian", "mitchell", "catmullrom", "lanczos"}
}

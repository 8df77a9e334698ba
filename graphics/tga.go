// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package graphics

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// Targa header layout. The format carries no magic number; byte 2 holds
// the image type and bit 5 of byte 17 flips the row order to top-down.
const tgaHeaderSize = 18

// Targa image types. Color-mapped variants (1 and 9) never occur in UI
// packages and are rejected.
const (
	tgaTrueColor    = 2
	tgaGrayscale    = 3
	tgaTrueColorRLE = 10
	tgaGrayscaleRLE = 11
)

// decodeTGA parses an uncompressed or run-length encoded Targa image.
// True-color pixels are stored BGR or BGRA; grayscale is 8-bit.
func decodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: short TGA header", ErrUnsupportedImage)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(binary.LittleEndian.Uint16(data[12:14]))
	height := int(binary.LittleEndian.Uint16(data[14:16]))
	depth := int(data[16])
	topDown := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped TGA", ErrUnsupportedImage)
	}

	var grayscale, rle bool
	switch imageType {
	case tgaTrueColor:
	case tgaTrueColorRLE:
		rle = true
	case tgaGrayscale:
		grayscale = true
	case tgaGrayscaleRLE:
		grayscale, rle = true, true
	default:
		return nil, fmt.Errorf("%w: TGA image type %d", ErrUnsupportedImage, imageType)
	}

	if grayscale && depth != 8 {
		return nil, fmt.Errorf("%w: %d-bit grayscale TGA", ErrUnsupportedImage, depth)
	}
	if !grayscale && depth != 24 && depth != 32 {
		return nil, fmt.Errorf("%w: %d-bit true-color TGA", ErrUnsupportedImage, depth)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: zero-sized TGA", ErrUnsupportedImage)
	}

	bpp := depth / 8
	if tgaHeaderSize+idLength > len(data) {
		return nil, fmt.Errorf("%w: truncated TGA image ID", ErrUnsupportedImage)
	}
	pixels := data[tgaHeaderSize+idLength:]

	if rle {
		var err error
		pixels, err = expandTGARuns(pixels, width*height, bpp)
		if err != nil {
			return nil, err
		}
	}
	if len(pixels) < width*height*bpp {
		return nil, fmt.Errorf("%w: truncated TGA pixel data", ErrUnsupportedImage)
	}

	if grayscale {
		img := image.NewGray(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			src := y
			if !topDown {
				src = height - 1 - y
			}
			copy(img.Pix[y*img.Stride:y*img.Stride+width], pixels[src*width:])
		}

		return img, nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := y
		if !topDown {
			src = height - 1 - y
		}

		row := pixels[src*width*bpp:]
		for x := 0; x < width; x++ {
			p := row[x*bpp : x*bpp+bpp]
			alpha := byte(0xFF)
			if bpp == 4 {
				alpha = p[3]
			}

			dst := img.Pix[y*img.Stride+x*4 : y*img.Stride+x*4+4]
			dst[0], dst[1], dst[2], dst[3] = p[2], p[1], p[0], alpha
		}
	}

	return img, nil
}

// expandTGARuns inflates run-length packets into raw pixels. Each packet
// starts with a control byte: high bit set means one pixel repeated
// (count&0x7F)+1 times, clear means that many literal pixels follow.
func expandTGARuns(data []byte, pixelCount, bpp int) ([]byte, error) {
	out := make([]byte, 0, pixelCount*bpp)
	pos := 0

	for len(out) < pixelCount*bpp {
		if pos >= len(data) {
			return nil, fmt.Errorf("%w: truncated TGA packet stream", ErrUnsupportedImage)
		}

		ctrl := data[pos]
		pos++
		count := int(ctrl&0x7F) + 1

		if ctrl&0x80 != 0 {
			if pos+bpp > len(data) {
				return nil, fmt.Errorf("%w: truncated TGA run packet", ErrUnsupportedImage)
			}

			pixel := data[pos : pos+bpp]
			pos += bpp
			for i := 0; i < count; i++ {
				out = append(out, pixel...)
			}

			continue
		}

		n := count * bpp
		if pos+n > len(data) {
			return nil, fmt.Errorf("%w: truncated TGA literal packet", ErrUnsupportedImage)
		}

		out = append(out, data[pos:pos+n]...)
		pos += n
	}

	return out, nil
}

// encodeTGA writes img as an uncompressed top-down Targa image: 8-bit
// grayscale for image.Gray sources, 32-bit BGRA for everything else.
func encodeTGA(buf *bytes.Buffer, img image.Image) error {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > 0xFFFF || height > 0xFFFF {
		return fmt.Errorf("%w: %dx%d exceeds TGA dimensions", ErrUnsupportedImage, width, height)
	}

	gray, isGray := img.(*image.Gray)

	header := make([]byte, tgaHeaderSize)
	binary.LittleEndian.PutUint16(header[12:14], uint16(width))
	binary.LittleEndian.PutUint16(header[14:16], uint16(height))
	if isGray {
		header[2] = tgaGrayscale
		header[16] = 8
		header[17] = 0x20
	} else {
		header[2] = tgaTrueColor
		header[16] = 32
		header[17] = 0x28 // top-down, 8 alpha bits
	}
	buf.Write(header)

	if isGray {
		for y := 0; y < height; y++ {
			buf.Write(gray.Pix[y*gray.Stride : y*gray.Stride+width])
		}

		return nil
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf.Write([]byte{c.B, c.G, c.R, c.A})
		}
	}

	return nil
}

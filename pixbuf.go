package loomweave

import (
	"fmt"
	"image"

	"github.com/HMC-Makerspace/loomweave/imageutil"
)

// PixelBuffer is a single channel row-major raster. Only the resampler
// establishes its dimensions; later stages edit pixels in place.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelBuffer allocates a buffer filled with value.
func NewPixelBuffer(width, height int, value uint8) *PixelBuffer {
	buf := &PixelBuffer{Width: width, Height: height, Pix: make([]uint8, width*height)}
	if value != 0 {
		for i := range buf.Pix {
			buf.Pix[i] = value
		}
	}
	return buf
}

// PixelBufferFromGray copies a grayscale image into a new buffer.
func PixelBufferFromGray(gray *imageutil.GrayImage) *PixelBuffer {
	return &PixelBuffer{
		Width:  gray.Width(),
		Height: gray.Height(),
		Pix:    gray.PackedPix(),
	}
}

// Validate checks the dimension invariant.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("nil pixel buffer")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("pixel buffer has non-positive size %dx%d", b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height {
		return fmt.Errorf("pixel buffer holds %d values, want %d", len(b.Pix), b.Width*b.Height)
	}
	return nil
}

// In reports whether (x, y) lies inside the buffer.
func (b *PixelBuffer) In(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// At returns the pixel at (x, y). Reads outside the buffer return White.
func (b *PixelBuffer) At(x, y int) uint8 {
	if !b.In(x, y) {
		return White
	}
	return b.Pix[y*b.Width+x]
}

// Set writes the pixel at (x, y). Writes outside the buffer are dropped.
func (b *PixelBuffer) Set(x, y int, v uint8) {
	if b.In(x, y) {
		b.Pix[y*b.Width+x] = v
	}
}

// Row returns row y as a slice of the buffer.
func (b *PixelBuffer) Row(y int) []uint8 {
	return b.Pix[y*b.Width : (y+1)*b.Width]
}

// Clone returns a deep copy.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Gray returns an image.Gray view sharing the buffer's pixels.
func (b *PixelBuffer) Gray() *image.Gray {
	return &image.Gray{
		Pix:    b.Pix,
		Stride: b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// IsBinary reports whether every pixel is Black or White.
func (b *PixelBuffer) IsBinary() bool {
	for _, v := range b.Pix {
		if v != Black && v != White {
			return false
		}
	}
	return true
}

// Invert swaps black and white, mapping v to 255-v.
func (b *PixelBuffer) Invert() {
	for i, v := range b.Pix {
		b.Pix[i] = 255 - v
	}
}

// Diff counts the pixels that differ between two buffers of equal size.
func (b *PixelBuffer) Diff(other *PixelBuffer) int {
	n := 0
	for i := range b.Pix {
		if i >= len(other.Pix) || b.Pix[i] != other.Pix[i] {
			n++
		}
	}
	return n
}

// Package imageutil provides the raster plumbing that runs ahead of the loom
// pipeline: decoding camera and web images, fixing their orientation,
// resampling them onto a fixed-width loom canvas and reducing them to luma.
package imageutil

import (
	"image"
	"image/color"
	"image/draw"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// White is the blank loom background.
var White = RGB{R: 255, G: 255, B: 255}

// ToColor converts RGB to color.RGBA for use with standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewFilledRGBAImage creates an opaque image filled with c.
func NewFilledRGBAImage(width, height int, c RGB) *RGBAImage {
	img := NewRGBAImage(width, height)
	draw.Draw(img.RGBA, img.Bounds(), &image.Uniform{C: c.ToColor()}, image.Point{}, draw.Src)
	return img
}

// RGBAImageFromImage converts any image.Image to an RGBAImage whose bounds
// start at the origin. An *image.RGBA already at the origin is wrapped
// without copying.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return &RGBAImage{RGBA: rgba}
	}
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())
	draw.Draw(rgba.RGBA, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets the RGB value at (x, y).
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, c.ToColor())
}

// Clone creates a deep copy of the image.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	copy(clone.Pix, img.Pix)
	return clone
}

// GrayImage wraps image.Gray for single-channel images.
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// GrayImageFromPix wraps a tightly packed row-major luma slice. The slice
// is shared, not copied.
func GrayImageFromPix(pix []uint8, width, height int) *GrayImage {
	return &GrayImage{
		Gray: &image.Gray{
			Pix:    pix,
			Stride: width,
			Rect:   image.Rect(0, 0, width, height),
		},
	}
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.GrayAt(x, y).Y
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Gray.SetGray(x, y, color.Gray{Y: v})
}

// PackedPix returns the luma values as a row-major slice with no stride
// padding. The result never aliases the image.
func (img *GrayImage) PackedPix() []uint8 {
	width, height := img.Width(), img.Height()
	out := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		start := y * img.Stride
		copy(out[y*width:(y+1)*width], img.Pix[start:start+width])
	}
	return out
}

package imageutil

import (
	"image"
	"testing"
)

func TestSharpenGrayKeepsFlatRegions(t *testing.T) {
	t.Parallel()
	img := ToGrayscale(CreateSolidImage(16, 16, RGB{R: 90, G: 90, B: 90}))

	SharpenGray(img, img.Bounds())

	for _, v := range img.Pix {
		if v != 90 {
			t.Fatalf("Sharpening a flat image should be a no-op, got %d", v)
		}
	}
}

func TestSharpenGrayEdge(t *testing.T) {
	t.Parallel()
	img := GrayImageFromPix([]uint8{100, 100, 200, 200}, 4, 1)

	SharpenGray(img, img.Bounds())

	// 100 next to 200 undershoots by half the step, 200 overshoots.
	want := []uint8{100, 50, 250, 200}
	for i, v := range want {
		if img.Pix[i] != v {
			t.Errorf("Index %d: expected %d, got %d", i, v, img.Pix[i])
		}
	}
}

func TestSharpenGraySaturates(t *testing.T) {
	t.Parallel()
	img := GrayImageFromPix([]uint8{0, 255, 0}, 3, 1)

	SharpenGray(img, img.Bounds())

	want := []uint8{0, 255, 0}
	for i, v := range want {
		if img.Pix[i] != v {
			t.Errorf("Index %d: expected %d, got %d", i, v, img.Pix[i])
		}
	}
}

func TestSharpenGrayStaysInsideRect(t *testing.T) {
	t.Parallel()
	// Flat content at columns 1..2 surrounded by white canvas.
	img := GrayImageFromPix([]uint8{255, 80, 80, 255}, 4, 1)

	SharpenGray(img, image.Rect(1, 0, 3, 1))

	want := []uint8{255, 80, 80, 255}
	for i, v := range want {
		if img.Pix[i] != v {
			t.Errorf("Index %d: expected %d, got %d", i, v, img.Pix[i])
		}
	}
}

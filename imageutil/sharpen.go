package imageutil

import "image"

// SharpenGray sharpens the luma inside r in place with the cross kernel
//
//	   0   -1/2    0
//	-1/2     3  -1/2
//	   0   -1/2    0
//
// rounding half up and saturating at 0 and 255. Neighbours outside r
// repeat the nearest pixel inside it, so the canvas around the content
// never bleeds into its edges. Pixels outside r are untouched.
func SharpenGray(img *GrayImage, r image.Rectangle) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	w, h := r.Dx(), r.Dy()

	src := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		i := img.PixOffset(r.Min.X, r.Min.Y+y)
		copy(src[y*w:(y+1)*w], img.Pix[i:i+w])
	}
	at := func(x, y int) int {
		return int(src[clampInt(y, 0, h-1)*w+clampInt(x, 0, w-1)])
	}

	for y := 0; y < h; y++ {
		out := img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):]
		for x := 0; x < w; x++ {
			n := 6*at(x, y) - at(x-1, y) - at(x+1, y) - at(x, y-1) - at(x, y+1)
			out[x] = uint8(clampInt((n+1)/2, 0, 255))
		}
	}
}

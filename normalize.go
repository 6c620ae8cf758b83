package loomweave

import "image"

// Normalize stretches the buffer's values linearly so the darkest pixel
// becomes 0 and the brightest 255, rounding to nearest. It returns false,
// leaving the buffer untouched, when every pixel has the same value.
func Normalize(buf *PixelBuffer) bool {
	return NormalizeRegion(buf, image.Rect(0, 0, buf.Width, buf.Height))
}

// NormalizeRegion is Normalize with the range measured inside region only.
// The stretch is applied to the whole buffer and values outside the
// measured range saturate, so white canvas padding stays white. It returns
// false when region is empty or flat.
func NormalizeRegion(buf *PixelBuffer, region image.Rectangle) bool {
	region = region.Intersect(image.Rect(0, 0, buf.Width, buf.Height))
	if region.Empty() || len(buf.Pix) < buf.Width*buf.Height {
		return false
	}

	lo, hi := 255, 0
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for _, v := range buf.Row(y)[region.Min.X:region.Max.X] {
			lo = min(lo, int(v))
			hi = max(hi, int(v))
		}
	}
	if lo == hi {
		return false
	}

	span := hi - lo
	for i, v := range buf.Pix {
		n := ((int(v)-lo)*255*2 + span) / (2 * span)
		buf.Pix[i] = uint8(min(max(n, 0), 255))
	}
	return true
}

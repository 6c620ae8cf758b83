package loomweave

import "image"

// StampTabby overwrites two plain-weave binding bands of the given width:
// one ending at column start and one beginning at column end. Even rows
// carry the pattern 0,255,0,... and odd rows its complement, so each band
// is a checkerboard. A band that would cross the canvas edge is shifted
// inside it, and a band wider than the canvas is cut to the canvas width.
// A width of zero leaves buf untouched.
func StampTabby(buf *PixelBuffer, start, end, width int) {
	if width <= 0 || buf.Width <= 0 {
		return
	}
	band := min(width, buf.Width)
	stampColumns(buf, clampBand(start-width, band, buf.Width), band)
	stampColumns(buf, clampBand(end, band, buf.Width), band)
}

// StampOuterTabby stamps the selvedge bands flush with both canvas edges.
func StampOuterTabby(buf *PixelBuffer, width int) {
	StampTabby(buf, width, buf.Width-width, width)
}

// StampMarginTabby stamps the selvedge bands so that each covers the blank
// margin between its canvas edge and content, or width columns when the
// margin is narrower.
func StampMarginTabby(buf *PixelBuffer, content image.Rectangle, width int) {
	if buf.Width <= 0 {
		return
	}
	left := min(max(width, content.Min.X), buf.Width)
	right := min(max(width, buf.Width-content.Max.X), buf.Width)
	if left > 0 {
		stampColumns(buf, 0, left)
	}
	if right > 0 {
		stampColumns(buf, buf.Width-right, right)
	}
}

func clampBand(pos, band, canvas int) int {
	return min(max(pos, 0), canvas-band)
}

func stampColumns(buf *PixelBuffer, x, band int) {
	for y := 0; y < buf.Height; y++ {
		stampBand(buf.Row(y)[x:x+band], y)
	}
}

func stampBand(dst []uint8, y int) {
	odd := y%2 == 1
	for i := range dst {
		if (i%2 == 1) != odd {
			dst[i] = White
		} else {
			dst[i] = Black
		}
	}
}
